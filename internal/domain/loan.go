package domain

import "time"

// LoanStatus is the presentation band for a loan, derived at read time.
// It is never persisted: a loan document only records whether it was
// returned, and the band is a pure function of (now, dueDate, isReturned).
type LoanStatus string

const (
	// LoanStatusBorrowed means the due date is more than a week away.
	LoanStatusBorrowed LoanStatus = "borrowed"
	// LoanStatusDueSoon means the due date falls within the next seven days.
	LoanStatusDueSoon LoanStatus = "due_soon"
	// LoanStatusOverdue means the due date has passed.
	LoanStatusOverdue LoanStatus = "overdue"
	// LoanStatusReturned means the book came back.
	LoanStatusReturned LoanStatus = "returned"
)

// DueSoonWindow is how far ahead of the due date a loan starts
// counting as due soon.
const DueSoonWindow = 7 * 24 * time.Hour

// Loan represents a lending relationship between a book and a borrower.
// Both sides are registered users; the lender owns the book.
type Loan struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	LenderID   string    `json:"lender_id"`
	BorrowerID string    `json:"borrower_id"`
	LendDate   time.Time `json:"lend_date"`
	DueDate    time.Time `json:"due_date"`
	Notes      string    `json:"notes,omitempty"`
	IsReturned bool      `json:"is_returned"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayStatus computes the presentation band for the loan at the
// given instant.
func (l *Loan) DisplayStatus(now time.Time) LoanStatus {
	if l.IsReturned {
		return LoanStatusReturned
	}
	if now.After(l.DueDate) {
		return LoanStatusOverdue
	}
	if !now.Before(l.DueDate.Add(-DueSoonWindow)) {
		return LoanStatusDueSoon
	}
	return LoanStatusBorrowed
}
