package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoan_DisplayStatus(t *testing.T) {
	dueDate := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		now        time.Time
		isReturned bool
		want       LoanStatus
	}{
		{"ten days before due", dueDate.AddDate(0, 0, -10), false, LoanStatusBorrowed},
		{"three days before due", dueDate.AddDate(0, 0, -3), false, LoanStatusDueSoon},
		{"exactly seven days before due", dueDate.Add(-DueSoonWindow), false, LoanStatusDueSoon},
		{"on the due date", dueDate, false, LoanStatusDueSoon},
		{"one day overdue", dueDate.AddDate(0, 0, 1), false, LoanStatusOverdue},
		{"returned while overdue", dueDate.AddDate(0, 0, 30), true, LoanStatusReturned},
		{"returned before due", dueDate.AddDate(0, 0, -20), true, LoanStatusReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &Loan{DueDate: dueDate, IsReturned: tt.isReturned}
			require.Equal(t, tt.want, loan.DisplayStatus(tt.now))
		})
	}
}

func TestLoan_DisplayStatus_BorrowedJustOutsideWindow(t *testing.T) {
	dueDate := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	loan := &Loan{DueDate: dueDate}

	now := dueDate.Add(-DueSoonWindow - time.Second)
	require.Equal(t, LoanStatusBorrowed, loan.DisplayStatus(now))
}
