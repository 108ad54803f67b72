package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/id"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// LoanService tracks the lending lifecycle of catalog entries.
type LoanService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLoanService creates a new loan service.
func NewLoanService(store *store.Store, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:  store,
		logger: logger,
	}
}

// CreateLoanRequest contains the data for lending a book out.
type CreateLoanRequest struct {
	BookID       string `json:"book_id" validate:"required"`
	BorrowerID   string `json:"borrower_id" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=365"`
	Notes        string `json:"notes" validate:"max=1024"`
}

// LoanView is a loan decorated with its display status, computed at
// read time.
type LoanView struct {
	*domain.Loan
	Status domain.LoanStatus `json:"status"`
}

// Create lends a book out. The loan insert and the book's status flip
// to lent happen in one store transaction, so a crash can never leave a
// loan without a lent book or the reverse.
func (s *LoanService) Create(ctx context.Context, lenderID string, req CreateLoanRequest) (*LoanView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.BorrowerID == lenderID {
		return nil, domainerrors.Validation("cannot lend a book to yourself")
	}

	book, err := s.store.Books.Get(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != lenderID {
		return nil, domainerrors.Forbidden("only the owner can lend a book")
	}
	if book.LendingStatus != domain.LendingStatusAvailable {
		return nil, domainerrors.Conflict("book is not available to lend")
	}

	if _, err := s.store.Users.Get(ctx, req.BorrowerID); err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFound("borrower not found")
		}
		return nil, fmt.Errorf("lookup borrower: %w", err)
	}

	loanID, err := id.Generate("loan")
	if err != nil {
		return nil, fmt.Errorf("generate loan ID: %w", err)
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:         loanID,
		BookID:     book.ID,
		LenderID:   lenderID,
		BorrowerID: req.BorrowerID,
		LendDate:   now,
		DueDate:    now.AddDate(0, 0, req.DurationDays),
		Notes:      req.Notes,
		CreatedAt:  now,
	}

	if err := s.store.CreateLoanMarkLent(ctx, loan, book); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Loan created",
			"loan_id", loanID,
			"book_id", book.ID,
			"borrower_id", req.BorrowerID,
		)
	}

	return &LoanView{Loan: loan, Status: loan.DisplayStatus(now)}, nil
}

// Return closes a loan. One transaction sets the book back to available
// and deletes the loan document; returns are destructive, there is no
// loan history.
func (s *LoanService) Return(ctx context.Context, lenderID, loanID string) error {
	loan, err := s.store.Loans.Get(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.LenderID != lenderID {
		return domainerrors.Forbidden("only the lender can mark a loan returned")
	}

	book, err := s.store.Books.Get(ctx, loan.BookID)
	if err != nil {
		return fmt.Errorf("lookup book: %w", err)
	}

	if err := s.store.ReturnLoan(ctx, loan, book); err != nil {
		return fmt.Errorf("return loan: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Loan returned", "loan_id", loanID, "book_id", book.ID)
	}
	return nil
}

// ListLending returns the loans where the user is the lender.
func (s *LoanService) ListLending(ctx context.Context, lenderID string) ([]*LoanView, error) {
	loans, err := s.store.ListLoansByLender(ctx, lenderID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return decorate(loans), nil
}

// ListBorrowed returns the loans where the user is the borrower.
func (s *LoanService) ListBorrowed(ctx context.Context, borrowerID string) ([]*LoanView, error) {
	loans, err := s.store.ListLoansByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return decorate(loans), nil
}

func decorate(loans []*domain.Loan) []*LoanView {
	now := time.Now()
	views := make([]*LoanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, &LoanView{Loan: l, Status: l.DisplayStatus(now)})
	}
	return views
}
