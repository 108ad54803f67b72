package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/sse"
)

// CreateLoanMarkLent writes a new loan and flips the book's lending
// status to lent in a single transaction, so the loan record and the
// catalog entry can never disagree.
func (s *Store) CreateLoanMarkLent(ctx context.Context, loan *domain.Loan, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	book.LendingStatus = domain.LendingStatusLent
	book.Touch()

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := s.Loans.createInTxn(txn, loan.ID, loan); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		if err := s.Books.updateInTxn(txn, book.ID, book); err != nil {
			return fmt.Errorf("mark book lent: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(sse.NewLoanCreatedEvent(loan))
	s.emit(sse.NewLibraryChangedEvent(loan.LenderID))
	return nil
}

// ReturnLoan deletes the loan and restores the book to available in a
// single transaction. Return is destructive: the loan record is
// removed, not archived.
func (s *Store) ReturnLoan(ctx context.Context, loan *domain.Loan, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	book.LendingStatus = domain.LendingStatusAvailable
	book.Touch()

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := s.Books.updateInTxn(txn, book.ID, book); err != nil {
			return fmt.Errorf("mark book available: %w", err)
		}
		if err := s.Loans.deleteInTxn(txn, loan.ID); err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(sse.NewLoanReturnedEvent(loan))
	s.emit(sse.NewLibraryChangedEvent(loan.LenderID))
	return nil
}

// ListLoansByLender returns all loans where the user is the lender.
func (s *Store) ListLoansByLender(ctx context.Context, lenderID string) ([]*domain.Loan, error) {
	return s.Loans.ListByIndex(ctx, "lender", lenderID)
}

// ListLoansByBorrower returns all loans where the user is the borrower.
func (s *Store) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]*domain.Loan, error) {
	return s.Loans.ListByIndex(ctx, "borrower", borrowerID)
}

// GetOpenLoanForBook finds the open loan for a book, or ErrNotFound.
func (s *Store) GetOpenLoanForBook(ctx context.Context, bookID string) (*domain.Loan, error) {
	loans, err := s.Loans.ListByIndex(ctx, "book", bookID)
	if err != nil {
		return nil, err
	}
	for _, loan := range loans {
		if !loan.IsReturned {
			return loan, nil
		}
	}
	return nil, ErrNotFound
}
