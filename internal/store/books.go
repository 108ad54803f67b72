package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/sse"
)

// CreateBooks persists a batch of shelved books in one transaction.
// Either every book lands on the shelf or none do: a failure part way
// through leaves the store untouched so the caller can retry the whole
// batch.
func (s *Store) CreateBooks(ctx context.Context, books []*domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(books) == 0 {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, book := range books {
			if err := s.Books.createInTxn(txn, book.ID, book); err != nil {
				return fmt.Errorf("create book %s: %w", book.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, book := range books {
		s.emit(sse.NewBookCreatedEvent(book))
	}
	s.emit(sse.NewLibraryChangedEvent(books[0].OwnerID))

	return nil
}

// ListBooksByOwner returns all of a user's books, newest first.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	books, err := s.Books.ListByIndex(ctx, "owner", ownerID)
	if err != nil {
		return nil, err
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].DateAdded.After(books[j].DateAdded)
	})

	return books, nil
}

// UpdateBook saves a changed book and broadcasts the update.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	book.Touch()
	if err := s.Books.Update(ctx, book.ID, book); err != nil {
		return err
	}

	s.emit(sse.NewBookUpdatedEvent(book))
	return nil
}

// DeleteBook removes a book from the catalog and broadcasts the
// deletion. Open loans referencing the book are deleted with it.
func (s *Store) DeleteBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	loans, err := s.Loans.ListByIndex(ctx, "book", book.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, loan := range loans {
			if err := s.Loans.deleteInTxn(txn, loan.ID); err != nil {
				return fmt.Errorf("delete loan %s: %w", loan.ID, err)
			}
		}
		return s.Books.deleteInTxn(txn, book.ID)
	})
	if err != nil {
		return err
	}

	s.emit(sse.NewBookDeletedEvent(book.OwnerID, book.ID))
	s.emit(sse.NewLibraryChangedEvent(book.OwnerID))
	return nil
}
