// Package store implements the embedded document store on BadgerDB.
package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
)

// EventEmitter is the interface for emitting SSE events.
// Store uses this to broadcast changes without depending on SSE
// implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// SSE event emitter for broadcasting changes.
	eventEmitter EventEmitter

	// Generic entities
	Users    *Entity[domain.User]
	Books    *Entity[domain.Book]
	Loans    *Entity[domain.Loan]
	Sessions *Entity[domain.Session]
}

// New creates a new Store instance with the given database path and
// event emitter. The emitter is required and used to broadcast store
// changes via SSE.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
	}

	store.initUsers()
	store.initBooks()
	store.initLoans()
	store.initSessions()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// emit broadcasts an event if an emitter is configured.
func (s *Store) emit(event any) {
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(event)
	}
}

// initUsers initializes the Users entity.
// Username and email indexes are case-insensitive so "BookWorm" and
// "bookworm" reserve the same name.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithUniqueIndexTransform("username",
			func(u *domain.User) []string {
				return []string{domain.NormalizeUsername(u.Username)}
			},
			domain.NormalizeUsername,
		).
		WithUniqueIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// initBooks initializes the Books entity with an owner index for
// per-user shelf listings.
func (s *Store) initBooks() {
	s.Books = NewEntity[domain.Book](s, "book:").
		WithIndex("owner", func(b *domain.Book) []string {
			return []string{b.OwnerID}
		})
}

// initLoans initializes the Loans entity. Lender and borrower indexes
// back the two loan list views; the book index finds the open loan for
// a given catalog entry.
func (s *Store) initLoans() {
	s.Loans = NewEntity[domain.Loan](s, "loan:").
		WithIndex("lender", func(l *domain.Loan) []string {
			return []string{l.LenderID}
		}).
		WithIndex("borrower", func(l *domain.Loan) []string {
			return []string{l.BorrowerID}
		}).
		WithIndex("book", func(l *domain.Loan) []string {
			return []string{l.BookID}
		})
}

// initSessions initializes the Sessions entity with a refresh token
// hash index for refresh lookups and a user index for logout cleanup.
func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, "session:").
		WithUniqueIndex("token", func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		}).
		WithIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		})
}

// normalizeEmail lowercases and trims an email for case-insensitive lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
