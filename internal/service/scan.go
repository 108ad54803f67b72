package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/genre"
	"github.com/exlibrismoi/exlibris-server/internal/id"
	"github.com/exlibrismoi/exlibris-server/internal/media/covers"
	"github.com/exlibrismoi/exlibris-server/internal/search"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// MetadataResolver resolves an ISBN to book metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, isbn string) (*domain.Book, error)
}

// CoverDownloader re-hosts a remote cover image.
type CoverDownloader interface {
	Download(ctx context.Context, userID, isbn, url string) (*covers.Result, error)
}

// ScanService drives the scan-then-shelve flow. Each user gets one
// in-memory buffer of resolved books that survives across lookups and
// is cleared only by a successful shelve or an explicit discard.
type ScanService struct {
	store      *store.Store
	resolver   MetadataResolver
	downloader CoverDownloader
	search     *search.Index
	logger     *slog.Logger

	mu      sync.Mutex
	buffers map[string][]*domain.Book
}

// NewScanService creates a new scan session service.
func NewScanService(
	store *store.Store,
	resolver MetadataResolver,
	downloader CoverDownloader,
	logger *slog.Logger,
) *ScanService {
	return &ScanService{
		store:      store,
		resolver:   resolver,
		downloader: downloader,
		logger:     logger,
		buffers:    make(map[string][]*domain.Book),
	}
}

// SetSearchIndex makes newly shelved books searchable.
func (s *ScanService) SetSearchIndex(idx *search.Index) {
	s.search = idx
}

// Lookup resolves an ISBN and appends the result to the user's buffer.
// Scanning the same barcode twice buffers two entries; dedupe is the
// user's call at shelve time, not ours.
func (s *ScanService) Lookup(ctx context.Context, userID, isbn string) (*domain.Book, error) {
	book, err := s.resolver.Resolve(ctx, isbn)
	if err != nil {
		return nil, err
	}
	book.OwnerID = userID

	s.mu.Lock()
	s.buffers[userID] = append(s.buffers[userID], book)
	count := len(s.buffers[userID])
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Buffered scanned book",
			"user_id", userID,
			"isbn", isbn,
			"buffered", count,
		)
	}
	return book, nil
}

// Session returns a copy of the user's current buffer in scan order.
func (s *ScanService) Session(userID string) []*domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	buffer := s.buffers[userID]
	out := make([]*domain.Book, len(buffer))
	copy(out, buffer)
	return out
}

// Discard drops the user's buffer without persisting anything.
func (s *ScanService) Discard(userID string) {
	s.mu.Lock()
	delete(s.buffers, userID)
	s.mu.Unlock()
}

// Shelve commits a snapshot of the user's buffer as one atomic batch;
// scans that arrive mid-commit stay buffered. Cover re-hosting is best
// effort per book; a failed download keeps the remote URL and never
// aborts the batch. A store failure leaves both the buffer and the
// store untouched.
func (s *ScanService) Shelve(ctx context.Context, userID string) ([]*domain.Book, error) {
	s.mu.Lock()
	buffer := s.buffers[userID]
	s.mu.Unlock()

	if len(buffer) == 0 {
		return nil, domainerrors.InvalidRequest("scan session is empty")
	}

	now := time.Now()
	books := make([]*domain.Book, 0, len(buffer))
	for _, buffered := range buffer {
		book := *buffered

		bookID, err := id.Generate("book")
		if err != nil {
			return nil, fmt.Errorf("generate book ID: %w", err)
		}
		book.ID = bookID
		book.OwnerID = userID
		book.LendingStatus = domain.LendingStatusAvailable
		book.UserRating = 0
		book.DateAdded = now
		book.UpdatedAt = now
		book.Genres = genre.NormalizeAll(book.Genres)

		s.rehostCover(ctx, &book)
		books = append(books, &book)
	}

	if err := s.store.CreateBooks(ctx, books); err != nil {
		return nil, fmt.Errorf("shelve books: %w", err)
	}

	// Drop only the committed prefix. A lookup that landed while the
	// commit was in flight stays buffered for the next shelve.
	s.mu.Lock()
	if current := s.buffers[userID]; len(current) > len(buffer) {
		s.buffers[userID] = current[len(buffer):]
	} else {
		delete(s.buffers, userID)
	}
	s.mu.Unlock()

	if s.search != nil {
		docs := make([]*search.Document, 0, len(books))
		for _, b := range books {
			docs = append(docs, search.FromBook(b))
		}
		if err := s.search.IndexBooks(docs); err != nil && s.logger != nil {
			s.logger.Warn("Failed to index shelved books", "user_id", userID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Shelved scan session", "user_id", userID, "count", len(books))
	}
	return books, nil
}

// rehostCover downloads the remote cover and swaps the URL to the
// hosted copy. Failures are logged and the remote URL kept.
func (s *ScanService) rehostCover(ctx context.Context, book *domain.Book) {
	if book.CoverURL == "" {
		return
	}

	result, err := s.downloader.Download(ctx, book.OwnerID, book.ISBN, book.CoverURL)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Cover re-host failed, keeping remote URL",
				"isbn", book.ISBN,
				"error", err,
			)
		}
		return
	}

	book.CoverURL = "/api/v1/files/" + result.Key
	book.CoverBlurHash = result.BlurHash
}
