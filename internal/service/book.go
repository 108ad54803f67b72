package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/genre"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/search"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// friendShelfLimit caps how many of a friend's newest books are shown
// on their profile.
const friendShelfLimit = 15

// BookService manages a user's catalog.
type BookService struct {
	store  *store.Store
	images *images.Storage
	search *search.Index
	logger *slog.Logger
}

// NewBookService creates a new catalog service.
func NewBookService(store *store.Store, images *images.Storage, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		images: images,
		logger: logger,
	}
}

// SetSearchIndex wires up full-text shelf search. Without an index,
// text queries fall back to substring matching.
func (s *BookService) SetSearchIndex(idx *search.Index) {
	s.search = idx
}

// ListFilter narrows a shelf listing. Zero values mean "no constraint".
type ListFilter struct {
	Query  string               // substring match on title or author
	Genre  string
	Author string
	Year   int
	Rating int
	Status domain.LendingStatus
}

func (f ListFilter) empty() bool {
	return f.Query == "" && f.Genre == "" && f.Author == "" &&
		f.Year == 0 && f.Rating == 0 && f.Status == ""
}

// matches reports whether the book passes every set constraint.
func (f ListFilter) matches(b *domain.Book) bool {
	if f.Status != "" && b.LendingStatus != f.Status {
		return false
	}
	if f.Rating != 0 && b.UserRating != f.Rating {
		return false
	}
	if f.Year != 0 && b.PublishedDate.Year != f.Year {
		return false
	}
	if f.Author != "" && !strings.EqualFold(b.Author, f.Author) {
		return false
	}
	if f.Genre != "" {
		// Slug comparison so "sci-fi" and "Science Fiction" line up.
		want := genre.Normalize(f.Genre)
		match := slices.ContainsFunc(b.Genres, func(g string) bool {
			if strings.EqualFold(g, f.Genre) {
				return true
			}
			return slices.ContainsFunc(want, func(w string) bool {
				return genre.Slugify(g) == genre.Slugify(w)
			})
		})
		if !match {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	return true
}

// List returns the owner's books newest first, narrowed by the filter.
// Shelves are small enough that filtering happens in memory after the
// index scan; text queries go through the search index when one is
// wired, so ranked and fuzzy matches work.
func (s *BookService) List(ctx context.Context, ownerID string, filter ListFilter) ([]*domain.Book, error) {
	books, err := s.store.ListBooksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if filter.empty() {
		return books, nil
	}

	if filter.Query != "" && s.search != nil {
		hits, err := s.searchIDs(ctx, ownerID, filter.Query, len(books))
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("Search index query failed, falling back to substring match",
					"owner_id", ownerID, "error", err)
			}
		} else {
			filter.Query = ""
			books = slices.DeleteFunc(books, func(b *domain.Book) bool {
				_, ok := hits[b.ID]
				return !ok
			})
		}
	}

	filtered := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if filter.matches(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// searchIDs resolves a text query against the index and returns the
// matching book IDs as a set.
func (s *BookService) searchIDs(ctx context.Context, ownerID, query string, limit int) (map[string]struct{}, error) {
	params := search.DefaultParams(ownerID)
	params.Query = query
	if limit > params.Limit {
		params.Limit = limit
	}

	result, err := s.search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(result.Hits))
	for _, h := range result.Hits {
		ids[h.ID] = struct{}{}
	}
	return ids, nil
}

// Get returns a single book, enforcing ownership.
func (s *BookService) Get(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	book, err := s.store.Books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != ownerID {
		return nil, domainerrors.Forbidden("book belongs to another user")
	}
	return book, nil
}

// UpdateRating sets the owner's star rating, 0 meaning unrated.
func (s *BookService) UpdateRating(ctx context.Context, ownerID, bookID string, rating int) (*domain.Book, error) {
	if !domain.ValidRating(rating) {
		return nil, domainerrors.Validation("rating must be between 0 and 5")
	}

	book, err := s.Get(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	book.UserRating = rating
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// UpdateStatus directly edits the lending status. Flips driven by the
// loan lifecycle go through LoanService instead; this covers the
// "reading" marker and manual corrections.
func (s *BookService) UpdateStatus(ctx context.Context, ownerID, bookID string, status domain.LendingStatus) (*domain.Book, error) {
	if !status.Valid() {
		return nil, domainerrors.Validation("invalid lending status")
	}

	book, err := s.Get(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	book.LendingStatus = status
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// Delete removes a book and its open loans, then best-effort deletes
// the hosted cover image.
func (s *BookService) Delete(ctx context.Context, ownerID, bookID string) error {
	book, err := s.Get(ctx, ownerID, bookID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, book); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := s.images.Delete(images.CoverKey(ownerID, book.ISBN)); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to delete cover image", "book_id", bookID, "error", err)
		}
	}
	if s.search != nil {
		if err := s.search.Delete(bookID); err != nil && s.logger != nil {
			s.logger.Warn("Failed to remove book from search index", "book_id", bookID, "error", err)
		}
	}
	return nil
}

// FriendBooks returns the newest books on a friend's shelf. The viewer
// must have added the owner as a friend.
func (s *BookService) FriendBooks(ctx context.Context, viewer *domain.User, ownerID string) ([]*domain.Book, error) {
	if ownerID != viewer.ID && !viewer.HasFriend(ownerID) {
		return nil, domainerrors.Forbidden("add this user as a friend to see their shelf")
	}

	books, err := s.store.ListBooksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if len(books) > friendShelfLimit {
		books = books[:friendShelfLimit]
	}
	return books, nil
}
