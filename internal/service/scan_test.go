package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/media/covers"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/service"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

type stubResolver struct {
	byISBN map[string]*domain.Book
	err    error
}

func (r *stubResolver) Resolve(_ context.Context, isbn string) (*domain.Book, error) {
	if r.err != nil {
		return nil, r.err
	}
	if book, ok := r.byISBN[isbn]; ok {
		copied := *book
		return &copied, nil
	}
	return nil, errors.NotFoundf("no metadata for %s", isbn)
}

type stubDownloader struct {
	result *covers.Result
	err    error
	calls  int
}

func (d *stubDownloader) Download(_ context.Context, userID, isbn, _ string) (*covers.Result, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if d.result != nil {
		return d.result, nil
	}
	return &covers.Result{Key: images.CoverKey(userID, isbn)}, nil
}

func newScanService(s *store.Store, resolver *stubResolver, downloader *stubDownloader) *service.ScanService {
	return service.NewScanService(s, resolver, downloader, testLogger())
}

func resolvedBook(isbn, title string) *domain.Book {
	return &domain.Book{
		ISBN:     isbn,
		Title:    title,
		Author:   "Some Author",
		CoverURL: "https://covers.example.com/" + isbn + ".jpg",
	}
}

func TestScanLookupBuffersInOrder(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "First"),
		"9780000000002": resolvedBook("9780000000002", "Second"),
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, "user-a", "9780000000002")
	require.NoError(t, err)

	buffer := svc.Session("user-a")
	require.Len(t, buffer, 2)
	assert.Equal(t, "First", buffer[0].Title)
	assert.Equal(t, "Second", buffer[1].Title)

	assert.Empty(t, svc.Session("user-b"), "buffers are per user")
}

func TestScanLookupNoDedupe(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Twice"),
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	// Scanning the same barcode twice buffers two entries.
	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	assert.Len(t, svc.Session("user-a"), 2)
}

func TestScanLookupMissKeepsBuffer(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Found"),
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	_, err = svc.Lookup(ctx, "user-a", "9999999999999")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Len(t, svc.Session("user-a"), 1, "failed lookup must not touch the buffer")
}

func TestShelveCommitsWholeBuffer(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "First"),
		"9780000000002": resolvedBook("9780000000002", "Second"),
		"9780000000003": resolvedBook("9780000000003", "Third"),
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	for _, isbn := range []string{"9780000000001", "9780000000002", "9780000000003"} {
		_, err := svc.Lookup(ctx, "user-a", isbn)
		require.NoError(t, err)
	}

	shelved, err := svc.Shelve(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, shelved, 3)

	for _, book := range shelved {
		assert.NotEmpty(t, book.ID)
		assert.Equal(t, "user-a", book.OwnerID)
		assert.Equal(t, domain.LendingStatusAvailable, book.LendingStatus)
		assert.Zero(t, book.UserRating)
		assert.False(t, book.DateAdded.IsZero())
	}

	owned, err := s.ListBooksByOwner(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	assert.Empty(t, svc.Session("user-a"), "buffer cleared after commit")
}

func TestShelveEmptySession(t *testing.T) {
	s := setupTestStore(t)
	svc := newScanService(s, &stubResolver{}, &stubDownloader{})

	_, err := svc.Shelve(context.Background(), "user-a")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestShelveStoreFailureKeepsBuffer(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Doomed"),
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	// A closed store rejects the batch write.
	require.NoError(t, s.Close())

	_, err = svc.Shelve(ctx, "user-a")
	require.Error(t, err)
	assert.Len(t, svc.Session("user-a"), 1, "buffer unchanged after store failure")
}

func TestShelveRehostsCovers(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Hosted"),
	}}
	downloader := &stubDownloader{result: &covers.Result{
		Key:      "users/user-a/book_covers/9780000000001.jpg",
		BlurHash: "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
	}}
	svc := newScanService(s, resolver, downloader)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	shelved, err := svc.Shelve(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, shelved, 1)

	assert.Equal(t, 1, downloader.calls)
	assert.Equal(t, "/api/v1/files/users/user-a/book_covers/9780000000001.jpg", shelved[0].CoverURL)
	assert.Equal(t, "LEHV6nWB2yk8pyo0adR*.7kCMdnj", shelved[0].CoverBlurHash)
}

func TestShelveKeepsRemoteURLOnDownloadFailure(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Remote"),
	}}
	downloader := &stubDownloader{err: errors.StorageFailed("disk full")}
	svc := newScanService(s, resolver, downloader)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	shelved, err := svc.Shelve(ctx, "user-a")
	require.NoError(t, err, "image failures never abort the batch")
	require.Len(t, shelved, 1)
	assert.Equal(t, "https://covers.example.com/9780000000001.jpg", shelved[0].CoverURL)
	assert.Empty(t, shelved[0].CoverBlurHash)
}

// gatedDownloader signals when a download starts and blocks it until
// released, so tests can interleave work with an in-flight commit.
type gatedDownloader struct {
	entered chan struct{}
	release chan struct{}
}

func (d *gatedDownloader) Download(_ context.Context, userID, isbn, _ string) (*covers.Result, error) {
	d.entered <- struct{}{}
	<-d.release
	return &covers.Result{Key: images.CoverKey(userID, isbn)}, nil
}

func TestShelveKeepsScansBufferedDuringCommit(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Committed"),
		"9780000000002": resolvedBook("9780000000002", "Late Scan"),
	}}
	downloader := &gatedDownloader{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := service.NewScanService(s, resolver, downloader, testLogger())
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	type shelveResult struct {
		books []*domain.Book
		err   error
	}
	done := make(chan shelveResult, 1)
	go func() {
		books, err := svc.Shelve(ctx, "user-a")
		done <- shelveResult{books: books, err: err}
	}()

	// Scan another book while the shelve is stuck re-hosting covers.
	<-downloader.entered
	_, err = svc.Lookup(ctx, "user-a", "9780000000002")
	require.NoError(t, err)
	close(downloader.release)

	result := <-done
	require.NoError(t, result.err)
	require.Len(t, result.books, 1)
	assert.Equal(t, "Committed", result.books[0].Title)

	owned, err := s.ListBooksByOwner(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, owned, 1, "only the snapshotted buffer is committed")

	buffer := svc.Session("user-a")
	require.Len(t, buffer, 1, "the late scan survives the commit")
	assert.Equal(t, "Late Scan", buffer[0].Title)
}

func TestDiscardDropsBuffer(t *testing.T) {
	s := setupTestStore(t)
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": resolvedBook("9780000000001", "Gone"),
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	svc.Discard("user-a")
	assert.Empty(t, svc.Session("user-a"))

	owned, err := s.ListBooksByOwner(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, owned, "discard persists nothing")
}

func TestShelveNormalizesGenres(t *testing.T) {
	s := setupTestStore(t)
	book := resolvedBook("9780000000001", "Neuromancer")
	book.Genres = []string{"Fiction / Science Fiction", "Sci-Fi"}
	resolver := &stubResolver{byISBN: map[string]*domain.Book{
		"9780000000001": book,
	}}
	svc := newScanService(s, resolver, &stubDownloader{})
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "user-a", "9780000000001")
	require.NoError(t, err)

	shelved, err := svc.Shelve(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, shelved, 1)
	assert.Equal(t, []string{"Fiction", "Science Fiction"}, shelved[0].Genres)
}
