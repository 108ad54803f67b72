package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
)

// setupTestIndex creates a temporary on-disk search index.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := New(Options{
		DataPath: t.TempDir(),
		Logger:   nil,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func shelvedBook(id, ownerID, title, author string) *domain.Book {
	return &domain.Book{
		ID:        id,
		OwnerID:   ownerID,
		ISBN:      "9780000000000",
		Title:     title,
		Author:    author,
		Genres:    []string{"Science Fiction"},
		DateAdded: time.Now(),
	}
}

func TestNewIndexStartsEmpty(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexBook(t *testing.T) {
	index := setupTestIndex(t)

	err := index.IndexBook(FromBook(shelvedBook("book-1", "user-a", "The Hobbit", "J.R.R. Tolkien")))
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchMatchesTitleAndAuthor(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBooks([]*Document{
		FromBook(shelvedBook("book-1", "user-a", "The Left Hand of Darkness", "Ursula K. Le Guin")),
		FromBook(shelvedBook("book-2", "user-a", "The Dispossessed", "Ursula K. Le Guin")),
		FromBook(shelvedBook("book-3", "user-a", "Neuromancer", "William Gibson")),
	}))

	params := DefaultParams("user-a")
	params.Query = "darkness"
	result, err := index.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "book-1", result.Hits[0].ID)
	assert.Equal(t, "The Left Hand of Darkness", result.Hits[0].Title)

	params.Query = "le guin"
	result, err = index.Search(ctx, params)
	require.NoError(t, err)
	ids := hitIDs(result)
	assert.ElementsMatch(t, []string{"book-1", "book-2"}, ids)
}

func TestSearchIsOwnerScoped(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBooks([]*Document{
		FromBook(shelvedBook("book-a", "user-a", "Dune", "Frank Herbert")),
		FromBook(shelvedBook("book-b", "user-b", "Dune", "Frank Herbert")),
	}))

	params := DefaultParams("user-a")
	params.Query = "dune"
	result, err := index.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "book-a", result.Hits[0].ID)
}

func TestSearchFuzzyMatchesTypos(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(FromBook(
		shelvedBook("book-1", "user-a", "The Hobbit", "J.R.R. Tolkien"))))

	params := DefaultParams("user-a")
	params.Query = "hobbot"
	result, err := index.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "book-1", result.Hits[0].ID)
}

func TestSearchRequiresOwner(t *testing.T) {
	index := setupTestIndex(t)

	_, err := index.Search(context.Background(), Params{Query: "dune"})
	assert.Error(t, err)
}

func TestDeleteRemovesFromResults(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexBook(FromBook(
		shelvedBook("book-1", "user-a", "Dune", "Frank Herbert"))))
	require.NoError(t, index.Delete("book-1"))

	params := DefaultParams("user-a")
	params.Query = "dune"
	result, err := index.Search(ctx, params)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestMemoryIndex(t *testing.T) {
	index, err := NewMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	require.NoError(t, index.IndexBook(FromBook(
		shelvedBook("book-1", "user-a", "Dune", "Frank Herbert"))))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func hitIDs(r *Result) []string {
	ids := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}
