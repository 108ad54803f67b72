package nyt

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", 5*time.Second, slog.New(slog.DiscardHandler))
	c.BaseURL = srv.URL
	return c
}

const sampleList = `{
	"status": "OK",
	"num_results": 1,
	"results": {
		"list_name": "Hardcover Fiction",
		"display_name": "Hardcover Fiction",
		"published_date": "2026-08-30",
		"books": [{
			"rank": 1,
			"weeks_on_list": 12,
			"primary_isbn13": "9780593833452",
			"publisher": "Viking",
			"description": "A sweeping saga.",
			"title": "THE EXAMPLE",
			"author": "Jane Writer",
			"book_image": "https://example.com/cover.jpg",
			"buy_links": [{"name": "Amazon", "url": "https://amazon.example/x"}]
		}]
	}
}`

func TestBestSellers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/svc/books/v3/lists/current/hardcover-fiction.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		w.Write([]byte(sampleList))
	})

	list, err := c.BestSellers(context.Background(), "hardcover-fiction")
	require.NoError(t, err)

	assert.Equal(t, "Hardcover Fiction", list.DisplayName)
	require.Len(t, list.Books, 1)

	book := list.Books[0]
	assert.Equal(t, 1, book.Rank)
	assert.Equal(t, 12, book.WeeksOnList)
	assert.Equal(t, "9780593833452", book.ISBN)
	assert.Equal(t, "THE EXAMPLE", book.Title)
	assert.Equal(t, "Jane Writer", book.Author)
	require.Len(t, book.BuyLinks, 1)
	assert.Equal(t, "Amazon", book.BuyLinks[0].Name)
}

func TestBestSellersUnknownListFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/svc/books/v3/lists/current/hardcover-fiction.json", r.URL.Path)
		w.Write([]byte(sampleList))
	})

	_, err := c.BestSellers(context.Background(), "definitely-not-a-list")
	require.NoError(t, err)
}

func TestBestSellersRequiresKey(t *testing.T) {
	c := NewClient("", time.Second, slog.New(slog.DiscardHandler))

	assert.False(t, c.Enabled())
	_, err := c.BestSellers(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestBestSellersRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.BestSellers(context.Background(), "hardcover-fiction")
	assert.ErrorIs(t, err, errors.ErrInvalidResponse)
}

func TestValidList(t *testing.T) {
	assert.True(t, ValidList("hardcover-fiction"))
	assert.True(t, ValidList("picture-books"))
	assert.False(t, ValidList(""))
	assert.False(t, ValidList("Hardcover Fiction"))
}
