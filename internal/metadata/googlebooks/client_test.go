package googlebooks

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

func TestResolveMapsVolume(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "isbn:9780134190440", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"id": "abc",
				"volumeInfo": {
					"title": "The Go Programming Language",
					"authors": ["Alan A. A. Donovan", "Brian W. Kernighan"],
					"publisher": "Addison-Wesley",
					"publishedDate": "2015-11-16",
					"description": "A guide.",
					"categories": ["Computers"],
					"language": "en",
					"imageLinks": {
						"thumbnail": "http://books.google.com/thumb?zoom=1&id=abc"
					}
				}
			}]
		}`))
	})

	book, err := c.Resolve(context.Background(), "9780134190440")
	require.NoError(t, err)

	assert.Equal(t, "9780134190440", book.ISBN)
	assert.Equal(t, "The Go Programming Language", book.Title)
	assert.Equal(t, "Alan A. A. Donovan, Brian W. Kernighan", book.Author)
	assert.Equal(t, "Addison-Wesley", book.Publisher)
	assert.Equal(t, 2015, book.PublishedDate.Year)
	assert.Equal(t, []string{"Computers"}, book.Genres)
	assert.Equal(t, "English", book.Language)
	assert.Equal(t, "https://books.google.com/thumb?zoom=3&id=abc", book.CoverURL)
}

func TestResolveJoinsSubtitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems":1,"items":[{"volumeInfo":{"title":"Dune","subtitle":"Messiah"}}]}`))
	})

	book, err := c.Resolve(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, "Dune: Messiah", book.Title)
}

func TestResolveConvertsHTMLDescription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems":1,"items":[{"volumeInfo":{"title":"T","description":"<p>A <b>bold</b> claim.</p>"}}]}`))
	})

	book, err := c.Resolve(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, "A **bold** claim.", book.Description)
}

func TestResolveNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems":0,"items":[]}`))
	})

	_, err := c.Resolve(context.Background(), "9780134190440")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestResolveUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Resolve(context.Background(), "9780134190440")
	assert.ErrorIs(t, err, errors.ErrInvalidResponse)
}

func TestUpgradeThumbnailURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "http://books.google.com/x?zoom=1", want: "https://books.google.com/x?zoom=3"},
		{in: "https://books.google.com/x?zoom=1&edge=curl", want: "https://books.google.com/x?zoom=3&edge=curl"},
		{in: "https://books.google.com/x", want: "https://books.google.com/x"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpgradeThumbnailURL(tt.in))
	}
}
