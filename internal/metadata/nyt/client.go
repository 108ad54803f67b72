// Package nyt implements the New York Times best-sellers lists client
// backing the discover surface.
package nyt

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/exlibrismoi/exlibris-server/internal/errors"
)

const (
	defaultBaseURL = "https://api.nytimes.com"

	// DefaultList is served when no list name is requested.
	DefaultList = "hardcover-fiction"
)

// knownLists bounds the list names we will forward. The NYT API exposes
// dozens of lists; these are the ones the app surfaces.
var knownLists = map[string]struct{}{
	"hardcover-fiction":            {},
	"hardcover-nonfiction":         {},
	"trade-fiction-paperback":      {},
	"paperback-nonfiction":         {},
	"young-adult-hardcover":        {},
	"childrens-middle-grade-hardcover": {},
	"picture-books":                {},
	"series-books":                 {},
	"audio-fiction":                {},
	"audio-nonfiction":             {},
	"advice-how-to-and-miscellaneous": {},
	"graphic-books-and-manga":      {},
}

// ValidList reports whether name is a list we forward to the API.
func ValidList(name string) bool {
	_, ok := knownLists[name]
	return ok
}

// Client provides access to the NYT books API.
type Client struct {
	// BaseURL can be overridden in tests.
	BaseURL string

	httpClient  *http.Client
	rateLimiter *rate.Limiter
	apiKey      string
	logger      *slog.Logger
}

// NewClient creates a new NYT books client. Requests fail without an
// API key, so callers should check Enabled before routing traffic here.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// NYT allows 5 requests per minute on the free tier.
		rateLimiter: rate.NewLimiter(rate.Every(12*time.Second), 2),
		apiKey:      apiKey,
		logger:      logger,
	}
}

// Enabled reports whether the client has an API key configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// BestSellers fetches the current snapshot of the named list. An empty
// or unknown list name falls back to DefaultList.
func (c *Client) BestSellers(ctx context.Context, list string) (*List, error) {
	if !c.Enabled() {
		return nil, errors.InvalidRequest("nyt api key not configured")
	}
	if list == "" || !ValidList(list) {
		list = DefaultList
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	lookupURL := fmt.Sprintf("%s/svc/books/v3/lists/current/%s.json?%s", c.BaseURL, url.PathEscape(list), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithCause(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrInvalidResponse.WithCause(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, errors.InvalidResponse("nyt rate limit exceeded")
	case http.StatusNotFound:
		return nil, errors.NotFoundf("nyt list %s not found", list)
	default:
		return nil, errors.InvalidResponse(fmt.Sprintf("nyt returned status %d", resp.StatusCode))
	}

	var payload listResponse
	if err := json.UnmarshalRead(resp.Body, &payload); err != nil {
		return nil, errors.ErrDecodeFailed.WithCause(err)
	}
	if payload.Status != "OK" {
		return nil, errors.InvalidResponse(fmt.Sprintf("nyt returned status %q", payload.Status))
	}

	return mapList(&payload.Results), nil
}

func mapList(r *results) *List {
	books := make([]Book, 0, len(r.Books))
	for _, e := range r.Books {
		isbn := e.PrimaryISBN13
		if isbn == "" {
			isbn = e.PrimaryISBN10
		}
		links := make([]BuyLink, 0, len(e.BuyLinks))
		for _, l := range e.BuyLinks {
			links = append(links, BuyLink{Name: l.Name, URL: l.URL})
		}
		books = append(books, Book{
			Rank:        e.Rank,
			WeeksOnList: e.WeeksOnList,
			ISBN:        isbn,
			Title:       e.Title,
			Author:      e.Author,
			Publisher:   e.Publisher,
			Description: e.Description,
			BookImage:   e.BookImage,
			BuyLinks:    links,
		})
	}
	return &List{
		Name:          r.ListName,
		DisplayName:   r.DisplayName,
		PublishedDate: r.PublishedDate,
		Books:         books,
	}
}
