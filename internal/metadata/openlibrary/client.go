// Package openlibrary implements the Open Library books lookup used as
// the fallback ISBN resolver.
package openlibrary

import (
	"context"
	"encoding/json/v2"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/normalize"
)

const defaultBaseURL = "https://openlibrary.org"

// Client provides access to the Open Library books API.
type Client struct {
	// BaseURL can be overridden in tests.
	BaseURL string

	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new Open Library client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// Open Library asks for no more than ~100 requests per 5 minutes.
		rateLimiter: rate.NewLimiter(rate.Every(3*time.Second), 5),
		logger:      logger,
	}
}

// Name identifies this provider in resolver logs.
func (c *Client) Name() string { return "openlibrary" }

// Resolve looks up an ISBN through the data API, falling back to the
// raw edition endpoint when the data API has no record.
func (c *Client) Resolve(ctx context.Context, isbn string) (*domain.Book, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	book, err := c.lookupData(ctx, isbn)
	if err == nil {
		return book, nil
	}
	if !stderrors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	c.logger.Debug("open library data api empty, trying edition endpoint", "isbn", isbn)
	return c.lookupEdition(ctx, isbn)
}

// lookupData queries /api/books?bibkeys=ISBN:{isbn}&format=json&jscmd=data.
// An empty JSON object body means the ISBN is unknown.
func (c *Client) lookupData(ctx context.Context, isbn string) (*domain.Book, error) {
	params := url.Values{}
	params.Set("bibkeys", "ISBN:"+isbn)
	params.Set("format", "json")
	params.Set("jscmd", "data")

	lookupURL := c.BaseURL + "/api/books?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithCause(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrInvalidResponse.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.InvalidResponse(fmt.Sprintf("open library returned status %d", resp.StatusCode))
	}

	var payload map[string]Data
	if err := json.UnmarshalRead(resp.Body, &payload); err != nil {
		return nil, errors.ErrDecodeFailed.WithCause(err)
	}

	data, ok := payload["ISBN:"+isbn]
	if !ok {
		return nil, errors.NotFoundf("no open library record for isbn %s", isbn)
	}

	return mapData(isbn, &data), nil
}

// lookupEdition queries the raw /isbn/{isbn}.json edition record.
func (c *Client) lookupEdition(ctx context.Context, isbn string) (*domain.Book, error) {
	lookupURL := c.BaseURL + "/isbn/" + url.PathEscape(isbn) + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithCause(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrInvalidResponse.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NotFoundf("no open library edition for isbn %s", isbn)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.InvalidResponse(fmt.Sprintf("open library returned status %d", resp.StatusCode))
	}

	var edition Edition
	if err := json.UnmarshalRead(resp.Body, &edition); err != nil {
		return nil, errors.ErrDecodeFailed.WithCause(err)
	}
	if edition.Title == "" {
		return nil, errors.NotFoundf("no open library edition for isbn %s", isbn)
	}

	var lang string
	if len(edition.Languages) > 0 {
		lang = normalize.Language(edition.Languages[0].Key)
	}

	return &domain.Book{
		ISBN:          isbn,
		Title:         edition.Title,
		Author:        strings.TrimPrefix(edition.ByStatement, "by "),
		PublishedDate: domain.ParsePublishedDate(edition.PublishDate),
		Publisher:     strings.Join(edition.Publishers, ", "),
		Language:      lang,
	}, nil
}

// mapData converts a data API record into a book record.
func mapData(isbn string, data *Data) *domain.Book {
	title := data.Title
	if data.Subtitle != "" {
		title = title + ": " + data.Subtitle
	}

	authors := make([]string, 0, len(data.Authors))
	for _, a := range data.Authors {
		authors = append(authors, a.Name)
	}

	publishers := make([]string, 0, len(data.Publishers))
	for _, p := range data.Publishers {
		publishers = append(publishers, p.Name)
	}

	var genres []string
	for _, s := range data.Subjects {
		genres = append(genres, s.Name)
	}

	cover := data.Cover.Large
	if cover == "" {
		cover = data.Cover.Medium
	}

	return &domain.Book{
		ISBN:          isbn,
		Title:         title,
		Author:        strings.Join(authors, ", "),
		CoverURL:      cover,
		PublishedDate: domain.ParsePublishedDate(data.PublishDate),
		Publisher:     strings.Join(publishers, ", "),
		Genres:        genres,
	}
}
