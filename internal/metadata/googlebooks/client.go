// Package googlebooks implements the Google Books volumes lookup used
// for ISBN resolution.
package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/time/rate"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/normalize"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client provides access to the Google Books volumes API.
type Client struct {
	// BaseURL can be overridden in tests.
	BaseURL string

	httpClient  *http.Client
	rateLimiter *rate.Limiter
	apiKey      string
	logger      *slog.Logger
}

// NewClient creates a new Google Books client. The API key is optional;
// when empty, requests go out unauthenticated at Google's lower quota.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// Stay well under Google's default 100 requests/minute quota.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		apiKey:      apiKey,
		logger:      logger,
	}
}

// Name identifies this provider in resolver logs.
func (c *Client) Name() string { return "googlebooks" }

// Resolve looks up an ISBN and maps the first matching volume to a
// catalog-entry-shaped book record.
func (c *Client) Resolve(ctx context.Context, isbn string) (*domain.Book, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", "isbn:"+isbn)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	lookupURL, err := url.Parse(c.BaseURL + "/volumes")
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithCause(err)
	}
	lookupURL.RawQuery = params.Encode()

	c.logger.Debug("querying google books", "isbn", isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL.String(), nil)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithCause(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrInvalidResponse.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.InvalidResponse(fmt.Sprintf("google books returned status %d", resp.StatusCode))
	}

	var volumes volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumes); err != nil {
		return nil, errors.ErrDecodeFailed.WithCause(err)
	}

	if volumes.TotalItems == 0 || len(volumes.Items) == 0 {
		return nil, errors.NotFoundf("no google books volume for isbn %s", isbn)
	}

	return mapVolume(isbn, &volumes.Items[0]), nil
}

// mapVolume converts a Google Books volume into a book record.
func mapVolume(isbn string, v *Volume) *domain.Book {
	info := v.VolumeInfo

	title := info.Title
	if info.Subtitle != "" {
		title = title + ": " + info.Subtitle
	}

	return &domain.Book{
		ISBN:          isbn,
		Title:         title,
		Author:        strings.Join(info.Authors, ", "),
		CoverURL:      UpgradeThumbnailURL(pickThumbnail(info.ImageLinks)),
		Description:   normalizeDescription(info.Description),
		PublishedDate: domain.ParsePublishedDate(info.PublishedDate),
		Publisher:     info.Publisher,
		Language:      languageName(info.Language),
		Genres:        info.Categories,
	}
}

// pickThumbnail prefers the larger thumbnail when both are present.
func pickThumbnail(links ImageLinks) string {
	if links.Thumbnail != "" {
		return links.Thumbnail
	}
	return links.SmallThumbnail
}

// UpgradeThumbnailURL turns a Google thumbnail URL into a best-effort
// higher quality variant: scheme upgraded to https and the zoom hint
// raised. This is a pure string transform.
func UpgradeThumbnailURL(thumbnailURL string) string {
	if thumbnailURL == "" {
		return ""
	}
	upgraded := strings.Replace(thumbnailURL, "http://", "https://", 1)
	return strings.Replace(upgraded, "zoom=1", "zoom=3", 1)
}

// normalizeDescription converts the HTML fragments Google returns into
// markdown. Plain-text descriptions pass through unchanged.
func normalizeDescription(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

// languageName expands an ISO 639 code like "en" to "English".
// Unknown codes are returned as-is.
func languageName(code string) string {
	if name := normalize.Language(code); name != "" {
		return name
	}
	return code
}
