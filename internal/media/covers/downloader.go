// Package covers provides best-effort cover image re-hosting.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/media/images"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a cover download.
	downloadTimeout = 30 * time.Second
)

// Result contains the outcome of a cover re-host operation.
type Result struct {
	Key      string // Storage key of the re-hosted cover
	BlurHash string // Placeholder hash, empty if computation failed
	Size     int64  // Downloaded size in bytes
}

// Downloader fetches remote covers and stores them in per-user storage.
type Downloader struct {
	httpClient *http.Client
	storage    *images.Storage
	logger     *slog.Logger
}

// NewDownloader creates a new cover downloader.
func NewDownloader(storage *images.Storage, logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		storage: storage,
		logger:  logger,
	}
}

// Download fetches the cover at url and re-hosts it under the user's
// book_covers path. Callers treat failure as non-fatal and keep the
// original remote URL.
func (d *Downloader) Download(ctx context.Context, userID, isbn, url string) (*Result, error) {
	if url == "" {
		return nil, errors.New("empty cover URL")
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty cover response")
	}

	key := images.CoverKey(userID, isbn)
	if err := d.storage.Save(key, data); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	result := &Result{
		Key:  key,
		Size: int64(len(data)),
	}

	// The placeholder is nice to have, not required.
	hash, err := images.ComputeBlurHash(data)
	if err != nil {
		d.logger.Warn("failed to compute cover blurhash",
			"isbn", isbn,
			"error", err,
		)
	} else {
		result.BlurHash = hash
	}

	d.logger.Info("re-hosted cover",
		"user_id", userID,
		"isbn", isbn,
		"size", result.Size,
	)

	return result, nil
}
