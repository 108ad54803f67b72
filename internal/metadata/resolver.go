// Package metadata resolves book metadata for scanned ISBNs by walking
// an ordered chain of providers.
package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/errors"
)

// Provider resolves a single ISBN to book metadata.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, isbn string) (*domain.Book, error)
}

// Resolver walks providers in order until one returns a record.
type Resolver struct {
	providers []Provider
	logger    *slog.Logger
}

// NewResolver creates a resolver over the given providers. Order
// matters; earlier providers win.
func NewResolver(logger *slog.Logger, providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		logger:    logger,
	}
}

// Resolve looks up the ISBN against each provider in turn. Any provider
// failure, not just a miss, advances to the next provider. When every
// provider is exhausted the ISBN is reported as not found.
func (r *Resolver) Resolve(ctx context.Context, isbn string) (*domain.Book, error) {
	normalized, err := NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}

	for _, p := range r.providers {
		book, err := p.Resolve(ctx, normalized)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Debug("provider miss", "provider", p.Name(), "isbn", normalized, "error", err)
			continue
		}

		r.logger.Info("resolved isbn", "provider", p.Name(), "isbn", normalized, "title", book.Title)
		fillCoverURL(book, normalized)
		return book, nil
	}

	return nil, errors.NotFoundf("no metadata found for isbn %s", normalized)
}

// fillCoverURL synthesizes an Open Library cover URL when the winning
// provider returned no image. The covers service serves a 1x1 pixel for
// unknown ISBNs, which the client treats as missing.
func fillCoverURL(book *domain.Book, isbn string) {
	if book.CoverURL != "" {
		return
	}
	book.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", isbn)
}

// NormalizeISBN strips separators and validates the result as an
// ISBN-10 or ISBN-13, including the check digit.
func NormalizeISBN(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch len(cleaned) {
	case 10:
		if !validISBN10(cleaned) {
			return "", errors.InvalidRequest("invalid isbn-10 check digit")
		}
	case 13:
		if !validISBN13(cleaned) {
			return "", errors.InvalidRequest("invalid isbn-13 check digit")
		}
	default:
		return "", errors.InvalidRequest("isbn must be 10 or 13 digits")
	}
	return cleaned, nil
}

func validISBN10(s string) bool {
	sum := 0
	for i, r := range s {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
		case (r == 'X' || r == 'x') && i == 9:
			v = 10
		default:
			return false
		}
		sum += v * (10 - i)
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		v := int(r - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}
