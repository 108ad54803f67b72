package store

import (
	"errors"

	apperrors "github.com/exlibrismoi/exlibris-server/internal/errors"
)

// Store operations surface the shared coded errors so callers can match
// with errors.Is regardless of which layer produced them.
var (
	ErrNotFound      = apperrors.ErrNotFound
	ErrAlreadyExists = apperrors.ErrAlreadyExists
)

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is a uniqueness conflict.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
