// Package domain contains the core business entities and domain logic for the ExLibris book catalog.
package domain

import "time"

// LendingStatus represents a book's availability for lending.
type LendingStatus string

const (
	// LendingStatusAvailable means the book is on the shelf and can be lent.
	LendingStatusAvailable LendingStatus = "available"
	// LendingStatusLent means an open loan exists for the book.
	LendingStatusLent LendingStatus = "lent"
	// LendingStatusReading means the owner is currently reading the book.
	LendingStatusReading LendingStatus = "reading"
)

// Valid checks if the lending status is one of the known values.
func (s LendingStatus) Valid() bool {
	switch s {
	case LendingStatusAvailable, LendingStatusLent, LendingStatusReading:
		return true
	default:
		return false
	}
}

// Book represents a catalog entry for one physical book owned by a user.
type Book struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"owner_id"`
	ISBN          string        `json:"isbn"` // Immutable once created
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	CoverURL      string        `json:"cover_url,omitempty"`
	CoverBlurHash string        `json:"cover_blurhash,omitempty"`
	Description   string        `json:"description,omitempty"`
	PublishedDate PublishedDate `json:"published_date"`
	Publisher     string        `json:"publisher,omitempty"`
	Language      string        `json:"language,omitempty"`
	Genres        []string      `json:"genres,omitempty"`
	LendingStatus LendingStatus `json:"lending_status"`
	UserRating    int           `json:"user_rating"` // 0..5, 0 means unrated
	DateAdded     time.Time     `json:"date_added"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// ValidRating reports whether r is an acceptable user rating.
func ValidRating(r int) bool {
	return r >= 0 && r <= 5
}
