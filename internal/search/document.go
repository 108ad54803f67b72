// Package search provides full-text shelf search using Bleve. Every
// user's books live in one index; queries are always scoped to an
// owner so shelves never leak into each other's results.
package search

import (
	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/genre"
)

// Document is the indexed form of a shelved book.
type Document struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	GenreSlugs  []string `json:"genre_slugs,omitempty"`
	PublishYear int      `json:"publish_year,omitempty"`
	AddedAt     int64    `json:"added_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":       d.ID,
		"owner_id": d.OwnerID,
		"title":    d.Title,
		"author":   d.Author,
		"added_at": d.AddedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if len(d.GenreSlugs) > 0 {
		m["genre_slugs"] = d.GenreSlugs
	}
	if d.PublishYear > 0 {
		m["publish_year"] = d.PublishYear
	}

	return m
}

// FromBook converts a catalog entry to its indexed form. Genres are
// slugified so filter values and indexed values always line up.
func FromBook(b *domain.Book) *Document {
	slugs := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		if slug := genre.Slugify(g); slug != "" {
			slugs = append(slugs, slug)
		}
	}

	return &Document{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Publisher:   b.Publisher,
		GenreSlugs:  slugs,
		PublishYear: b.PublishedDate.Year,
		AddedAt:     b.DateAdded.UnixMilli(),
	}
}
