// Package id generates prefixed unique identifiers for store documents.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "book-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly and compact (21 characters vs UUID's 36),
// which matters since these IDs end up in cover file paths and API URLs.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Only for initialization paths where a failure should crash the program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
