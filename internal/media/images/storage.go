// Package images provides per-user image storage and placeholder generation.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage manages image filesystem operations under a single root.
// Images are addressed by per-user keys like
// "users/{uid}/book_covers/{isbn}.jpg" and
// "profile_images/{uid}/profile.jpg"; the key doubles as the public
// file path served over HTTP. Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance rooted at basePath.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create files directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// CoverKey returns the storage key for a user's re-hosted book cover.
func CoverKey(userID, isbn string) string {
	return fmt.Sprintf("users/%s/book_covers/%s.jpg", userID, isbn)
}

// ProfileKey returns the storage key for a user's profile image.
func ProfileKey(userID string) string {
	return fmt.Sprintf("profile_images/%s/profile.jpg", userID)
}

// Save stores image data under the given key, creating parent
// directories as needed.
func (s *Storage) Save(key string, imgData []byte) error {
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	if err := os.WriteFile(path, imgData, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves image data for a key.
func (s *Storage) Get(key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if an image exists for a key.
func (s *Storage) Exists(key string) bool {
	path, err := s.resolve(key)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(path)
	return err == nil
}

// Delete removes the image for a key.
// Idempotent: deleting a missing image is not an error.
func (s *Storage) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of an image.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(key string) (string, error) {
	data, err := s.Get(key)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// resolve maps a key to an absolute path, rejecting traversal outside
// the storage root.
func (s *Storage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid image key: %s", key)
	}

	return filepath.Join(s.basePath, cleaned), nil
}
