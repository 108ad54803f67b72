package service_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/auth"
	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/service"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil, store.NewNoopEmitter())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newAuthService(t *testing.T, s *store.Store) *service.AuthService {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := service.NewSessionService(s, tokens, testLogger())
	return service.NewAuthService(s, tokens, sessions, testLogger())
}

func signupUser(t *testing.T, svc *service.AuthService, username string) *domain.User {
	t.Helper()

	resp, err := svc.Signup(context.Background(), service.SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return resp.User
}

func seedBook(t *testing.T, s *store.Store, ownerID, isbn string) *domain.Book {
	t.Helper()

	book := &domain.Book{
		ID:            "book-" + isbn,
		OwnerID:       ownerID,
		ISBN:          isbn,
		Title:         "Title " + isbn,
		Author:        "Some Author",
		LendingStatus: domain.LendingStatusAvailable,
		DateAdded:     time.Now(),
	}
	require.NoError(t, s.CreateBooks(context.Background(), []*domain.Book{book}))
	return book
}
