package auth

import (
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))
	require.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestHashPassword_OversizedRejected(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", maxPasswordLength+1))
	require.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, "secret-password")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong-password")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-real-hash", "anything")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key := make([]byte, keyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)

	svc, err := NewTokenService(key, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "user-abc", Username: "bookworm"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-abc", claims.UserID)
	require.Equal(t, "bookworm", claims.Username)
	require.Equal(t, "user-abc", claims.Subject)
}

func TestTokenService_RejectsTamperedToken(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "user-abc", Username: "bookworm"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token + "x")
	require.Error(t, err)
}

func TestTokenService_RejectsWrongKey(t *testing.T) {
	svc1 := newTestTokenService(t)
	svc2 := newTestTokenService(t)
	user := &domain.User{ID: "user-abc", Username: "bookworm"}

	token, err := svc1.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc2.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestNewTokenService_RejectsBadKeyLength(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Minute, time.Hour)
	require.Error(t, err)
}

func TestGenerateRefreshToken_UniqueAndHashable(t *testing.T) {
	svc := newTestTokenService(t)

	t1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	t2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	require.Equal(t, HashRefreshToken(t1), HashRefreshToken(t1))
	require.NotEqual(t, HashRefreshToken(t1), HashRefreshToken(t2))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, key1, keyLength)

	// Second load returns the same key.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Equal(t, key1, key2)
}
