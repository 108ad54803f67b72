package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/service"
)

func TestSignupAndLogin(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, service.SignupRequest{
		Username:  "bookworm",
		Email:     "worm@example.com",
		Password:  "correct horse battery",
		FirstName: "Paige",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.User.ID, "user-"))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Regexp(t, `^#[0-9A-F]{6}$`, resp.User.AvatarColor)

	login, err := svc.Login(ctx, service.LoginRequest{
		Identifier: "bookworm",
		Password:   "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	// Email works as the identifier too, case-insensitively.
	login, err = svc.Login(ctx, service.LoginRequest{
		Identifier: "Worm@Example.com",
		Password:   "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestSignupDuplicateUsernameCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	signupUser(t, svc, "bookworm")

	_, err := svc.Signup(ctx, service.SignupRequest{
		Username: "BookWorm",
		Email:    "other@example.com",
		Password: "correct horse battery",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	// The failed signup left no account behind.
	_, err = svc.Login(ctx, service.LoginRequest{
		Identifier: "other@example.com",
		Password:   "correct horse battery",
	})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	signupUser(t, svc, "bookworm")

	_, err := svc.Login(ctx, service.LoginRequest{
		Identifier: "bookworm",
		Password:   "wrong",
	})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, service.LoginRequest{
		Identifier: "nobody",
		Password:   "whatever",
	})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials, "unknown user looks like a bad password")
}

func TestRefreshRotatesToken(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, service.SignupRequest{
		Username: "bookworm",
		Email:    "worm@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, service.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = svc.RefreshTokens(ctx, service.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestLogoutRevokesSession(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, service.SignupRequest{
		Username: "bookworm",
		Email:    "worm@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.SessionID))

	_, err = svc.RefreshTokens(ctx, service.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestVerifyAccessToken(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, service.SignupRequest{
		Username: "bookworm",
		Email:    "worm@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	user, claims, err := svc.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, "bookworm", claims.Username)

	_, _, err = svc.VerifyAccessToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestSignupValidation(t *testing.T) {
	s := setupTestStore(t)
	svc := newAuthService(t, s)
	ctx := context.Background()

	tests := []struct {
		name string
		req  service.SignupRequest
	}{
		{name: "missing username", req: service.SignupRequest{Email: "a@b.com", Password: "long enough pw"}},
		{name: "bad email", req: service.SignupRequest{Username: "abc", Email: "nope", Password: "long enough pw"}},
		{name: "short password", req: service.SignupRequest{Username: "abc", Email: "a@b.com", Password: "short"}},
		{name: "whitespace username", req: service.SignupRequest{Username: "a b c", Email: "a@b.com", Password: "long enough pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.req)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}
