package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/auth"
	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/id"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// SessionService handles refresh-token session lifecycle.
type SessionService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session management service.
func NewSessionService(
	store *store.Store,
	tokenService *auth.TokenService,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SessionResponse contains session tokens and metadata.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // Seconds until access token expires
	SessionID    string `json:"session_id"`
}

// CreateSession generates tokens and persists a new session for a user.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User) (*SessionResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
	}

	if err := s.store.Sessions.Create(ctx, sessionID, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    sessionID,
	}, nil
}

// RefreshSession rotates tokens for an existing session. The old
// refresh token is invalidated.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*SessionResponse, *domain.User, error) {
	tokenHash := auth.HashRefreshToken(refreshToken)
	session, err := s.store.Sessions.GetByIndex(ctx, "token", tokenHash)
	if err != nil {
		return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token").WithCause(err)
	}

	now := time.Now()
	if session.IsExpired(now) {
		_ = s.store.Sessions.Delete(ctx, session.ID)
		return nil, nil, domainerrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.Users.Get(ctx, session.UserID)
	if err != nil {
		// User was deleted, clean up the orphaned session
		_ = s.store.Sessions.Delete(ctx, session.ID)
		return nil, nil, domainerrors.NotFound("user not found").WithCause(err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.LastSeenAt = now

	if err := s.store.Sessions.Update(ctx, session.ID, session); err != nil {
		return nil, nil, fmt.Errorf("update session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    session.ID,
	}, user, nil
}

// DeleteSession ends a session (logout).
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.Sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Session deleted", "session_id", sessionID)
	}
	return nil
}

// DeleteExpiredSessions removes sessions whose refresh tokens can no
// longer be used. Run periodically as a cleanup job.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context) (int, error) {
	now := time.Now()
	count := 0
	for session, err := range s.store.Sessions.List(ctx) {
		if err != nil {
			return count, fmt.Errorf("list sessions: %w", err)
		}
		if !session.IsExpired(now) {
			continue
		}
		if err := s.store.Sessions.Delete(ctx, session.ID); err != nil {
			return count, fmt.Errorf("delete session %s: %w", session.ID, err)
		}
		count++
	}

	if s.logger != nil && count > 0 {
		s.logger.Info("Deleted expired sessions", "count", count)
	}
	return count, nil
}
