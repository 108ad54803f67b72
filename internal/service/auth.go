// Package service implements the application services between the HTTP
// layer and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/exlibrismoi/exlibris-server/internal/auth"
	"github.com/exlibrismoi/exlibris-server/internal/color"
	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/id"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// AuthService handles account creation and authentication. Session
// management is delegated to SessionService.
type AuthService struct {
	store          *store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest contains user credentials. Identifier is a username or
// an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// RefreshRequest contains the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Signup creates a new account. The username is reserved before the
// account document is written, so a taken name fails with no partial
// state left behind.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if strings.ContainsAny(req.Username, " \t") {
		return nil, domainerrors.Validation("username must not contain whitespace")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AvatarColor:  color.ForUser(userID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique username and email indexes are written in the same
	// transaction as the document, so a conflict aborts the whole create.
	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.AlreadyExists("username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed up", "user_id", userID, "username", user.Username)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates by username or email and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.lookupUser(ctx, req.Identifier)
	if err != nil {
		if store.IsNotFound(err) {
			// Don't leak whether the account exists
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// lookupUser finds an account by email when the identifier contains an
// @, otherwise by username. Both lookups are case-insensitive.
func (s *AuthService) lookupUser(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.store.Users.GetByIndex(ctx, "email", identifier)
	}
	return s.store.Users.GetByIndex(ctx, "username", identifier)
}

// RefreshTokens rotates tokens using a refresh token.
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes a session, invalidating its refresh token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// LogoutByRefreshToken revokes the session holding the given refresh
// token. Unknown tokens are a no-op so logout is idempotent.
func (s *AuthService) LogoutByRefreshToken(ctx context.Context, refreshToken string) error {
	session, err := s.store.Sessions.GetByIndex(ctx, "token", auth.HashRefreshToken(refreshToken))
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}
	return s.sessionService.DeleteSession(ctx, session.ID)
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by the authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	user, err := s.store.Users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("user not found").WithCause(err)
	}

	return user, claims, nil
}

// formatValidationError converts validator errors to user-friendly domain errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		// Return first validation error as a domain error
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return domainerrors.Validationf("%s is required", field)
			case "email":
				return domainerrors.Validationf("%s must be a valid email address", field)
			case "min":
				return domainerrors.Validationf("%s must be at least %s characters", field, e.Param())
			case "max":
				return domainerrors.Validationf("%s exceeds maximum length of %s characters", field, e.Param())
			default:
				return domainerrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
