package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// requireAuth validates the access token and attaches the user to the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		user, _, err := s.authService.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitByIP rejects requests over the per-IP budget. Sits in front
// of the credential endpoints only.
func (s *Server) rateLimitByIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authLimiter.Allow(clientIP(r)) {
			response.Error(w, http.StatusTooManyRequests, "Too many requests, slow down", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the request's remote IP. RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if i := strings.LastIndex(ip, ":"); i != -1 {
		ip = ip[:i]
	}
	return ip
}

// currentUser extracts the authenticated user from request context.
// Returns nil if not authenticated.
func currentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKeyUser).(*domain.User)
	return user
}
