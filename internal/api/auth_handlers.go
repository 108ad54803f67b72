package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
	"github.com/exlibrismoi/exlibris-server/internal/service"
)

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	return json.UnmarshalRead(r.Body, dst)
}

// handleSignup creates a new account and returns tokens.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resp.User.PasswordHash = ""
	response.Created(w, resp, s.logger)
}

// handleLogin authenticates by username or email.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resp.User.PasswordHash = ""
	response.Success(w, resp, s.logger)
}

// handleRefresh rotates the refresh token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.RefreshTokens(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resp.User.PasswordHash = ""
	response.Success(w, resp, s.logger)
}

// handleLogout revokes the session behind the supplied refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		response.BadRequest(w, "refresh_token is required", s.logger)
		return
	}

	if err := s.authService.LogoutByRefreshToken(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
