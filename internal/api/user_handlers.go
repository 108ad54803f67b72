package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
)

// maxPhotoUploadBytes bounds the multipart form we are willing to parse.
const maxPhotoUploadBytes = 6 << 20

// handleGetCurrentUser returns the authenticated user's own document.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := *currentUser(r.Context())
	user.PasswordHash = ""
	response.Success(w, &user, s.logger)
}

// handleSetProfilePhoto replaces the profile photo from a multipart
// upload. The file part is named "photo".
func (s *Server) handleSetProfilePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form", s.logger)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "photo file is required", s.logger)
		return
	}
	defer file.Close()

	imgData, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes))
	if err != nil {
		response.BadRequest(w, "Failed to read photo", s.logger)
		return
	}

	user, err := s.profileService.SetPhoto(r.Context(), currentUser(r.Context()), imgData)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	updated := *user
	updated.PasswordHash = ""
	response.Success(w, &updated, s.logger)
}

// handleSearchUsers finds users by username prefix.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.socialService.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, users, s.logger)
}

// handleGetUser returns a user's public profile.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.socialService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleGetUserBooks returns a friend's newest shelf entries.
func (s *Server) handleGetUserBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.FriendBooks(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// handleAddFriend adds a friend to the caller's list.
func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeBody(r, &req); err != nil || req.UserID == "" {
		response.BadRequest(w, "user_id is required", s.logger)
		return
	}

	if err := s.socialService.AddFriend(r.Context(), currentUser(r.Context()), req.UserID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleListFriends resolves the caller's friend list.
func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.socialService.ListFriends(r.Context(), currentUser(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, friends, s.logger)
}
