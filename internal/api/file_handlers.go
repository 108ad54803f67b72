package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
)

// handleGetFile serves a stored cover or profile image. Keys are
// relative paths under the files root; the storage layer rejects
// traversal.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		response.BadRequest(w, "File path is required", s.logger)
		return
	}

	data, err := s.images.Get(key)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".jpg") || strings.HasSuffix(key, ".jpeg") {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	_, _ = w.Write(data)
}

// handleEvents streams SSE events scoped to the caller.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.sseHandler.Serve(w, r, currentUser(r.Context()).ID)
}
