package api

import (
	"net/http"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
)

// handleScanLookup resolves an ISBN and buffers the result in the
// caller's scan session.
func (s *Server) handleScanLookup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ISBN string `json:"isbn"`
	}
	if err := decodeBody(r, &req); err != nil || req.ISBN == "" {
		response.BadRequest(w, "isbn is required", s.logger)
		return
	}

	book, err := s.scanService.Lookup(r.Context(), currentUser(r.Context()).ID, req.ISBN)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

// handleScanSession returns the caller's buffered scans in scan order.
func (s *Server) handleScanSession(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.scanService.Session(currentUser(r.Context()).ID), s.logger)
}

// handleScanDiscard drops the caller's scan buffer.
func (s *Server) handleScanDiscard(w http.ResponseWriter, r *http.Request) {
	s.scanService.Discard(currentUser(r.Context()).ID)
	response.NoContent(w)
}

// handleShelve commits the caller's entire scan buffer as one batch.
func (s *Server) handleShelve(w http.ResponseWriter, r *http.Request) {
	books, err := s.scanService.Shelve(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, books, s.logger)
}
