package api

import (
	"net/http"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
)

// handleBestSellers returns the current snapshot of a best-sellers list.
func (s *Server) handleBestSellers(w http.ResponseWriter, r *http.Request) {
	list, err := s.discoverService.BestSellers(r.Context(), r.URL.Query().Get("list"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, list, s.logger)
}
