package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	"github.com/exlibrismoi/exlibris-server/internal/http/response"
	"github.com/exlibrismoi/exlibris-server/internal/service"
)

// handleListBooks returns the caller's shelf, newest first, narrowed by
// query-string filters.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := service.ListFilter{
		Query:  q.Get("q"),
		Genre:  q.Get("genre"),
		Author: q.Get("author"),
		Status: domain.LendingStatus(q.Get("status")),
	}
	if year := q.Get("year"); year != "" {
		filter.Year, _ = strconv.Atoi(year)
	}
	if rating := q.Get("rating"); rating != "" {
		filter.Rating, _ = strconv.Atoi(rating)
	}

	books, err := s.bookService.List(r.Context(), currentUser(r.Context()).ID, filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// handleGetBook returns one of the caller's books.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.bookService.Get(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

// handleUpdateBook patches the mutable fields: rating and status. ISBN
// and resolved metadata are immutable after shelving.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating *int                  `json:"rating"`
		Status *domain.LendingStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if req.Rating == nil && req.Status == nil {
		response.BadRequest(w, "Nothing to update", s.logger)
		return
	}

	ctx := r.Context()
	userID := currentUser(ctx).ID
	bookID := chi.URLParam(r, "id")

	var book *domain.Book
	var err error
	if req.Rating != nil {
		book, err = s.bookService.UpdateRating(ctx, userID, bookID, *req.Rating)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}
	if req.Status != nil {
		book, err = s.bookService.UpdateStatus(ctx, userID, bookID, *req.Status)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook removes a book from the caller's shelf.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.bookService.Delete(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
