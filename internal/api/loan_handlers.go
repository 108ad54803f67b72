package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/exlibrismoi/exlibris-server/internal/http/response"
	"github.com/exlibrismoi/exlibris-server/internal/service"
)

// handleCreateLoan lends one of the caller's books out.
func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLoanRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	loan, err := s.loanService.Create(r.Context(), currentUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, loan, s.logger)
}

// handleListLending returns the caller's outgoing loans.
func (s *Server) handleListLending(w http.ResponseWriter, r *http.Request) {
	loans, err := s.loanService.ListLending(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, loans, s.logger)
}

// handleListBorrowed returns the loans where the caller is the borrower.
func (s *Server) handleListBorrowed(w http.ResponseWriter, r *http.Request) {
	loans, err := s.loanService.ListBorrowed(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, loans, s.logger)
}

// handleReturnLoan marks a loan returned, restoring the book.
func (s *Server) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.loanService.Return(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
