package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kripanidhi/byajbook-server/internal/http/response"
	"github.com/kripanidhi/byajbook-server/internal/service"
)

// handleCreatePerson registers a borrower in a branch.
// POST /api/v1/people
func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	var req service.CreatePersonRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	person, err := s.personService.CreatePerson(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, person, s.logger)
}

// handleListPeople returns the borrowers registered in a branch.
// GET /api/v1/people?book_id={bookID}
func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	bookID := r.URL.Query().Get("book_id")
	if bookID == "" {
		response.BadRequest(w, "book_id query parameter is required", s.logger)
		return
	}

	people, err := s.personService.ListPeople(ctx, userID, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, people, s.logger)
}

// handleGetPerson returns a borrower by ID.
// GET /api/v1/people/{id}
func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if id == "" {
		response.BadRequest(w, "Person ID is required", s.logger)
		return
	}

	person, err := s.personService.GetPerson(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, person, s.logger)
}

// handleUpdatePerson updates a borrower's details.
// PATCH /api/v1/people/{id}
func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if id == "" {
		response.BadRequest(w, "Person ID is required", s.logger)
		return
	}

	var req service.UpdatePersonRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	person, err := s.personService.UpdatePerson(ctx, userID, id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, person, s.logger)
}

// handleDeletePerson soft-deletes a borrower record.
// DELETE /api/v1/people/{id}
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if id == "" {
		response.BadRequest(w, "Person ID is required", s.logger)
		return
	}

	if err := s.personService.DeletePerson(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
