package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kripanidhi/byajbook-server/internal/http/response"
	"github.com/kripanidhi/byajbook-server/internal/service"
)

// handleCreateStaff enrolls a staff member.
// POST /api/v1/staff
func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	var req service.CreateStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	member, err := s.staffService.CreateStaff(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, member, s.logger)
}

// handleListStaff returns all staff members.
// GET /api/v1/staff
func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	members, err := s.staffService.ListStaff(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, members, s.logger)
}

// handleGetStaff returns a staff member by user ID.
// GET /api/v1/staff/{userID}
func (s *Server) handleGetStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)
	userID := chi.URLParam(r, "userID")

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if userID == "" {
		response.BadRequest(w, "User ID is required", s.logger)
		return
	}

	member, err := s.staffService.GetStaff(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, member, s.logger)
}

// handleUpdateStaff changes a staff member's role.
// PATCH /api/v1/staff/{userID}
func (s *Server) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)
	userID := chi.URLParam(r, "userID")

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if userID == "" {
		response.BadRequest(w, "User ID is required", s.logger)
		return
	}

	var req service.UpdateStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	member, err := s.staffService.UpdateStaff(ctx, callerID, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, member, s.logger)
}

// handleDeleteStaff removes a staff record and revokes its branch grants.
// DELETE /api/v1/staff/{userID}
func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)
	userID := chi.URLParam(r, "userID")

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if userID == "" {
		response.BadRequest(w, "User ID is required", s.logger)
		return
	}

	if err := s.staffService.DeleteStaff(ctx, callerID, userID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
