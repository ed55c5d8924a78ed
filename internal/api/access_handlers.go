package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kripanidhi/byajbook-server/internal/http/response"
)

// assignStaffBranchesRequest is the body for staff-targeted assignment.
// branchIds is loosely typed on purpose: clients have been observed sending
// mixed arrays, and non-string entries are filtered rather than rejected.
type assignStaffBranchesRequest struct {
	StaffUserID string `json:"staffUserId"`
	BranchIDs   []any  `json:"branchIds"`
}

// assignUserBranchesRequest is the body for user-targeted assignment.
// targetUserId is optional and defaults to the caller.
type assignUserBranchesRequest struct {
	TargetUserID string `json:"targetUserId"`
	BranchIDs    []any  `json:"branchIds"`
}

// handleAssignStaffBranches replaces a staff member's branch grants.
// POST /api/v1/staff-branches/assign
func (s *Server) handleAssignStaffBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	var req assignStaffBranchesRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if req.StaffUserID == "" {
		response.BadRequest(w, "staffUserId is required", s.logger)
		return
	}

	result, err := s.accessService.AssignStaffBranches(ctx, callerID, req.StaffUserID, stringsOnly(req.BranchIDs))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"message":  "branch access updated",
		"staff":    result.Staff,
		"branches": result.Branches,
	}, s.logger)
}

// handleGetStaffBranches returns a staff member's current branch grants.
// GET /api/v1/staff-branches/{staffUserID}
// The path param is optional and defaults to the caller.
func (s *Server) handleGetStaffBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	staffUserID := chi.URLParam(r, "staffUserID")
	if staffUserID == "" {
		staffUserID = callerID
	}

	result, err := s.accessService.GetStaffAccess(ctx, staffUserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"staff":            result.Staff,
		"assignedBranches": result.AssignedBranches,
	}, s.logger)
}

// handleAssignUserBranches replaces a user's branch grants.
// POST /api/v1/user-branches/assign
func (s *Server) handleAssignUserBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	var req assignUserBranchesRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.accessService.AssignUserBranches(ctx, callerID, req.TargetUserID, stringsOnly(req.BranchIDs))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"message":  "branch access updated",
		"branches": result.Branches,
	}, s.logger)
}

// handleGetUserBranches returns a user's assigned and owned branches.
// GET /api/v1/user-branches/{userID}, /api/v1/user-branches/me
// The path param is optional and defaults to the caller.
func (s *Server) handleGetUserBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := getUserID(ctx)

	if callerID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == "" || userID == "me" {
		userID = callerID
	}

	result, err := s.accessService.GetUserAccess(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"assignedBranches": result.AssignedBranches,
		"ownedBranches":    result.OwnedBranches,
	}, s.logger)
}
