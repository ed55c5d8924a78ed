package domain

import "time"

// StaffRole represents a staff member's permission level.
type StaffRole string

const (
	// StaffRoleAdmin grants cross-tenant administrative authority:
	// admins may manage branch access for any book regardless of ownership.
	StaffRoleAdmin StaffRole = "ADMIN"
	// StaffRoleStaff grants standard staff access, limited to branches
	// explicitly granted to them.
	StaffRoleStaff StaffRole = "STAFF"
)

// ParseStaffRole converts a string to a StaffRole.
// Returns false if the value is not a recognized role.
func ParseStaffRole(s string) (StaffRole, bool) {
	switch StaffRole(s) {
	case StaffRoleAdmin:
		return StaffRoleAdmin, true
	case StaffRoleStaff:
		return StaffRoleStaff, true
	default:
		return "", false
	}
}

// Staff marks a User as a non-owner actor. The UserID is unique: a user
// holds at most one staff record, and a user without one is an owner.
type Staff struct {
	UserID    string    `json:"user_id"`
	RoleName  StaffRole `json:"role_name"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the staff member holds the ADMIN role.
func (s *Staff) IsAdmin() bool {
	return s.RoleName == StaffRoleAdmin
}
