package domain

import "time"

// BranchAccess grants a user visibility and operational access to a book.
// Rows are created and destroyed only by the assignment operation, which
// replaces a subject's full grant set in one step; they are never mutated
// field-by-field.
type BranchAccess struct {
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	GrantedAt time.Time `json:"granted_at"`
}
