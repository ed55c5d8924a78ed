package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/kripanidhi/byajbook-server/internal/domain"
)

// ReplaceBranchAccess replaces all branch grants for a user in a single
// transaction. It deletes existing rows and inserts the new set. Duplicate
// book IDs are collapsed before insert so the UNIQUE(user_id, book_id)
// constraint is never tripped by repeated input.
func (s *Store) ReplaceBranchAccess(ctx context.Context, userID string, bookIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Delete existing grants for this user.
	if _, err := tx.ExecContext(ctx, `DELETE FROM branch_access WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete branch_access: %w", err)
	}

	// Insert new grants, deduped.
	now := formatTime(time.Now())
	seen := make(map[string]bool, len(bookIDs))
	for _, bookID := range bookIDs {
		if seen[bookID] {
			continue
		}
		seen[bookID] = true

		_, err = tx.ExecContext(ctx, `
			INSERT INTO branch_access (user_id, book_id, granted_at)
			VALUES (?, ?, ?)`,
			userID, bookID, now,
		)
		if err != nil {
			return fmt.Errorf("insert branch_access: %w", err)
		}
	}

	return tx.Commit()
}

// GetBranchAccessForUser returns the (id, name) pairs of all non-deleted
// branches granted to a user, ordered by branch name.
func (s *Store) GetBranchAccessForUser(ctx context.Context, userID string) ([]domain.BookRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name
		FROM branch_access ba
		JOIN books b ON b.id = ba.book_id
		WHERE ba.user_id = ? AND b.deleted_at IS NULL
		ORDER BY b.name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query branch_access: %w", err)
	}
	defer rows.Close()

	var refs []domain.BookRef
	for rows.Next() {
		var ref domain.BookRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan branch_access: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return refs, nil
}

// GetUsersForBranch returns the IDs of all users granted access to a branch.
func (s *Store) GetUsersForBranch(ctx context.Context, bookID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM branch_access WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query branch users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan branch user: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return userIDs, nil
}

// HasBranchAccess reports whether the user holds a grant for the branch.
func (s *Store) HasBranchAccess(ctx context.Context, userID, bookID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM branch_access WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check branch access: %w", err)
	}
	return count > 0, nil
}
