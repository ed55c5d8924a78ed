package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	"github.com/kripanidhi/byajbook-server/internal/store"
)

// staffColumns is the ordered list of columns selected in staff queries.
// Must match the scan order in scanStaff.
const staffColumns = `user_id, role_name, created_by, created_at, updated_at`

// scanStaff scans a sql.Row (or sql.Rows via its Scan method) into a domain.Staff.
func scanStaff(scanner interface{ Scan(dest ...any) error }) (*domain.Staff, error) {
	var st domain.Staff

	var (
		roleName  string
		createdBy sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&st.UserID,
		&roleName,
		&createdBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	st.RoleName = domain.StaffRole(roleName)
	if createdBy.Valid {
		st.CreatedBy = createdBy.String
	}

	st.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	st.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

// CreateStaff inserts a staff record for a user.
// Returns store.ErrAlreadyExists if the user is already staff.
func (s *Store) CreateStaff(ctx context.Context, staff *domain.Staff) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (user_id, role_name, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		staff.UserID,
		string(staff.RoleName),
		nullString(staff.CreatedBy),
		formatTime(staff.CreatedAt),
		formatTime(staff.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetStaff retrieves the staff record for a user.
// Returns store.ErrStaffNotFound if the user is not staff.
func (s *Store) GetStaff(ctx context.Context, userID string) (*domain.Staff, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE user_id = ?`, userID)

	st, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListStaff returns all staff records.
func (s *Store) ListStaff(ctx context.Context) ([]*domain.Staff, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+staffColumns+` FROM staff ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []*domain.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return staff, nil
}

// UpdateStaff updates the role of an existing staff record.
// Returns store.ErrStaffNotFound if the record does not exist.
func (s *Store) UpdateStaff(ctx context.Context, staff *domain.Staff) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE staff SET role_name = ?, updated_at = ?
		WHERE user_id = ?`,
		string(staff.RoleName),
		formatTime(staff.UpdatedAt),
		staff.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrStaffNotFound
	}
	return nil
}

// DeleteStaff removes the staff record for a user.
// Returns store.ErrStaffNotFound if the record does not exist.
func (s *Store) DeleteStaff(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM staff WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrStaffNotFound
	}
	return nil
}
