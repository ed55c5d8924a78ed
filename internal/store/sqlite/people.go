package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	"github.com/kripanidhi/byajbook-server/internal/store"
)

// personColumns is the ordered list of columns selected in people queries.
// Must match the scan order in scanPerson.
const personColumns = `id, created_at, updated_at, deleted_at, book_id, name,
	phone, address, kyc_document_url`

// scanPerson scans a sql.Row (or sql.Rows via its Scan method) into a domain.Person.
func scanPerson(scanner interface{ Scan(dest ...any) error }) (*domain.Person, error) {
	var p domain.Person

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&p.BookID,
		&p.Name,
		&p.Phone,
		&p.Address,
		&p.KYCDocumentURL,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	p.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePerson inserts a new borrower record.
func (s *Store) CreatePerson(ctx context.Context, person *domain.Person) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (
			id, created_at, updated_at, deleted_at, book_id, name,
			phone, address, kyc_document_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		person.ID,
		formatTime(person.CreatedAt),
		formatTime(person.UpdatedAt),
		nullTimeString(person.DeletedAt),
		person.BookID,
		person.Name,
		person.Phone,
		person.Address,
		person.KYCDocumentURL,
	)
	return err
}

// GetPerson retrieves a person by ID, excluding soft-deleted records.
// Returns store.ErrPersonNotFound if the person does not exist.
func (s *Store) GetPerson(ctx context.Context, id string) (*domain.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ? AND deleted_at IS NULL`, id)

	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPeopleByBook returns all non-deleted people registered in a branch.
func (s *Store) ListPeopleByBook(ctx context.Context, bookID string) ([]*domain.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people
		WHERE book_id = ? AND deleted_at IS NULL ORDER BY name ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return people, nil
}

// UpdatePerson performs a full row update on an existing person.
// Returns store.ErrPersonNotFound if the person does not exist or is soft-deleted.
func (s *Store) UpdatePerson(ctx context.Context, person *domain.Person) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE people SET
			updated_at = ?,
			name = ?,
			phone = ?,
			address = ?,
			kyc_document_url = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(person.UpdatedAt),
		person.Name,
		person.Phone,
		person.Address,
		person.KYCDocumentURL,
		person.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPersonNotFound
	}
	return nil
}

// DeletePerson performs a soft delete by setting deleted_at and updated_at.
// Returns store.ErrPersonNotFound if the person does not exist or is already deleted.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE people SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPersonNotFound
	}
	return nil
}
