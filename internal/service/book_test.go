package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/store/sqlite"
	"github.com/kripanidhi/byajbook-server/internal/validation"
)

func newTestBookService(t *testing.T) (*BookService, *AccessService, *sqlite.Store) {
	t.Helper()
	s := newTestStore(t)
	return NewBookService(s, validation.New(), testLogger()), NewAccessService(s, testLogger()), s
}

func TestCreateBook_GrantsOwnerAccess(t *testing.T) {
	svc, accessSvc, s := newTestBookService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")

	book, err := svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: "Main Branch"})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", book.OwnerUserID)

	// The owner reads their new branch through the grant table.
	access, err := accessSvc.GetUserAccess(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, access.AssignedBranches, 1)
	assert.Equal(t, book.ID, access.AssignedBranches[0].ID)

	// A second branch extends the grant set instead of replacing it.
	_, err = svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: "Second Branch"})
	require.NoError(t, err)

	access, err = accessSvc.GetUserAccess(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, access.AssignedBranches, 2)
	assert.Len(t, access.OwnedBranches, 2)
}

func TestCreateBook_ValidationFailure(t *testing.T) {
	svc, _, s := newTestBookService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")

	_, err := svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestGetBook_AccessControl(t *testing.T) {
	svc, accessSvc, s := newTestBookService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedUser(t, s, "stranger-1")

	book, err := svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: "Main Branch"})
	require.NoError(t, err)

	// Owner reads it.
	got, err := svc.GetBook(ctx, "owner-1", book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	// A stranger does not.
	_, err = svc.GetBook(ctx, "stranger-1", book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// A granted user does.
	_, err = accessSvc.AssignUserBranches(ctx, "owner-1", "staff-1", []string{book.ID})
	require.NoError(t, err)
	_, err = svc.GetBook(ctx, "staff-1", book.ID)
	require.NoError(t, err)
}

func TestUpdateBook_OwnerOnly(t *testing.T) {
	svc, accessSvc, s := newTestBookService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")

	book, err := svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: "Main Branch"})
	require.NoError(t, err)

	// Even a granted user cannot rename the branch.
	_, err = accessSvc.AssignUserBranches(ctx, "owner-1", "staff-1", []string{book.ID})
	require.NoError(t, err)
	_, err = svc.UpdateBook(ctx, "staff-1", book.ID, UpdateBookRequest{Name: "Hijacked"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	updated, err := svc.UpdateBook(ctx, "owner-1", book.ID, UpdateBookRequest{Name: "Renamed Branch"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Branch", updated.Name)
}

func TestDeleteBook_OwnerOnly(t *testing.T) {
	svc, _, s := newTestBookService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "stranger-1")

	book, err := svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: "Main Branch"})
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, "stranger-1", book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, svc.DeleteBook(ctx, "owner-1", book.ID))

	_, err = svc.GetBook(ctx, "owner-1", book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListBooks_OwnedAndGranted(t *testing.T) {
	svc, accessSvc, s := newTestBookService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "owner-2")

	book1, err := svc.CreateBook(ctx, "owner-1", CreateBookRequest{Name: "Mine"})
	require.NoError(t, err)
	book2, err := svc.CreateBook(ctx, "owner-2", CreateBookRequest{Name: "Theirs"})
	require.NoError(t, err)

	// owner-1 takes a grant on owner-2's branch alongside their own.
	_, err = accessSvc.AssignUserBranches(ctx, "owner-1", "", []string{book1.ID})
	require.NoError(t, err)
	_, err = accessSvc.AssignUserBranches(ctx, "owner-2", "owner-1", []string{book2.ID})
	require.NoError(t, err)

	books, err := svc.ListBooks(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, books, 2)
}
