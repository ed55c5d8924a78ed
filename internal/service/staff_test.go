package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/store/sqlite"
	"github.com/kripanidhi/byajbook-server/internal/validation"
)

func newTestStaffService(t *testing.T) (*StaffService, *sqlite.Store) {
	t.Helper()
	s := newTestStore(t)
	return NewStaffService(s, validation.New(), testLogger()), s
}

func TestCreateStaff_OwnerCreatesNewUser(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedBook(t, s, "book-1", "Main Branch", "owner-1")

	member, err := svc.CreateStaff(ctx, "owner-1", CreateStaffRequest{
		Phone:    "+919876543210",
		Name:     "Sunil",
		Password: "staff-password",
		RoleName: "STAFF",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StaffRoleStaff, member.Staff.RoleName)
	assert.Equal(t, "owner-1", member.Staff.CreatedBy)
	assert.Equal(t, "+919876543210", member.User.Phone)
	assert.Equal(t, member.User.ID, member.Staff.UserID)
}

func TestCreateStaff_ReusesExistingAccount(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedBook(t, s, "book-1", "Main Branch", "owner-1")
	seedUser(t, s, "existing-1")

	member, err := svc.CreateStaff(ctx, "owner-1", CreateStaffRequest{
		Phone:    "+91existing-1",
		Name:     "Ignored Name",
		Password: "ignored-password",
		RoleName: "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, "existing-1", member.User.ID)
	assert.Equal(t, domain.StaffRoleAdmin, member.Staff.RoleName)
}

func TestCreateStaff_NonOwnerForbidden(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "nobody-1")

	_, err := svc.CreateStaff(ctx, "nobody-1", CreateStaffRequest{
		Phone:    "+919876543210",
		Name:     "Sunil",
		Password: "staff-password",
		RoleName: "STAFF",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Contains(t, err.Error(), "only owners and admins")
}

func TestCreateStaff_AdminAllowed(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "admin-1")
	seedStaff(t, s, "admin-1", domain.StaffRoleAdmin)

	_, err := svc.CreateStaff(ctx, "admin-1", CreateStaffRequest{
		Phone:    "+919876543210",
		Name:     "Sunil",
		Password: "staff-password",
		RoleName: "STAFF",
	})
	require.NoError(t, err)
}

func TestCreateStaff_AlreadyStaff(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedBook(t, s, "book-1", "Main Branch", "owner-1")

	req := CreateStaffRequest{
		Phone:    "+919876543210",
		Name:     "Sunil",
		Password: "staff-password",
		RoleName: "STAFF",
	}
	_, err := svc.CreateStaff(ctx, "owner-1", req)
	require.NoError(t, err)

	_, err = svc.CreateStaff(ctx, "owner-1", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUpdateStaff_Role(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedBook(t, s, "book-1", "Main Branch", "owner-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)

	member, err := svc.UpdateStaff(ctx, "owner-1", "staff-1", UpdateStaffRequest{RoleName: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleAdmin, member.Staff.RoleName)
}

func TestDeleteStaff_RevokesGrants(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedBook(t, s, "book-1", "Main Branch", "owner-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	require.NoError(t, s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1"}))

	require.NoError(t, svc.DeleteStaff(ctx, "owner-1", "staff-1"))

	// Staff record gone, grants revoked, user account kept.
	_, err := svc.GetStaff(ctx, "staff-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = s.GetUser(ctx, "staff-1")
	require.NoError(t, err)
}

func TestListStaff(t *testing.T) {
	svc, s := newTestStaffService(t)
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedUser(t, s, "staff-2")
	seedBook(t, s, "book-1", "Main Branch", "owner-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedStaff(t, s, "staff-2", domain.StaffRoleAdmin)

	members, err := svc.ListStaff(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
