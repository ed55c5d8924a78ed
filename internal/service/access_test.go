package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/store/sqlite"
)

// newTestStore creates a sqlite store backed by a temp directory.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func seedUser(t *testing.T, s *sqlite.Store, userID string) {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		Entity: domain.Entity{
			ID:        userID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Phone: "+91" + userID,
		Name:  "Test " + userID,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
}

func seedBook(t *testing.T, s *sqlite.Store, bookID, name, ownerID string) {
	t.Helper()

	now := time.Now()
	book := &domain.Book{
		Entity: domain.Entity{
			ID:        bookID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        name,
		OwnerUserID: ownerID,
	}
	require.NoError(t, s.CreateBook(context.Background(), book))
}

func seedStaff(t *testing.T, s *sqlite.Store, userID string, role domain.StaffRole) {
	t.Helper()

	now := time.Now()
	staff := &domain.Staff{
		UserID:    userID,
		RoleName:  role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateStaff(context.Background(), staff))
}

func TestAssignStaffBranches_OwnerAssignsOwnedBranches(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")
	seedBook(t, s, "book-2", "Beta Branch", "owner-1")

	result, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1", "book-2"})
	require.NoError(t, err)

	assert.Equal(t, "staff-1", result.Staff.UserID)
	require.Len(t, result.Branches, 2)
	assert.Equal(t, "Alpha Branch", result.Branches[0].Name)
	assert.Equal(t, "Beta Branch", result.Branches[1].Name)
}

func TestAssignStaffBranches_ReplacesPreviousGrants(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")
	seedBook(t, s, "book-2", "Beta Branch", "owner-1")

	_, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1"})
	require.NoError(t, err)

	result, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-2"})
	require.NoError(t, err)

	require.Len(t, result.Branches, 1)
	assert.Equal(t, "book-2", result.Branches[0].ID)
}

func TestAssignStaffBranches_EmptyListRevokesAll(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	_, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1"})
	require.NoError(t, err)

	result, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Branches)
}

func TestAssignStaffBranches_CallerWithoutAuthority(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	// Caller owns nothing and is not an admin.
	seedUser(t, s, "nobody-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)

	_, err := svc.AssignStaffBranches(ctx, "nobody-1", "staff-1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Contains(t, err.Error(), "only owners and admins")
}

func TestAssignStaffBranches_TargetNotStaff(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "user-2")
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// user-2 has no staff record.
	_, err := svc.AssignStaffBranches(ctx, "owner-1", "user-2", []string{"book-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Contains(t, err.Error(), "staff member not found")
}

func TestAssignStaffBranches_NonAdminCannotAssignUnownedBranch(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "owner-2")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")
	seedBook(t, s, "book-2", "Other Branch", "owner-2")

	// owner-1 tries to hand out owner-2's branch.
	_, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1", "book-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Contains(t, err.Error(), "branches you own")
}

func TestAssignStaffBranches_MalformedIDsFiltered(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// Entries that are not shaped like branch ids are excluded before
	// ownership checking, so the rest of the request still succeeds.
	result, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1", "nonexistent"})
	require.NoError(t, err)
	require.Len(t, result.Branches, 1)
	assert.Equal(t, "book-1", result.Branches[0].ID)
}

func TestAssignStaffBranches_NonAdminUnresolvedIDRejected(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// A well-formed id that does not resolve to an owned branch fails the
	// whole request for a non-admin caller.
	_, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1", "book-ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAssignStaffBranches_AdminAssignsAnyBranch(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "admin-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "admin-1", domain.StaffRoleAdmin)
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// Admin owns nothing but may assign anyone's branches.
	result, err := svc.AssignStaffBranches(ctx, "admin-1", "staff-1", []string{"book-1"})
	require.NoError(t, err)
	require.Len(t, result.Branches, 1)
	assert.Equal(t, "book-1", result.Branches[0].ID)
}

func TestAssignStaffBranches_AdminNonexistentIDsDropped(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "admin-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "admin-1", domain.StaffRoleAdmin)
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// Unresolvable ids are silently dropped on the admin path.
	result, err := svc.AssignStaffBranches(ctx, "admin-1", "staff-1", []string{"book-1", "book-ghost"})
	require.NoError(t, err)
	require.Len(t, result.Branches, 1)
	assert.Equal(t, "book-1", result.Branches[0].ID)
}

func TestAssignUserBranches_SelfSkipsOwnershipChecks(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "user-1")
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// user-1 owns nothing but may replace their own grant set.
	result, err := svc.AssignUserBranches(ctx, "user-1", "user-1", []string{"book-1"})
	require.NoError(t, err)
	require.Len(t, result.Branches, 1)
	assert.Equal(t, "book-1", result.Branches[0].ID)
}

func TestAssignUserBranches_EmptyTargetDefaultsToCaller(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	_, err := svc.AssignUserBranches(ctx, "owner-1", "", []string{"book-1"})
	require.NoError(t, err)

	access, err := svc.GetUserAccess(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, access.AssignedBranches, 1)
	assert.Equal(t, "book-1", access.AssignedBranches[0].ID)
}

func TestAssignUserBranches_OtherTargetRequiresOwnership(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "owner-2")
	seedUser(t, s, "user-1")
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")
	seedBook(t, s, "book-2", "Other Branch", "owner-2")

	// Assigning an unowned branch to another user fails.
	_, err := svc.AssignUserBranches(ctx, "owner-1", "user-1", []string{"book-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Owned branches work.
	result, err := svc.AssignUserBranches(ctx, "owner-1", "user-1", []string{"book-1"})
	require.NoError(t, err)
	require.Len(t, result.Branches, 1)
}

func TestAssignUserBranches_NoAdminBypass(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "admin-1")
	seedUser(t, s, "user-1")
	seedStaff(t, s, "admin-1", domain.StaffRoleAdmin)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	// The user-targeted policy has no role concept: even an ADMIN must own
	// the branches they assign to someone else.
	_, err := svc.AssignUserBranches(ctx, "admin-1", "user-1", []string{"book-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestGetStaffAccess(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "staff-1")
	seedStaff(t, s, "staff-1", domain.StaffRoleStaff)
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")

	_, err := svc.AssignStaffBranches(ctx, "owner-1", "staff-1", []string{"book-1"})
	require.NoError(t, err)

	access, err := svc.GetStaffAccess(ctx, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", access.Staff.UserID)
	require.Len(t, access.AssignedBranches, 1)
	assert.Equal(t, "Alpha Branch", access.AssignedBranches[0].Name)
}

func TestGetStaffAccess_NotStaff(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "user-1")

	_, err := svc.GetStaffAccess(ctx, "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestGetUserAccess_IncludesOwnedBranches(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedUser(t, s, "owner-2")
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")
	seedBook(t, s, "book-2", "Other Branch", "owner-2")

	// owner-1 also holds a grant on owner-2's branch.
	_, err := svc.AssignUserBranches(ctx, "owner-1", "", []string{"book-2"})
	require.NoError(t, err)

	access, err := svc.GetUserAccess(ctx, "owner-1")
	require.NoError(t, err)

	require.Len(t, access.OwnedBranches, 1)
	assert.Equal(t, "book-1", access.OwnedBranches[0].ID)
	require.Len(t, access.AssignedBranches, 1)
	assert.Equal(t, "book-2", access.AssignedBranches[0].ID)
}

func TestAssignUserBranches_ConcurrentSameSubject(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccessService(s, testLogger())
	ctx := context.Background()

	seedUser(t, s, "owner-1")
	seedBook(t, s, "book-1", "Alpha Branch", "owner-1")
	seedBook(t, s, "book-2", "Beta Branch", "owner-1")

	// Concurrent replacements for the same subject serialize; the final
	// state is one of the two requested sets, never a mix.
	done := make(chan error, 2)
	go func() {
		_, err := svc.AssignUserBranches(ctx, "owner-1", "", []string{"book-1"})
		done <- err
	}()
	go func() {
		_, err := svc.AssignUserBranches(ctx, "owner-1", "", []string{"book-2"})
		done <- err
	}()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	access, err := svc.GetUserAccess(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, access.AssignedBranches, 1)
	got := access.AssignedBranches[0].ID
	assert.Contains(t, []string{"book-1", "book-2"}, got)
}
