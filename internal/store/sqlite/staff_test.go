package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	"github.com/kripanidhi/byajbook-server/internal/store"
)

func TestCreateAndGetStaff(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestStaff(t, s, "user-1", domain.StaffRoleStaff)

	got, err := s.GetStaff(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStaff: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q, want %q", got.UserID, "user-1")
	}
	if got.RoleName != domain.StaffRoleStaff {
		t.Errorf("RoleName: got %q, want %q", got.RoleName, domain.StaffRoleStaff)
	}
}

func TestGetStaff_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetStaff(ctx, "nonexistent")
	if !errors.Is(err, store.ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestCreateStaff_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestStaff(t, s, "user-1", domain.StaffRoleStaff)

	staff := &domain.Staff{UserID: "user-1", RoleName: domain.StaffRoleAdmin}
	err := s.CreateStaff(ctx, staff)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateStaff_Role(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestStaff(t, s, "user-1", domain.StaffRoleStaff)

	staff, err := s.GetStaff(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStaff: %v", err)
	}
	staff.RoleName = domain.StaffRoleAdmin
	if err := s.UpdateStaff(ctx, staff); err != nil {
		t.Fatalf("UpdateStaff: %v", err)
	}

	got, err := s.GetStaff(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStaff: %v", err)
	}
	if got.RoleName != domain.StaffRoleAdmin {
		t.Errorf("RoleName: got %q, want %q", got.RoleName, domain.StaffRoleAdmin)
	}
}

func TestDeleteStaff(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestStaff(t, s, "user-1", domain.StaffRoleStaff)

	if err := s.DeleteStaff(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteStaff: %v", err)
	}
	if _, err := s.GetStaff(ctx, "user-1"); !errors.Is(err, store.ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound after delete, got %v", err)
	}

	// The underlying user account survives.
	if _, err := s.GetUser(ctx, "user-1"); err != nil {
		t.Fatalf("GetUser after staff delete: %v", err)
	}
}
