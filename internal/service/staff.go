package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kripanidhi/byajbook-server/internal/auth"
	"github.com/kripanidhi/byajbook-server/internal/domain"
	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/id"
	"github.com/kripanidhi/byajbook-server/internal/store"
	"github.com/kripanidhi/byajbook-server/internal/validation"
)

// StaffService manages staff records. Staff accounts are created by owners
// and admins; a user with no staff record is implicitly an owner.
type StaffService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewStaffService creates a new staff service.
func NewStaffService(store store.Store, validator *validation.Validator, logger *slog.Logger) *StaffService {
	return &StaffService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateStaffRequest contains the data for enrolling a staff member.
// If the phone is not yet registered, a user account is created for it.
type CreateStaffRequest struct {
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	RoleName string `json:"role_name" validate:"required,oneof=ADMIN STAFF"`
}

// UpdateStaffRequest contains the mutable fields of a staff record.
type UpdateStaffRequest struct {
	RoleName string `json:"role_name" validate:"required,oneof=ADMIN STAFF"`
}

// StaffMember pairs a staff record with its user identity for responses.
type StaffMember struct {
	Staff *domain.Staff `json:"staff"`
	User  *domain.User  `json:"user"`
}

// CreateStaff enrolls a user as staff. The caller must be an owner or an
// ADMIN staff member.
func (s *StaffService) CreateStaff(ctx context.Context, callerID string, req CreateStaffRequest) (*StaffMember, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireOwnerOrAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	role, ok := domain.ParseStaffRole(req.RoleName)
	if !ok {
		return nil, domainerrors.Validation("invalid staff role")
	}

	// Reuse an existing account for the phone, or create one.
	user, err := s.store.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		user, err = s.createStaffUser(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	staff := &domain.Staff{
		UserID:    user.ID,
		RoleName:  role,
		CreatedBy: callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateStaff(ctx, staff); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("user is already a staff member")
		}
		return nil, fmt.Errorf("create staff: %w", err)
	}

	s.logger.Info("staff created",
		"staff_user_id", user.ID,
		"role", string(role),
		"created_by", callerID,
	)

	return &StaffMember{Staff: staff, User: user}, nil
}

// GetStaff returns a staff member with their user identity.
// Returns NotFound if the user is not staff.
func (s *StaffService) GetStaff(ctx context.Context, userID string) (*StaffMember, error) {
	staff, err := s.store.GetStaff(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrStaffNotFound) {
			return nil, domainerrors.NotFound("staff member not found")
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get staff user: %w", err)
	}

	return &StaffMember{Staff: staff, User: user}, nil
}

// ListStaff returns all staff members with their user identities.
func (s *StaffService) ListStaff(ctx context.Context, callerID string) ([]*StaffMember, error) {
	if err := s.requireOwnerOrAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	records, err := s.store.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	members := make([]*StaffMember, 0, len(records))
	for _, st := range records {
		user, err := s.store.GetUser(ctx, st.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("get staff user: %w", err)
		}
		members = append(members, &StaffMember{Staff: st, User: user})
	}

	return members, nil
}

// UpdateStaff changes a staff member's role. The caller must be an owner or
// an ADMIN staff member.
func (s *StaffService) UpdateStaff(ctx context.Context, callerID, userID string, req UpdateStaffRequest) (*StaffMember, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireOwnerOrAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	staff, err := s.store.GetStaff(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrStaffNotFound) {
			return nil, domainerrors.NotFound("staff member not found")
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}

	role, ok := domain.ParseStaffRole(req.RoleName)
	if !ok {
		return nil, domainerrors.Validation("invalid staff role")
	}

	staff.RoleName = role
	staff.UpdatedAt = time.Now()

	if err := s.store.UpdateStaff(ctx, staff); err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get staff user: %w", err)
	}

	return &StaffMember{Staff: staff, User: user}, nil
}

// DeleteStaff removes a staff record and revokes all branch grants for it.
// The caller must be an owner or an ADMIN staff member.
func (s *StaffService) DeleteStaff(ctx context.Context, callerID, userID string) error {
	if err := s.requireOwnerOrAdmin(ctx, callerID); err != nil {
		return err
	}

	if err := s.store.DeleteStaff(ctx, userID); err != nil {
		if errors.Is(err, store.ErrStaffNotFound) {
			return domainerrors.NotFound("staff member not found")
		}
		return fmt.Errorf("delete staff: %w", err)
	}

	// Revoke branch grants; an ex-staff user keeps their account.
	if err := s.store.ReplaceBranchAccess(ctx, userID, nil); err != nil {
		return fmt.Errorf("revoke branch access: %w", err)
	}

	s.logger.Info("staff deleted", "staff_user_id", userID, "deleted_by", callerID)
	return nil
}

// requireOwnerOrAdmin fails with Forbidden unless the caller owns at least
// one book or holds the ADMIN staff role.
func (s *StaffService) requireOwnerOrAdmin(ctx context.Context, callerID string) error {
	st, err := s.store.GetStaff(ctx, callerID)
	if err == nil && st.IsAdmin() {
		return nil
	}
	if err != nil && !errors.Is(err, store.ErrStaffNotFound) {
		return fmt.Errorf("get caller staff: %w", err)
	}

	ownsAny, err := s.store.OwnsAnyBook(ctx, callerID)
	if err != nil {
		return fmt.Errorf("check book ownership: %w", err)
	}
	if !ownsAny {
		return domainerrors.Forbidden("only owners and admins may manage staff")
	}
	return nil
}

// createStaffUser registers a user account for a staff member's phone.
func (s *StaffService) createStaffUser(ctx context.Context, req CreateStaffRequest) (*domain.User, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Entity: domain.Entity{
			ID: userID,
		},
		Phone:        req.Phone,
		Name:         req.Name,
		PasswordHash: passwordHash,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create staff user: %w", err)
	}

	return user, nil
}
