// Package service provides the business logic layer for branch access,
// authentication, and ledger management.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/store"
)

// AccessService orchestrates branch access assignment with policy enforcement.
//
// Two policies exist. Staff-targeted assignment may be called by book owners
// and by ADMIN staff, and ADMIN callers may assign branches they do not own.
// User-targeted assignment has no staff-role concept: a caller may freely
// replace their own grants, but assigning to another user requires ownership
// of every requested branch.
type AccessService struct {
	store  store.Store
	logger *slog.Logger

	// Serializes the delete-then-insert replacement per subject so two
	// concurrent assignments for the same user cannot interleave.
	mu           sync.Mutex
	subjectLocks map[string]*sync.Mutex
}

// NewAccessService creates a new access service.
func NewAccessService(store store.Store, logger *slog.Logger) *AccessService {
	return &AccessService{
		store:        store,
		logger:       logger,
		subjectLocks: make(map[string]*sync.Mutex),
	}
}

// StaffAssignResult is the outcome of a staff-targeted assignment.
type StaffAssignResult struct {
	Staff    *domain.Staff
	Branches []domain.BookRef
}

// UserAssignResult is the outcome of a user-targeted assignment.
type UserAssignResult struct {
	Branches []domain.BookRef
}

// StaffAccessResult is a staff member's current access set.
type StaffAccessResult struct {
	Staff            *domain.Staff
	AssignedBranches []domain.BookRef
}

// UserAccessResult is a user's current access set plus the branches they own.
type UserAccessResult struct {
	AssignedBranches []domain.BookRef
	OwnedBranches    []domain.BookRef
}

// AssignStaffBranches replaces a staff member's branch grants with the
// requested set.
//
// The caller must own at least one book or hold the ADMIN staff role. The
// target must be an existing staff member. Malformed ids are excluded from
// the request before any checking. Non-ADMIN callers may only assign
// branches they own; every well-formed id must resolve to an owned branch
// or the whole call fails. ADMIN callers may assign any existing branch,
// and ids that resolve to nothing are silently dropped.
func (s *AccessService) AssignStaffBranches(ctx context.Context, callerID, staffUserID string, branchIDs []string) (*StaffAssignResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	isAdmin, err := s.callerIsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}

	ownsAny, err := s.store.OwnsAnyBook(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("check book ownership: %w", err)
	}

	if !ownsAny && !isAdmin {
		return nil, domainerrors.Forbidden("only owners and admins may assign branches")
	}

	// The target must be an existing staff member.
	target, err := s.store.GetStaff(ctx, staffUserID)
	if err != nil {
		if errors.Is(err, store.ErrStaffNotFound) {
			return nil, domainerrors.NotFound("staff member not found")
		}
		return nil, fmt.Errorf("get target staff: %w", err)
	}

	validBooks, err := s.resolveBranches(ctx, callerID, branchIDs, isAdmin)
	if err != nil {
		return nil, err
	}

	branches, err := s.replaceAccess(ctx, staffUserID, validBooks)
	if err != nil {
		return nil, err
	}

	s.logger.Info("staff branch access assigned",
		"caller_id", callerID,
		"staff_user_id", staffUserID,
		"branch_count", len(branches),
	)

	return &StaffAssignResult{Staff: target, Branches: branches}, nil
}

// AssignUserBranches replaces a user's branch grants with the requested set.
//
// A caller may always replace their own grants without ownership checks.
// Assigning to a different user requires the caller to own every requested
// branch; there is no ADMIN bypass on this path.
func (s *AccessService) AssignUserBranches(ctx context.Context, callerID, targetUserID string, branchIDs []string) (*UserAssignResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if targetUserID == "" {
		targetUserID = callerID
	}

	// Self-assignment skips ownership verification entirely. Requested ids
	// are still resolved against existing books so the grant table never
	// references a branch that does not exist.
	selfTarget := targetUserID == callerID

	validBooks, err := s.resolveBranches(ctx, callerID, branchIDs, selfTarget)
	if err != nil {
		return nil, err
	}

	branches, err := s.replaceAccess(ctx, targetUserID, validBooks)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user branch access assigned",
		"caller_id", callerID,
		"target_user_id", targetUserID,
		"branch_count", len(branches),
	)

	return &UserAssignResult{Branches: branches}, nil
}

// GetStaffAccess returns the current branch grants for a staff member.
// Returns NotFound if the subject is not a staff member.
func (s *AccessService) GetStaffAccess(ctx context.Context, staffUserID string) (*StaffAccessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := s.store.GetStaff(ctx, staffUserID)
	if err != nil {
		if errors.Is(err, store.ErrStaffNotFound) {
			return nil, domainerrors.NotFound("staff member not found")
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}

	assigned, err := s.store.GetBranchAccessForUser(ctx, staffUserID)
	if err != nil {
		return nil, fmt.Errorf("get branch access: %w", err)
	}

	return &StaffAccessResult{Staff: target, AssignedBranches: assigned}, nil
}

// GetUserAccess returns the current branch grants for any user, along with
// the branches the user owns. Unlike the staff query, this works for owners
// with no staff record.
func (s *AccessService) GetUserAccess(ctx context.Context, userID string) (*UserAccessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assigned, err := s.store.GetBranchAccessForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get branch access: %w", err)
	}

	owned, err := s.store.ListBooksByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned books: %w", err)
	}

	ownedRefs := make([]domain.BookRef, 0, len(owned))
	for _, b := range owned {
		ownedRefs = append(ownedRefs, b.Ref())
	}

	return &UserAccessResult{AssignedBranches: assigned, OwnedBranches: ownedRefs}, nil
}

// callerIsAdmin reports whether the caller holds the ADMIN staff role.
// A caller with no staff record is not an admin (they may still be an owner).
func (s *AccessService) callerIsAdmin(ctx context.Context, callerID string) (bool, error) {
	st, err := s.store.GetStaff(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrStaffNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get caller staff: %w", err)
	}
	return st.IsAdmin(), nil
}

// resolveBranches resolves requested branch ids to existing books.
// Entries that are not shaped like branch ids are excluded up front, the
// same way non-string entries are filtered at the HTTP boundary. When
// unrestricted is false, the lookup is filtered to books the caller owns
// and every well-formed id must resolve, otherwise the call fails with
// Forbidden. When unrestricted is true, no ownership filter applies and
// unresolved ids are dropped.
func (s *AccessService) resolveBranches(ctx context.Context, callerID string, branchIDs []string, unrestricted bool) ([]*domain.Book, error) {
	branchIDs = wellFormedBranchIDs(branchIDs)

	ownerFilter := callerID
	if unrestricted {
		ownerFilter = ""
	}

	books, err := s.store.GetBooksByIDs(ctx, branchIDs, ownerFilter)
	if err != nil {
		return nil, fmt.Errorf("resolve branches: %w", err)
	}

	if !unrestricted && len(books) != len(branchIDs) {
		return nil, domainerrors.Forbidden("you can only assign branches you own")
	}

	return books, nil
}

// wellFormedBranchIDs drops entries that cannot be branch identifiers.
// Branch ids are minted as "book-<nanoid>"; anything without that shape is
// excluded from the request rather than failing it.
func wellFormedBranchIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if strings.HasPrefix(v, "book-") && len(v) > len("book-") {
			out = append(out, v)
		}
	}
	return out
}

// replaceAccess swaps the subject's grants for the given books inside one
// transaction and returns the freshly-read access list.
func (s *AccessService) replaceAccess(ctx context.Context, subjectID string, books []*domain.Book) ([]domain.BookRef, error) {
	bookIDs := make([]string, 0, len(books))
	for _, b := range books {
		bookIDs = append(bookIDs, b.ID)
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.ReplaceBranchAccess(ctx, subjectID, bookIDs); err != nil {
		return nil, fmt.Errorf("replace branch access: %w", err)
	}

	branches, err := s.store.GetBranchAccessForUser(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("read back branch access: %w", err)
	}

	return branches, nil
}

// subjectLock returns the mutex for a subject, creating one if needed.
func (s *AccessService) subjectLock(subjectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.subjectLocks[subjectID]
	if !ok {
		lock = &sync.Mutex{}
		s.subjectLocks[subjectID] = lock
	}
	return lock
}
