package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/id"
	"github.com/kripanidhi/byajbook-server/internal/store"
	"github.com/kripanidhi/byajbook-server/internal/validation"
)

// PersonService manages borrower records within a branch.
type PersonService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PersonService {
	return &PersonService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreatePersonRequest contains the data for registering a borrower.
type CreatePersonRequest struct {
	BookID         string `json:"book_id" validate:"required"`
	Name           string `json:"name" validate:"required,max=120"`
	Phone          string `json:"phone" validate:"max=15"`
	Address        string `json:"address" validate:"max=500"`
	KYCDocumentURL string `json:"kyc_document_url" validate:"max=500"`
}

// UpdatePersonRequest contains the mutable fields of a borrower.
type UpdatePersonRequest struct {
	Name           string `json:"name" validate:"required,max=120"`
	Phone          string `json:"phone" validate:"max=15"`
	Address        string `json:"address" validate:"max=500"`
	KYCDocumentURL string `json:"kyc_document_url" validate:"max=500"`
}

// CreatePerson registers a borrower in a branch. The caller must own the
// branch or hold a grant for it.
func (s *PersonService) CreatePerson(ctx context.Context, callerID string, req CreatePersonRequest) (*domain.Person, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireBranchAccess(ctx, callerID, req.BookID); err != nil {
		return nil, err
	}

	personID, err := id.Generate("person")
	if err != nil {
		return nil, fmt.Errorf("generate person ID: %w", err)
	}

	person := &domain.Person{
		Entity: domain.Entity{
			ID: personID,
		},
		BookID:         req.BookID,
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		KYCDocumentURL: req.KYCDocumentURL,
	}
	person.InitTimestamps()

	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}

	s.logger.Info("person created",
		"person_id", personID,
		"book_id", req.BookID,
		"created_by", callerID,
	)

	return person, nil
}

// GetPerson retrieves a borrower. The caller must be able to see the
// borrower's branch.
func (s *PersonService) GetPerson(ctx context.Context, callerID, personID string) (*domain.Person, error) {
	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			return nil, domainerrors.NotFound("person not found")
		}
		return nil, fmt.Errorf("get person: %w", err)
	}

	if err := s.requireBranchAccess(ctx, callerID, person.BookID); err != nil {
		return nil, err
	}

	return person, nil
}

// ListPeople returns the borrowers registered in a branch.
func (s *PersonService) ListPeople(ctx context.Context, callerID, bookID string) ([]*domain.Person, error) {
	if err := s.requireBranchAccess(ctx, callerID, bookID); err != nil {
		return nil, err
	}

	people, err := s.store.ListPeopleByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}

	return people, nil
}

// UpdatePerson updates a borrower's details.
func (s *PersonService) UpdatePerson(ctx context.Context, callerID, personID string, req UpdatePersonRequest) (*domain.Person, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			return nil, domainerrors.NotFound("person not found")
		}
		return nil, fmt.Errorf("get person: %w", err)
	}

	if err := s.requireBranchAccess(ctx, callerID, person.BookID); err != nil {
		return nil, err
	}

	person.Name = req.Name
	person.Phone = req.Phone
	person.Address = req.Address
	person.KYCDocumentURL = req.KYCDocumentURL
	person.Touch()

	if err := s.store.UpdatePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}

	return person, nil
}

// DeletePerson soft-deletes a borrower record.
func (s *PersonService) DeletePerson(ctx context.Context, callerID, personID string) error {
	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			return domainerrors.NotFound("person not found")
		}
		return fmt.Errorf("get person: %w", err)
	}

	if err := s.requireBranchAccess(ctx, callerID, person.BookID); err != nil {
		return err
	}

	if err := s.store.DeletePerson(ctx, personID); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	s.logger.Info("person deleted", "person_id", personID, "deleted_by", callerID)
	return nil
}

// requireBranchAccess fails with Forbidden unless the caller owns the branch
// or holds a grant for it.
func (s *PersonService) requireBranchAccess(ctx context.Context, callerID, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFound("branch not found")
		}
		return fmt.Errorf("get book: %w", err)
	}

	if book.IsOwnedBy(callerID) {
		return nil
	}

	has, err := s.store.HasBranchAccess(ctx, callerID, bookID)
	if err != nil {
		return fmt.Errorf("check branch access: %w", err)
	}
	if !has {
		return domainerrors.Forbidden("you do not have access to this branch")
	}
	return nil
}
