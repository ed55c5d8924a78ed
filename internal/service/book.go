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

// BookService manages branch books and their ownership.
type BookService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains the data for opening a new branch book.
type CreateBookRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// UpdateBookRequest contains the mutable fields of a book.
type UpdateBookRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// CreateBook opens a new branch book owned by the caller. The owner is
// granted access to the new branch automatically.
func (s *BookService) CreateBook(ctx context.Context, ownerID string, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Entity: domain.Entity{
			ID: bookID,
		},
		Name:        req.Name,
		OwnerUserID: ownerID,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	// Owners see their own branches through the same grant table as staff.
	existing, err := s.store.GetBranchAccessForUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner access: %w", err)
	}
	ids := make([]string, 0, len(existing)+1)
	for _, ref := range existing {
		ids = append(ids, ref.ID)
	}
	ids = append(ids, bookID)
	if err := s.store.ReplaceBranchAccess(ctx, ownerID, ids); err != nil {
		return nil, fmt.Errorf("grant owner access: %w", err)
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"owner_id", ownerID,
		"name", book.Name,
	)

	return book, nil
}

// GetBook retrieves a book the caller can see. The caller must own the book
// or hold a branch grant for it.
func (s *BookService) GetBook(ctx context.Context, callerID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("branch not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if book.IsOwnedBy(callerID) {
		return book, nil
	}

	has, err := s.store.HasBranchAccess(ctx, callerID, bookID)
	if err != nil {
		return nil, fmt.Errorf("check branch access: %w", err)
	}
	if !has {
		return nil, domainerrors.Forbidden("you do not have access to this branch")
	}

	return book, nil
}

// ListBooks returns the branches visible to the caller: owned books plus
// granted ones.
func (s *BookService) ListBooks(ctx context.Context, callerID string) ([]*domain.Book, error) {
	owned, err := s.store.ListBooksByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list owned books: %w", err)
	}

	granted, err := s.store.GetBranchAccessForUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get branch access: %w", err)
	}

	seen := make(map[string]bool, len(owned))
	books := make([]*domain.Book, 0, len(owned)+len(granted))
	for _, b := range owned {
		seen[b.ID] = true
		books = append(books, b)
	}
	for _, ref := range granted {
		if seen[ref.ID] {
			continue
		}
		b, err := s.store.GetBook(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, store.ErrBookNotFound) {
				continue
			}
			return nil, fmt.Errorf("get granted book: %w", err)
		}
		books = append(books, b)
	}

	return books, nil
}

// UpdateBook renames a book. Only the owner may update it.
func (s *BookService) UpdateBook(ctx context.Context, callerID, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("branch not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if !book.IsOwnedBy(callerID) {
		return nil, domainerrors.Forbidden("only the branch owner can update it")
	}

	book.Name = req.Name
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// DeleteBook soft-deletes a book. Only the owner may delete it.
func (s *BookService) DeleteBook(ctx context.Context, callerID, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFound("branch not found")
		}
		return fmt.Errorf("get book: %w", err)
	}

	if !book.IsOwnedBy(callerID) {
		return domainerrors.Forbidden("only the branch owner can delete it")
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", bookID, "owner_id", callerID)
	return nil
}
