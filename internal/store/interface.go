// Package store defines the persistence interface for the ByajBook server.
package store

import (
	"context"

	"github.com/kripanidhi/byajbook-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Staff
	CreateStaff(ctx context.Context, staff *domain.Staff) error
	GetStaff(ctx context.Context, userID string) (*domain.Staff, error)
	ListStaff(ctx context.Context) ([]*domain.Staff, error)
	UpdateStaff(ctx context.Context, staff *domain.Staff) error
	DeleteStaff(ctx context.Context, userID string) error

	// Books (branches)
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBooksByIDs(ctx context.Context, ids []string, ownerID string) ([]*domain.Book, error)
	ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)
	OwnsAnyBook(ctx context.Context, userID string) (bool, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	// Branch access grants
	ReplaceBranchAccess(ctx context.Context, userID string, bookIDs []string) error
	GetBranchAccessForUser(ctx context.Context, userID string) ([]domain.BookRef, error)
	GetUsersForBranch(ctx context.Context, bookID string) ([]string, error)
	HasBranchAccess(ctx context.Context, userID, bookID string) (bool, error)

	// People (borrowers)
	CreatePerson(ctx context.Context, person *domain.Person) error
	GetPerson(ctx context.Context, id string) (*domain.Person, error)
	ListPeopleByBook(ctx context.Context, bookID string) ([]*domain.Person, error)
	UpdatePerson(ctx context.Context, person *domain.Person) error
	DeletePerson(ctx context.Context, id string) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	GetSessionsByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
