package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	"github.com/kripanidhi/byajbook-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTestUser(id, phone string) *domain.User {
	now := time.Now()
	return &domain.User{
		Entity: domain.Entity{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Phone:        phone,
		Name:         "Test " + id,
		PasswordHash: "$argon2id$test",
	}
}

func insertTestUser(t *testing.T, s *Store, userID string) {
	t.Helper()
	ctx := context.Background()
	user := makeTestUser(userID, "+91"+userID)
	if err := s.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, store.ErrPhoneExists) {
			t.Fatalf("insertTestUser(%s): %v", userID, err)
		}
	}
}

func insertTestBook(t *testing.T, s *Store, id, name, ownerID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	book := &domain.Book{
		Entity: domain.Entity{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        name,
		OwnerUserID: ownerID,
	}
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("insertTestBook(%s): %v", id, err)
	}
}

func insertTestStaff(t *testing.T, s *Store, userID string, role domain.StaffRole) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	staff := &domain.Staff{
		UserID:    userID,
		RoleName:  role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateStaff(ctx, staff); err != nil {
		t.Fatalf("insertTestStaff(%s): %v", userID, err)
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enforced.
	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	insertTestUser(t, s, "user-1")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Schema application is idempotent; existing data survives a reopen.
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUser after reopen: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}
}
