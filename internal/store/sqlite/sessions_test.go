package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kripanidhi/byajbook-server/internal/domain"
	"github.com/kripanidhi/byajbook-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        "127.0.0.1",
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	sess := makeTestSession("sess-1", "user-1", "hash-1", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q, want %q", got.UserID, "user-1")
	}
	if got.IPAddress != "127.0.0.1" {
		t.Errorf("IPAddress: got %q, want %q", got.IPAddress, "127.0.0.1")
	}
}

func TestGetSessionByTokenHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	sess := makeTestSession("sess-1", "user-1", "hash-1", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash: %v", err)
	}
	if got.ID != "sess-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "sess-1")
	}

	_, err = s.GetSessionByTokenHash(ctx, "no-such-hash")
	if !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	expired := makeTestSession("sess-old", "user-1", "hash-old", time.Now().Add(-time.Hour))
	live := makeTestSession("sess-new", "user-1", "hash-new", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession(expired): %v", err)
	}
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatalf("CreateSession(live): %v", err)
	}

	count, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 deleted, got %d", count)
	}

	if _, err := s.GetSession(ctx, "sess-old"); !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("expected expired session gone, got %v", err)
	}
	if _, err := s.GetSession(ctx, "sess-new"); err != nil {
		t.Fatalf("live session should survive: %v", err)
	}
}

func TestGetSessionsByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")

	if err := s.CreateSession(ctx, makeTestSession("sess-1", "user-1", "h1", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-2", "user-1", "h2", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-3", "user-2", "h3", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sessions, err := s.GetSessionsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSessionsByUser: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}
