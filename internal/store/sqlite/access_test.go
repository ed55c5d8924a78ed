package sqlite

import (
	"context"
	"testing"
)

func TestReplaceBranchAccess_ReplacesExistingGrants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")
	insertTestBook(t, s, "book-2", "Beta Branch", "owner-1")
	insertTestBook(t, s, "book-3", "Gamma Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1", "book-2"}); err != nil {
		t.Fatalf("ReplaceBranchAccess: %v", err)
	}

	// A second assignment fully replaces the first, it does not append.
	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-3"}); err != nil {
		t.Fatalf("ReplaceBranchAccess (second): %v", err)
	}

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetBranchAccessForUser: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(refs))
	}
	if refs[0].ID != "book-3" {
		t.Errorf("grant: got %q, want %q", refs[0].ID, "book-3")
	}
	if refs[0].Name != "Gamma Branch" {
		t.Errorf("name: got %q, want %q", refs[0].Name, "Gamma Branch")
	}
}

func TestReplaceBranchAccess_EmptyRevokesAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1"}); err != nil {
		t.Fatalf("ReplaceBranchAccess: %v", err)
	}
	if err := s.ReplaceBranchAccess(ctx, "staff-1", nil); err != nil {
		t.Fatalf("ReplaceBranchAccess (revoke): %v", err)
	}

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetBranchAccessForUser: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no grants, got %d", len(refs))
	}
}

func TestReplaceBranchAccess_DeduplicatesIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1", "book-1", "book-1"}); err != nil {
		t.Fatalf("ReplaceBranchAccess with duplicates: %v", err)
	}

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetBranchAccessForUser: %v", err)
	}
	if len(refs) != 1 {
		t.Errorf("expected 1 grant after dedupe, got %d", len(refs))
	}
}

func TestReplaceBranchAccess_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")
	insertTestBook(t, s, "book-2", "Beta Branch", "owner-1")

	ids := []string{"book-1", "book-2"}
	for range 3 {
		if err := s.ReplaceBranchAccess(ctx, "staff-1", ids); err != nil {
			t.Fatalf("ReplaceBranchAccess: %v", err)
		}
	}

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetBranchAccessForUser: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 grants, got %d", len(refs))
	}
}

func TestGetBranchAccessForUser_OrderedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-z", "Zebra Branch", "owner-1")
	insertTestBook(t, s, "book-a", "Apple Branch", "owner-1")
	insertTestBook(t, s, "book-m", "Mango Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-z", "book-a", "book-m"}); err != nil {
		t.Fatalf("ReplaceBranchAccess: %v", err)
	}

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetBranchAccessForUser: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 grants, got %d", len(refs))
	}
	want := []string{"Apple Branch", "Mango Branch", "Zebra Branch"}
	for i, ref := range refs {
		if ref.Name != want[i] {
			t.Errorf("refs[%d].Name: got %q, want %q", i, ref.Name, want[i])
		}
	}
}

func TestGetBranchAccessForUser_ExcludesDeletedBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")
	insertTestBook(t, s, "book-2", "Beta Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1", "book-2"}); err != nil {
		t.Fatalf("ReplaceBranchAccess: %v", err)
	}
	if err := s.DeleteBook(ctx, "book-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	refs, err := s.GetBranchAccessForUser(ctx, "staff-1")
	if err != nil {
		t.Fatalf("GetBranchAccessForUser: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 grant after book delete, got %d", len(refs))
	}
	if refs[0].ID != "book-2" {
		t.Errorf("remaining grant: got %q, want %q", refs[0].ID, "book-2")
	}
}

func TestGetUsersForBranch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestUser(t, s, "staff-2")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1"}); err != nil {
		t.Fatalf("ReplaceBranchAccess(staff-1): %v", err)
	}
	if err := s.ReplaceBranchAccess(ctx, "staff-2", []string{"book-1"}); err != nil {
		t.Fatalf("ReplaceBranchAccess(staff-2): %v", err)
	}

	users, err := s.GetUsersForBranch(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetUsersForBranch: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestHasBranchAccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "owner-1")
	insertTestUser(t, s, "staff-1")
	insertTestBook(t, s, "book-1", "Alpha Branch", "owner-1")
	insertTestBook(t, s, "book-2", "Beta Branch", "owner-1")

	if err := s.ReplaceBranchAccess(ctx, "staff-1", []string{"book-1"}); err != nil {
		t.Fatalf("ReplaceBranchAccess: %v", err)
	}

	ok, err := s.HasBranchAccess(ctx, "staff-1", "book-1")
	if err != nil {
		t.Fatalf("HasBranchAccess: %v", err)
	}
	if !ok {
		t.Error("expected access to book-1")
	}

	ok, err = s.HasBranchAccess(ctx, "staff-1", "book-2")
	if err != nil {
		t.Fatalf("HasBranchAccess: %v", err)
	}
	if ok {
		t.Error("expected no access to book-2")
	}
}
