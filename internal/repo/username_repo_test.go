package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

func TestAddUsername_IdempotentDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.TrackedUsername{})
	ctx := context.Background()

	// Both inserts must report success; only one row may exist.
	for i := 0; i < 2; i++ {
		if err := AddUsername(ctx, db, 1, "alice"); err != nil {
			t.Fatalf("AddUsername attempt %d: %v", i+1, err)
		}
	}

	var n int64
	if err := db.Model(&domain.TrackedUsername{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 tracked row, got %d", n)
	}
}

func TestAddUsername_SameUserDifferentChats(t *testing.T) {
	db := newTestDB(t, &domain.TrackedUsername{})
	ctx := context.Background()

	if err := AddUsername(ctx, db, 1, "alice"); err != nil {
		t.Fatalf("chat 1: %v", err)
	}
	if err := AddUsername(ctx, db, 2, "alice"); err != nil {
		t.Fatalf("chat 2: %v", err)
	}

	var n int64
	if err := db.Model(&domain.TrackedUsername{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("uniqueness is per (chat, username); expected 2 rows, got %d", n)
	}
}

func TestRemoveUsername_OnlyTargetChat(t *testing.T) {
	db := newTestDB(t, &domain.TrackedUsername{})
	ctx := context.Background()

	_ = AddUsername(ctx, db, 1, "alice")
	_ = AddUsername(ctx, db, 2, "alice")

	if err := RemoveUsername(ctx, db, 1, "alice"); err != nil {
		t.Fatalf("RemoveUsername: %v", err)
	}

	got, err := ListChatUsernames(ctx, db, 2)
	if err != nil {
		t.Fatalf("ListChatUsernames: %v", err)
	}
	if len(got) != 1 || got[0] != "alice" {
		t.Fatalf("chat 2 tracking should be untouched, got %v", got)
	}
	got, err = ListChatUsernames(ctx, db, 1)
	if err != nil {
		t.Fatalf("ListChatUsernames: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("chat 1 should track nobody, got %v", got)
	}
}

func TestListChatUsernames_Lexicographic(t *testing.T) {
	db := newTestDB(t, &domain.TrackedUsername{})
	ctx := context.Background()

	for _, u := range []string{"carol", "alice", "bob"} {
		if err := AddUsername(ctx, db, 5, u); err != nil {
			t.Fatalf("seed %s: %v", u, err)
		}
	}

	got, err := ListChatUsernames(ctx, db, 5)
	if err != nil {
		t.Fatalf("ListChatUsernames: %v", err)
	}
	want := []string{"alice", "bob", "carol"}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func TestListAllUsernames_DeduplicatesAcrossChats(t *testing.T) {
	db := newTestDB(t, &domain.TrackedUsername{})
	ctx := context.Background()

	_ = AddUsername(ctx, db, 1, "alice")
	_ = AddUsername(ctx, db, 1, "bob")
	_ = AddUsername(ctx, db, 2, "alice")

	got, err := ListAllUsernames(ctx, db)
	if err != nil {
		t.Fatalf("ListAllUsernames: %v", err)
	}
	want := []string{"alice", "bob"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
