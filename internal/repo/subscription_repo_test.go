package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

func TestSubscriptionLifecycle(t *testing.T) {
	db := newTestDB(t, &domain.Subscription{})
	ctx := context.Background()

	sub, err := IsSubscribed(ctx, db, 42)
	if err != nil || sub {
		t.Fatalf("fresh chat should not be subscribed: sub=%v err=%v", sub, err)
	}

	if err := CreateSubscription(ctx, db, 42); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	sub, err = IsSubscribed(ctx, db, 42)
	if err != nil || !sub {
		t.Fatalf("chat should be subscribed after create: sub=%v err=%v", sub, err)
	}

	if err := DeleteSubscription(ctx, db, 42); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}
	sub, err = IsSubscribed(ctx, db, 42)
	if err != nil || sub {
		t.Fatalf("chat should be unsubscribed after delete: sub=%v err=%v", sub, err)
	}
}

func TestCreateSubscription_IdempotentOnDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Subscription{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := CreateSubscription(ctx, db, 7); err != nil {
			t.Fatalf("CreateSubscription attempt %d: %v", i+1, err)
		}
	}

	var n int64
	if err := db.Model(&domain.Subscription{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 subscription row, got %d", n)
	}
}

func TestDeleteSubscription_MissingIsNotAnError(t *testing.T) {
	db := newTestDB(t, &domain.Subscription{})
	if err := DeleteSubscription(context.Background(), db, 999); err != nil {
		t.Fatalf("deleting a never-subscribed chat should succeed: %v", err)
	}
}

func TestListSubscriptions_StableOrder(t *testing.T) {
	db := newTestDB(t, &domain.Subscription{})
	ctx := context.Background()

	for _, id := range []int64{30, 10, 20} {
		if err := CreateSubscription(ctx, db, id); err != nil {
			t.Fatalf("seed %d: %v", id, err)
		}
	}

	ids, err := ListSubscriptions(ctx, db)
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(ids))
	}
	// Insertion order is preserved (created_at asc).
	if ids[0] != 30 || ids[1] != 10 || ids[2] != 20 {
		t.Fatalf("unexpected order: %v", ids)
	}
}
