package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

func TestSentMessage_UpsertKeepsSingleRow(t *testing.T) {
	db := newTestDB(t, &domain.SentMessage{})
	ctx := context.Background()

	if err := UpsertSentMessage(ctx, db, &domain.SentMessage{
		Date: "2024-06-11", ChatID: 1, MessageID: 100, Text: "v1",
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := UpsertSentMessage(ctx, db, &domain.SentMessage{
		Date: "2024-06-11", ChatID: 1, MessageID: 100, Text: "v2",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := GetSentMessage(ctx, db, "2024-06-11", 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "v2" || got.MessageID != 100 {
		t.Fatalf("upsert did not refresh text: %+v", got)
	}

	var n int64
	if err := db.Model(&domain.SentMessage{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one row per (date, chat), got %d", n)
	}
}

func TestGetSentMessage_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.SentMessage{})
	_, err := GetSentMessage(context.Background(), db, "2024-06-11", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestSentMessageBefore(t *testing.T) {
	db := newTestDB(t, &domain.SentMessage{})
	ctx := context.Background()

	seed := []domain.SentMessage{
		{Date: "2024-06-08", ChatID: 1, MessageID: 80, Text: "a"},
		{Date: "2024-06-10", ChatID: 1, MessageID: 90, Text: "b"},
		{Date: "2024-06-11", ChatID: 1, MessageID: 95, Text: "today"},
		{Date: "2024-06-10", ChatID: 2, MessageID: 70, Text: "other chat"},
	}
	for i := range seed {
		if err := UpsertSentMessage(ctx, db, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	got, err := LatestSentMessageBefore(ctx, db, 1, "2024-06-11")
	if err != nil {
		t.Fatalf("LatestSentMessageBefore: %v", err)
	}
	if got.Date != "2024-06-10" || got.MessageID != 90 {
		t.Fatalf("expected the 06-10 report for chat 1, got %+v", got)
	}

	if _, err := LatestSentMessageBefore(ctx, db, 1, "2024-06-08"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first report, got %v", err)
	}
}
