// Package repo – delivered report messages.
//
// One SentMessage row exists per (date, chat). The stored text is the exact
// rendered body, letting the workflow detect byte-identical re-renders and
// skip the transport entirely (Telegram rejects no-op edits).
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// GetSentMessage fetches the report row for (date, chatID).
// Returns ErrNotFound when no report has been delivered yet.
func GetSentMessage(ctx context.Context, db *gorm.DB, date string, chatID int64) (*domain.SentMessage, error) {
	var m domain.SentMessage
	err := db.WithContext(ctx).
		Where("date = ? AND chat_id = ?", date, chatID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertSentMessage records (or refreshes) the report delivered to a chat
// for one date. On conflict the message id and text are replaced, so an
// in-place edit keeps the stored body in sync with the chat.
func UpsertSentMessage(ctx context.Context, db *gorm.DB, m *domain.SentMessage) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"message_id", "text", "updated_at"}),
		}).
		Create(m).Error
}

// LatestSentMessageBefore returns the most recent report sent to chatID on
// any date strictly earlier than date, or ErrNotFound. Used to unpin the
// previous day's report before pinning a new one.
func LatestSentMessageBefore(ctx context.Context, db *gorm.DB, chatID int64, date string) (*domain.SentMessage, error) {
	var m domain.SentMessage
	err := db.WithContext(ctx).
		Where("chat_id = ? AND date < ?", chatID, date).
		Order("date desc").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
