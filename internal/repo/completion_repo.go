// Package repo – per-day completion records.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// GetCompletion fetches the completion row for (date, username).
// Returns ErrNotFound when the user has not been reconciled for that date.
func GetCompletion(ctx context.Context, db *gorm.DB, date, username string) (*domain.Completion, error) {
	var c domain.Completion
	err := db.WithContext(ctx).
		Where("date = ? AND username = ?", date, username).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertCompletion inserts or updates the completion row keyed on
// (date, username).
//
// The conflict assignments keep Completed monotonic for a date: a row that
// already reads true can never be flipped back to false by a slower
// concurrent invocation, and a recorded submission URL is never erased by
// a nil one.
func UpsertCompletion(ctx context.Context, db *gorm.DB, c *domain.Completion) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}, {Name: "username"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed":      gorm.Expr("completions.completed OR excluded.completed"),
				"submission_url": gorm.Expr("COALESCE(excluded.submission_url, completions.submission_url)"),
				"updated_at":     now,
			}),
		}).
		Create(c).Error
}
