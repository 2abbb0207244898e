// Package repo – per-user streak counters.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// GetStreak fetches the streak row for username.
// Returns ErrNotFound for users who have never completed a problem.
func GetStreak(ctx context.Context, db *gorm.DB, username string) (*domain.UserStreak, error) {
	var s domain.UserStreak
	if err := db.WithContext(ctx).Where("username = ?", username).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertStreak overwrites the streak row keyed on username. The caller
// (services.StreakService) owns the arithmetic; this function only persists.
func UpsertStreak(ctx context.Context, db *gorm.DB, s *domain.UserStreak) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"current", "max", "last_date", "updated_at"}),
		}).
		Create(s).Error
}
