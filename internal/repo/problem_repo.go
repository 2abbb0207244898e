// Package repo – cached daily problems.
//
// DailyProblem rows are immutable once written: InsertDailyProblem is
// conflict-free so the scheduled job and an on-demand /daily command may
// both attempt the first write for a date without coordination.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// GetDailyProblem fetches the cached problem for a canonical date.
// Returns ErrNotFound when no row exists yet.
func GetDailyProblem(ctx context.Context, db *gorm.DB, date string) (*domain.DailyProblem, error) {
	var p domain.DailyProblem
	if err := db.WithContext(ctx).Where("date = ?", date).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertDailyProblem caches p. If a row for p.Date already exists the insert
// is silently skipped — first writer wins, matching the immutability
// contract of the cache.
func InsertDailyProblem(ctx context.Context, db *gorm.DB, p *domain.DailyProblem) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
