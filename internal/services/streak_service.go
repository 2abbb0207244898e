// Package services – StreakService
//
// Streak rules:
//
//   - On write (a completion for date D): if the stored last-completed date
//     already equals D the write is a no-op (idempotent re-entry). Otherwise
//     the streak becomes stored+1 when the stored date is exactly the day
//     before D, else it resets to 1. Max is maintained alongside.
//   - On read: a stored streak whose last-completed date is neither the
//     reference day nor the day before reads as 0. Expiry is lazy — the row
//     itself is only rewritten by the next completion, so concurrent readers
//     never race on storage.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-streak-bot/internal/dateutil"
	"github.com/tbourn/go-streak-bot/internal/domain"
	"github.com/tbourn/go-streak-bot/internal/repo"
)

// StreakService owns streak arithmetic on top of the streak repository.
type StreakService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Apply records a completion for username on the canonical date. It is safe
// to call again for the same (username, date); the second call is a no-op.
func (s *StreakService) Apply(ctx context.Context, username, date string) error {
	prev, err := dateutil.Previous(date)
	if err != nil {
		return err
	}

	stored, err := repo.GetStreak(ctx, s.DB, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("load streak for %s: %w", username, err)
	}

	next := &domain.UserStreak{Username: username, Current: 1, Max: 1}
	if stored != nil {
		if stored.LastDate != nil && *stored.LastDate == date {
			return nil // already counted today
		}
		if stored.LastDate != nil && *stored.LastDate == prev {
			next.Current = stored.Current + 1
		}
		next.Max = stored.Max
		next.CreatedAt = stored.CreatedAt
	}
	if next.Current > next.Max {
		next.Max = next.Current
	}
	d := date
	next.LastDate = &d

	return repo.UpsertStreak(ctx, s.DB, next)
}

// Effective returns the streak as it should be reported for the reference
// day: (current, max). A user with no streak row reads as (0, 0).
func (s *StreakService) Effective(ctx context.Context, username, today string) (int, int, error) {
	stored, err := repo.GetStreak(ctx, s.DB, username)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("load streak for %s: %w", username, err)
	}
	return effectiveCurrent(stored, today), stored.Max, nil
}

// effectiveCurrent applies the lazy-expiry read rule to a stored streak row.
func effectiveCurrent(s *domain.UserStreak, today string) int {
	if s.LastDate == nil {
		return 0
	}
	if *s.LastDate == today {
		return s.Current
	}
	if prev, err := dateutil.Previous(today); err == nil && *s.LastDate == prev {
		return s.Current
	}
	return 0
}
