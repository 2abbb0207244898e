// Package services – ProblemService
//
// Resolve implements the lookup-or-create contract for the daily-problem
// cache. The scheduled job and the on-demand /daily command may both race
// through it for the same date; the conflict-free insert plus the re-read
// guarantee every caller observes the single winning row and the metadata
// provider is hit at most once per invocation that misses the cache.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-streak-bot/internal/domain"
	"github.com/tbourn/go-streak-bot/internal/leetcode"
	"github.com/tbourn/go-streak-bot/internal/repo"
)

// DailySource fetches the active daily challenge question.
type DailySource interface {
	DailyProblem(ctx context.Context) (*leetcode.Problem, error)
}

// RatingSource looks up an optional difficulty rating for a problem slug.
// A nil rating without error means "no rating available".
type RatingSource interface {
	ProblemRating(ctx context.Context, slug string) (*int, error)
}

// ProblemService resolves the problem of the day, caching it in the store.
type ProblemService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Daily is the problem-metadata provider.
	Daily DailySource
	// Ratings is the optional enrichment provider; may be nil.
	Ratings RatingSource
}

// Resolve returns the daily problem for the canonical date, fetching and
// caching it on first use. Rating enrichment is best-effort: its failures
// are logged as warnings and never propagate.
func (s *ProblemService) Resolve(ctx context.Context, date string) (*domain.DailyProblem, error) {
	cached, err := repo.GetDailyProblem(ctx, s.DB, date)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup daily problem: %w", err)
	}

	fetched, err := s.Daily.DailyProblem(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch daily problem: %w", err)
	}

	var rating *int
	if s.Ratings != nil {
		rating, err = s.Ratings.ProblemRating(ctx, fetched.TitleSlug)
		if err != nil {
			log.Warn().Err(err).Str("slug", fetched.TitleSlug).Msg("difficulty rating lookup failed")
			rating = nil
		}
	}

	row := &domain.DailyProblem{
		Date:       date,
		Title:      fetched.Title,
		TitleSlug:  fetched.TitleSlug,
		QuestionID: fetched.QuestionID,
		Difficulty: fetched.Difficulty,
		URL:        fetched.URL,
		Rating:     rating,
	}
	if err := repo.InsertDailyProblem(ctx, s.DB, row); err != nil {
		return nil, fmt.Errorf("cache daily problem: %w", err)
	}

	// Re-read so a racing writer's row (first writer wins) is what every
	// caller reports from here on.
	return repo.GetDailyProblem(ctx, s.DB, date)
}
