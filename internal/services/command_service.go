// Package services – CommandService
//
// Chat command semantics, one method per inbound command. Username add and
// remove require an active subscription; subscribe and unsubscribe are
// idempotent. Mapping of errors to reply strings lives in the transport
// layer, keeping these methods reusable and easy to test.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-streak-bot/internal/dateutil"
	"github.com/tbourn/go-streak-bot/internal/repo"
)

// usernamePattern matches LeetCode usernames: letters, digits, hyphen,
// underscore, bounded length.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,39}$`)

// CommandService implements the inbound chat commands.
type CommandService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Problems resolves the daily problem for the /daily command.
	Problems *ProblemService
}

// Subscribe enrolls the chat for daily reports. Re-subscribing is a no-op.
func (s *CommandService) Subscribe(ctx context.Context, chatID int64) error {
	return repo.CreateSubscription(ctx, s.DB, chatID)
}

// Unsubscribe removes the chat's enrollment. Tracked usernames are kept so
// a later re-subscribe resumes where the chat left off.
func (s *CommandService) Unsubscribe(ctx context.Context, chatID int64) error {
	return repo.DeleteSubscription(ctx, s.DB, chatID)
}

// AddUsername starts tracking a LeetCode username for the chat.
// The chat must be subscribed; duplicate adds succeed silently.
func (s *CommandService) AddUsername(ctx context.Context, chatID int64, username string) error {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	subscribed, err := repo.IsSubscribed(ctx, s.DB, chatID)
	if err != nil {
		return fmt.Errorf("check subscription: %w", err)
	}
	if !subscribed {
		return ErrNotSubscribed
	}
	return repo.AddUsername(ctx, s.DB, chatID, username)
}

// RemoveUsername stops tracking a LeetCode username for the chat.
func (s *CommandService) RemoveUsername(ctx context.Context, chatID int64, username string) error {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	subscribed, err := repo.IsSubscribed(ctx, s.DB, chatID)
	if err != nil {
		return fmt.Errorf("check subscription: %w", err)
	}
	if !subscribed {
		return ErrNotSubscribed
	}
	return repo.RemoveUsername(ctx, s.DB, chatID, username)
}

// DailyAnnouncement resolves today's problem (fetching and caching it if
// needed) and renders the announcement block for the /daily command.
func (s *CommandService) DailyAnnouncement(ctx context.Context, now time.Time) (string, error) {
	problem, err := s.Problems.Resolve(ctx, dateutil.Canonical(now))
	if err != nil {
		return "", err
	}
	return problemHeader(problem), nil
}
