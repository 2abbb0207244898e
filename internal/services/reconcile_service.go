// Package services – ReconcileService
//
// One invocation of Run reconciles a single UTC calendar day end to end:
// resolve the daily problem, determine completion for every tracked username
// (deduplicated across chats), persist completions and streaks, then deliver
// one report per subscribed chat with edit-in-place idempotence.
//
// The service holds no state across invocations; everything is rebuilt from
// the store, so the scheduled trigger and on-demand invocations may overlap
// freely. Per-username and per-chat failures are isolated: they are logged
// and skipped, never fatal to the rest of the cycle.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-streak-bot/internal/dateutil"
	"github.com/tbourn/go-streak-bot/internal/domain"
	"github.com/tbourn/go-streak-bot/internal/leetcode"
	"github.com/tbourn/go-streak-bot/internal/repo"
	"github.com/tbourn/go-streak-bot/internal/telegram"
)

var (
	// reconcileUsers counts per-user reconciliation outcomes.
	reconcileUsers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_users_total",
			Help: "Tracked usernames processed per outcome (solved, unsolved, skipped, error).",
		},
		[]string{"outcome"},
	)

	// reconcileReports counts per-chat report delivery outcomes.
	reconcileReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_reports_total",
			Help: "Chat reports processed per outcome (sent, edited, unchanged, error).",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(reconcileUsers, reconcileReports)
}

// SubmissionSource fetches a user's recent accepted submissions.
type SubmissionSource interface {
	RecentAccepted(ctx context.Context, username string, limit int) ([]leetcode.Submission, error)
}

// Transport is the subset of the chat transport the workflow consumes.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error
	PinChatMessage(ctx context.Context, chatID int64, messageID int) error
	UnpinChatMessage(ctx context.Context, chatID int64, messageID int) error
}

// ReconcileService runs the daily completion/streak/report workflow.
type ReconcileService struct {
	DB          *gorm.DB
	Problems    *ProblemService
	Streaks     *StreakService
	Submissions SubmissionSource
	Transport   Transport

	// FetchLimit bounds the recent-submission window per user; values <= 0
	// fall back to 20.
	FetchLimit int
}

// Run reconciles the calendar day containing now (in UTC). It returns an
// error only for failures that invalidate the whole cycle (problem
// resolution, listing usernames or chats); everything narrower is logged
// and skipped.
func (s *ReconcileService) Run(ctx context.Context, now time.Time) error {
	date := dateutil.Canonical(now)

	problem, err := s.Problems.Resolve(ctx, date)
	if err != nil {
		return fmt.Errorf("resolve problem for %s: %w", date, err)
	}

	usernames, err := repo.ListAllUsernames(ctx, s.DB)
	if err != nil {
		return fmt.Errorf("list tracked usernames: %w", err)
	}
	for _, username := range usernames {
		if err := s.reconcileUser(ctx, date, problem, username); err != nil {
			reconcileUsers.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("username", username).Str("date", date).
				Msg("user reconciliation failed, skipping")
		}
	}

	chats, err := repo.ListSubscriptions(ctx, s.DB)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	for _, chatID := range chats {
		if err := s.deliverReport(ctx, date, problem, chatID); err != nil {
			reconcileReports.WithLabelValues("error").Inc()
			log.Error().Err(err).Int64("chat_id", chatID).Str("date", date).
				Msg("report delivery failed, skipping")
		}
	}
	return nil
}

// reconcileUser brings one username's completion and streak up to date.
// Users already recorded as solved are skipped without a provider call.
func (s *ReconcileService) reconcileUser(ctx context.Context, date string, problem *domain.DailyProblem, username string) error {
	existing, err := repo.GetCompletion(ctx, s.DB, date, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("load completion: %w", err)
	}
	if existing != nil && existing.Completed {
		reconcileUsers.WithLabelValues("skipped").Inc()
		return nil
	}

	limit := s.FetchLimit
	if limit <= 0 {
		limit = 20
	}
	subs, err := s.Submissions.RecentAccepted(ctx, username, limit)
	if err != nil {
		return fmt.Errorf("fetch submissions: %w", err)
	}

	var submissionURL *string
	solved := false
	for _, sub := range subs {
		if sub.TitleSlug == problem.TitleSlug {
			solved = true
			u := leetcode.SubmissionURL(sub.ID)
			submissionURL = &u
			break
		}
	}

	if err := repo.UpsertCompletion(ctx, s.DB, &domain.Completion{
		Date:          date,
		Username:      username,
		Completed:     solved,
		SubmissionURL: submissionURL,
	}); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}

	if solved {
		if err := s.Streaks.Apply(ctx, username, date); err != nil {
			return fmt.Errorf("update streak: %w", err)
		}
		reconcileUsers.WithLabelValues("solved").Inc()
	} else {
		reconcileUsers.WithLabelValues("unsolved").Inc()
	}
	return nil
}

// deliverReport renders and delivers one chat's report, editing the existing
// message in place when one was already sent for the date and skipping the
// transport entirely when the rendered text is unchanged.
func (s *ReconcileService) deliverReport(ctx context.Context, date string, problem *domain.DailyProblem, chatID int64) error {
	usernames, err := repo.ListChatUsernames(ctx, s.DB, chatID)
	if err != nil {
		return fmt.Errorf("list chat usernames: %w", err)
	}

	entries := make([]ReportEntry, 0, len(usernames))
	for _, username := range usernames {
		entry := ReportEntry{Username: username}
		completion, err := repo.GetCompletion(ctx, s.DB, date, username)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("load completion for %s: %w", username, err)
		}
		if completion != nil {
			entry.Completed = completion.Completed
			entry.SubmissionURL = completion.SubmissionURL
		}
		current, _, err := s.Streaks.Effective(ctx, username, date)
		if err != nil {
			return err
		}
		entry.Streak = current
		entries = append(entries, entry)
	}

	text := RenderReport(problem, entries)

	existing, err := repo.GetSentMessage(ctx, s.DB, date, chatID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("load sent message: %w", err)
	}

	if existing != nil {
		if existing.Text == text {
			reconcileReports.WithLabelValues("unchanged").Inc()
			return nil
		}
		err := s.Transport.EditMessageText(ctx, chatID, existing.MessageID, text)
		switch {
		case err == nil:
			// fall through to persist
		case errors.Is(err, telegram.ErrNotModified):
			// Stored text was stale but the chat already shows the new body;
			// persist anyway to resync.
			log.Warn().Int64("chat_id", chatID).Str("date", date).
				Msg("edit reported no-op, resyncing stored text")
		default:
			return fmt.Errorf("edit report: %w", err)
		}
		if err := repo.UpsertSentMessage(ctx, s.DB, &domain.SentMessage{
			Date: date, ChatID: chatID, MessageID: existing.MessageID, Text: text,
		}); err != nil {
			return fmt.Errorf("persist edited report: %w", err)
		}
		reconcileReports.WithLabelValues("edited").Inc()
		return nil
	}

	// First report of the day for this chat: retire the previous pin.
	if prev, err := repo.LatestSentMessageBefore(ctx, s.DB, chatID, date); err == nil {
		if err := s.Transport.UnpinChatMessage(ctx, chatID, prev.MessageID); err != nil {
			log.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", prev.MessageID).
				Msg("unpin of previous report failed")
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("lookup previous report: %w", err)
	}

	messageID, err := s.Transport.SendMessage(ctx, chatID, text)
	if err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	if err := repo.UpsertSentMessage(ctx, s.DB, &domain.SentMessage{
		Date: date, ChatID: chatID, MessageID: messageID, Text: text,
	}); err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	if err := s.Transport.PinChatMessage(ctx, chatID, messageID); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).
			Msg("pin of new report failed")
	}
	reconcileReports.WithLabelValues("sent").Inc()
	return nil
}
