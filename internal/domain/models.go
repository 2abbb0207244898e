// Package domain defines the persistence models for chat subscriptions,
// tracked LeetCode usernames, cached daily problems, per-day completions,
// delivered report messages, and per-user streaks. These types are mapped
// with GORM and form the core data layer of the streak bot.
//
// Dates are stored as canonical "YYYY-MM-DD" UTC strings (see dateutil) and
// participate in primary/composite keys wherever a day is addressed.
package domain

import "time"

// Subscription marks a Telegram chat as enrolled for daily reports.
// The chat identifier itself is the primary key; a chat is subscribed
// exactly once.
type Subscription struct {
	ChatID    int64     `json:"chat_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

// TrackedUsername associates a LeetCode username with a subscribed chat.
// The (chat_id, username) pair is unique; inserting a duplicate is treated
// as success by the repository (idempotent add).
type TrackedUsername struct {
	ID        uint      `json:"id"       gorm:"primaryKey"`
	ChatID    int64     `json:"chat_id"  gorm:"not null;index;uniqueIndex:ux_tracked_chat_user"`
	Username  string    `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_tracked_chat_user"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for TrackedUsername.
func (TrackedUsername) TableName() string { return "tracked_usernames" }

// DailyProblem caches the LeetCode question of the day for one calendar
// date. Rows are written lazily the first time any caller needs "today's"
// problem and are immutable afterwards.
//
// Rating is the optional clist.by difficulty rating; nil when enrichment
// was disabled or found no match.
type DailyProblem struct {
	Date       string    `json:"date"        gorm:"type:char(10);primaryKey"`
	Title      string    `json:"title"       gorm:"type:varchar(255);not null"`
	TitleSlug  string    `json:"title_slug"  gorm:"type:varchar(255);not null"`
	QuestionID string    `json:"question_id" gorm:"type:varchar(16);not null"`
	Difficulty string    `json:"difficulty"  gorm:"type:varchar(16);not null"`
	URL        string    `json:"url"         gorm:"type:varchar(512);not null"`
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for DailyProblem.
func (DailyProblem) TableName() string { return "daily_problems" }

// Completion records whether a username solved the daily problem on a given
// date. One row per (date, username); Completed is monotonic for a date —
// once true it is never reset to false (the upsert enforces this at the
// SQL level so racing invocations cannot downgrade a solved row).
//
// SubmissionURL points at the accepted submission detail page when solved,
// nil otherwise.
type Completion struct {
	ID            uint      `json:"id"       gorm:"primaryKey"`
	Date          string    `json:"date"     gorm:"type:char(10);not null;uniqueIndex:ux_completion_date_user"`
	Username      string    `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_completion_date_user"`
	Completed     bool      `json:"completed" gorm:"not null"`
	SubmissionURL *string   `json:"submission_url,omitempty" gorm:"type:varchar(512)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Completion.
func (Completion) TableName() string { return "completions" }

// SentMessage records the report message delivered to a chat for one date.
// Text holds the exact rendered body so a re-render can detect no-op edits
// before touching the transport (Telegram rejects edits with unchanged
// content).
type SentMessage struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	Date      string    `json:"date"       gorm:"type:char(10);not null;uniqueIndex:ux_report_date_chat"`
	ChatID    int64     `json:"chat_id"    gorm:"not null;uniqueIndex:ux_report_date_chat"`
	MessageID int       `json:"message_id" gorm:"not null"`
	Text      string    `json:"text"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for SentMessage.
func (SentMessage) TableName() string { return "sent_messages" }

// UserStreak tracks consecutive-day solving for one username.
//
// Invariant: Max >= Current at all times. Expiry is lazy — a stored Current
// whose LastDate is older than yesterday is reported as 0 by readers, but
// the row is only rewritten by the next completion (see services).
type UserStreak struct {
	Username  string    `json:"username" gorm:"type:varchar(64);primaryKey"`
	Current   int       `json:"current"  gorm:"not null"`
	Max       int       `json:"max"      gorm:"not null"`
	LastDate  *string   `json:"last_date,omitempty" gorm:"type:char(10)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserStreak.
func (UserStreak) TableName() string { return "user_streaks" }
