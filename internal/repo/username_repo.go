// Package repo – tracked LeetCode usernames.
//
// AddUsername implements the idempotence contract from the persistence
// design: a duplicate (chat_id, username) insert is trapped via the typed
// gorm.ErrDuplicatedKey classification and reported as success, never by
// matching error message text.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// AddUsername tracks username for chatID. Adding an already-tracked
// username succeeds without creating a second row.
func AddUsername(ctx context.Context, db *gorm.DB, chatID int64, username string) error {
	row := &domain.TrackedUsername{
		ChatID:    chatID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// RemoveUsername stops tracking username for chatID. Removing an untracked
// username is not an error.
func RemoveUsername(ctx context.Context, db *gorm.DB, chatID int64, username string) error {
	return db.WithContext(ctx).
		Where("chat_id = ? AND username = ?", chatID, username).
		Delete(&domain.TrackedUsername{}).Error
}

// ListChatUsernames returns the usernames tracked by one chat in
// lexicographic order (the order reports are rendered in).
func ListChatUsernames(ctx context.Context, db *gorm.DB, chatID int64) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Model(&domain.TrackedUsername{}).
		Where("chat_id = ?", chatID).
		Order("username asc").
		Pluck("username", &names).Error
	return names, err
}

// ListAllUsernames returns the deduplicated union of usernames tracked by
// any chat, in lexicographic order. The reconciliation workflow uses this
// so a user tracked in several chats is fetched exactly once per day.
func ListAllUsernames(ctx context.Context, db *gorm.DB) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Model(&domain.TrackedUsername{}).
		Distinct("username").
		Order("username asc").
		Pluck("username", &names).Error
	return names, err
}
