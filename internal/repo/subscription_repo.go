// Package repo implements the persistence gateway for the streak bot,
// backed by GORM. This file provides repository functions for chat
// subscriptions.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// IsSubscribed reports whether chatID has an active subscription.
func IsSubscribed(ctx context.Context, db *gorm.DB, chatID int64) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("chat_id = ?", chatID).
		Count(&n).Error
	return n > 0, err
}

// CreateSubscription enrolls chatID for daily reports. Subscribing a chat
// that is already enrolled is a no-op reported as success.
func CreateSubscription(ctx context.Context, db *gorm.DB, chatID int64) error {
	sub := &domain.Subscription{ChatID: chatID, CreatedAt: time.Now().UTC()}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// DeleteSubscription removes chatID's enrollment. Deleting a chat that was
// never subscribed is not an error.
func DeleteSubscription(ctx context.Context, db *gorm.DB, chatID int64) error {
	return db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Delete(&domain.Subscription{}).Error
}

// ListSubscriptions returns every subscribed chat id, oldest first so report
// delivery order is stable across runs.
func ListSubscriptions(ctx context.Context, db *gorm.DB) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Order("created_at asc").
		Pluck("chat_id", &ids).Error
	return ids, err
}
