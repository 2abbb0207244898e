// Package repo implements the persistence gateway for the streak bot,
// backed by GORM over SQLite (pure Go driver). This file contains database
// bootstrapping helpers and schema migration.
//
// Error semantics shared by all repository files:
//   - ErrNotFound (alias of gorm.ErrRecordNotFound) when a row is missing.
//   - Uniqueness violations surface as gorm.ErrDuplicatedKey thanks to
//     TranslateError; idempotent inserts trap it and report success.
//   - Any other DB error is propagated unchanged.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
// When traced is true, GORM query spans are exported through the global
// OpenTelemetry tracer provider.
func OpenSQLite(path string, traced bool) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true, // map driver unique-violations to gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if traced {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// AutoMigrate creates or updates the six bot tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Subscription{},
		&domain.TrackedUsername{},
		&domain.DailyProblem{},
		&domain.Completion{},
		&domain.SentMessage{},
		&domain.UserStreak{},
	)
}
