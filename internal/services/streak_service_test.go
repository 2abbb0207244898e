package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-streak-bot/internal/domain"
	"github.com/tbourn/go-streak-bot/internal/repo"
)

// newServiceDB opens a migrated temp database. Shared by all service tests.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustStreak(t *testing.T, db *gorm.DB, username string) *domain.UserStreak {
	t.Helper()
	s, err := repo.GetStreak(context.Background(), db, username)
	if err != nil {
		t.Fatalf("GetStreak(%s): %v", username, err)
	}
	return s
}

func TestStreakApply_FirstCompletion(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}

	if err := svc.Apply(context.Background(), "alice", "2024-06-10"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s := mustStreak(t, db, "alice")
	if s.Current != 1 || s.Max != 1 || s.LastDate == nil || *s.LastDate != "2024-06-10" {
		t.Fatalf("unexpected streak after first completion: %+v", s)
	}
}

func TestStreakApply_ConsecutiveDayIncrements(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}
	ctx := context.Background()

	// Seed current=5 ending 2024-06-10, as in the continuity property.
	d := "2024-06-10"
	if err := repo.UpsertStreak(ctx, db, &domain.UserStreak{
		Username: "alice", Current: 5, Max: 5, LastDate: &d,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Apply(ctx, "alice", "2024-06-11"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s := mustStreak(t, db, "alice")
	if s.Current != 6 || s.Max != 6 {
		t.Fatalf("expected 6/6 after consecutive day, got %d/%d", s.Current, s.Max)
	}
}

func TestStreakApply_GapResetsToOne(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}
	ctx := context.Background()

	d := "2024-06-10"
	_ = repo.UpsertStreak(ctx, db, &domain.UserStreak{
		Username: "alice", Current: 5, Max: 7, LastDate: &d,
	})

	if err := svc.Apply(ctx, "alice", "2024-06-13"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s := mustStreak(t, db, "alice")
	if s.Current != 1 {
		t.Fatalf("expected reset to 1 after gap, got %d", s.Current)
	}
	if s.Max != 7 {
		t.Fatalf("max must never decrease, got %d", s.Max)
	}
}

func TestStreakApply_SameDateIsNoOp(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}
	ctx := context.Background()

	if err := svc.Apply(ctx, "alice", "2024-06-11"); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if err := svc.Apply(ctx, "alice", "2024-06-11"); err != nil {
		t.Fatalf("re-entrant Apply: %v", err)
	}
	s := mustStreak(t, db, "alice")
	if s.Current != 1 || s.Max != 1 {
		t.Fatalf("re-entry must not double count: %+v", s)
	}
}

func TestStreakEffective_LazyExpiryDoesNotMutate(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}
	ctx := context.Background()

	d := "2024-06-10"
	_ = repo.UpsertStreak(ctx, db, &domain.UserStreak{
		Username: "alice", Current: 5, Max: 5, LastDate: &d,
	})

	current, max, err := svc.Effective(ctx, "alice", "2024-06-13")
	if err != nil {
		t.Fatalf("Effective: %v", err)
	}
	if current != 0 {
		t.Fatalf("expired streak should read 0, got %d", current)
	}
	if max != 5 {
		t.Fatalf("max should survive expiry, got %d", max)
	}

	// Storage unchanged: expiry is read-time only.
	s := mustStreak(t, db, "alice")
	if s.Current != 5 || s.LastDate == nil || *s.LastDate != "2024-06-10" {
		t.Fatalf("read mutated storage: %+v", s)
	}
}

func TestStreakEffective_TodayAndYesterdayCount(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}
	ctx := context.Background()

	d := "2024-06-10"
	_ = repo.UpsertStreak(ctx, db, &domain.UserStreak{
		Username: "alice", Current: 3, Max: 4, LastDate: &d,
	})

	for _, today := range []string{"2024-06-10", "2024-06-11"} {
		current, _, err := svc.Effective(ctx, "alice", today)
		if err != nil {
			t.Fatalf("Effective(%s): %v", today, err)
		}
		if current != 3 {
			t.Fatalf("Effective(%s) = %d, want 3", today, current)
		}
	}
}

func TestStreakEffective_UnknownUser(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}

	current, max, err := svc.Effective(context.Background(), "nobody", "2024-06-11")
	if err != nil || current != 0 || max != 0 {
		t.Fatalf("unknown user should read (0, 0, nil), got (%d, %d, %v)", current, max, err)
	}
}

func TestStreakMaxMonotonicAcrossWrites(t *testing.T) {
	db := newServiceDB(t)
	svc := &StreakService{DB: db}
	ctx := context.Background()

	dates := []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-10", "2024-06-11"}
	lastMax := 0
	for _, d := range dates {
		if err := svc.Apply(ctx, "alice", d); err != nil {
			t.Fatalf("Apply(%s): %v", d, err)
		}
		s := mustStreak(t, db, "alice")
		if s.Max < lastMax {
			t.Fatalf("max decreased from %d to %d after %s", lastMax, s.Max, d)
		}
		if s.Max < s.Current {
			t.Fatalf("invariant max >= current violated: %+v", s)
		}
		lastMax = s.Max
	}
	// 3-day run then a gap pair: final current 2, max 3.
	s := mustStreak(t, db, "alice")
	if s.Current != 2 || s.Max != 3 {
		t.Fatalf("expected current=2 max=3, got %d/%d", s.Current, s.Max)
	}
}
