package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestTokenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Get on empty store", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))

		token, ok, err := repo.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || token != "" {
			t.Errorf("expected no token, got %q (ok=%v)", token, ok)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))

		if err := repo.Set(ctx, "tok1"); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}
		if err := repo.Set(ctx, "tok2"); err != nil {
			t.Fatalf("failed to overwrite token: %v", err)
		}

		token, ok, err := repo.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || token != "tok2" {
			t.Errorf("expected tok2, got %q (ok=%v)", token, ok)
		}

		at, err := repo.UpdatedAt(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if at.IsZero() {
			t.Error("expected updated_at to be set")
		}
	})

	t.Run("empty token is stored as-is", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))

		if err := repo.Set(ctx, ""); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}

		token, ok, err := repo.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || token != "" {
			t.Errorf("expected stored empty token, got %q (ok=%v)", token, ok)
		}
	})

	t.Run("Clear is idempotent", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))

		if err := repo.Set(ctx, "tok"); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}
		for range 2 {
			if err := repo.Clear(ctx); err != nil {
				t.Fatalf("failed to clear token: %v", err)
			}
		}

		if _, ok, _ := repo.Get(ctx); ok {
			t.Error("expected token to be cleared")
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTokenRepository(db)
		db.Close()

		if _, _, err := repo.Get(ctx); err == nil {
			t.Error("expected error from closed database")
		}
		if err := repo.Set(ctx, "x"); err == nil {
			t.Error("expected error from closed database")
		}
	})
}

func TestPlayRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Record", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		play := &models.Play{TrackID: "t1", TrackName: "One", Artist: "A", PlayedAt: base}

		if err := repo.Record(ctx, play); err != nil {
			t.Fatalf("failed to record play: %v", err)
		}
		if play.ID == "" {
			t.Error("play ID should be set after insert")
		}

		if err := repo.Record(ctx, &models.Play{TrackName: "no id", PlayedAt: base}); err == nil {
			t.Error("expected validation error for missing track id")
		}
	})

	t.Run("RecordIfNew skips repeats", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))

		steps := []struct {
			track string
			want  bool
		}{
			{"t1", true},
			{"t1", false},
			{"t2", true},
			{"t1", true},
		}
		for i, s := range steps {
			play := &models.Play{TrackID: s.track, TrackName: s.track, PlayedAt: base.Add(time.Duration(i) * time.Minute)}
			got, err := repo.RecordIfNew(ctx, play)
			if err != nil {
				t.Fatalf("step %d: unexpected error: %v", i, err)
			}
			if got != s.want {
				t.Errorf("step %d: expected recorded=%v, got %v", i, s.want, got)
			}
		}

		plays, err := repo.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list plays: %v", err)
		}
		if len(plays) != 3 {
			t.Fatalf("expected 3 plays, got %d", len(plays))
		}
		if plays[0].TrackID != "t1" || plays[1].TrackID != "t2" {
			t.Errorf("expected newest first, got %s then %s", plays[0].TrackID, plays[1].TrackID)
		}
	})

	t.Run("DailyCounts", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))

		times := []time.Time{
			base.AddDate(0, 0, -40),
			base.AddDate(0, 0, -1),
			base.AddDate(0, 0, -1).Add(time.Hour),
			base,
		}
		for i, at := range times {
			play := &models.Play{TrackID: "t", TrackName: "t", PlayedAt: at}
			if err := repo.Record(ctx, play); err != nil {
				t.Fatalf("play %d: %v", i, err)
			}
		}

		counts, err := repo.DailyCounts(ctx, base.AddDate(0, 0, -30), time.UTC)
		if err != nil {
			t.Fatalf("failed to count plays: %v", err)
		}

		if got := counts["2025-03-09"]; got != 2 {
			t.Errorf("expected 2 plays on 2025-03-09, got %d", got)
		}
		if got := counts["2025-03-10"]; got != 1 {
			t.Errorf("expected 1 play on 2025-03-10, got %d", got)
		}
		if len(counts) != 2 {
			t.Errorf("expected plays outside the window to be excluded, got %v", counts)
		}
	})

	t.Run("Prune", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))

		for i, at := range []time.Time{base.AddDate(-2, 0, 0), base} {
			if err := repo.Record(ctx, &models.Play{TrackID: "t", TrackName: "t", PlayedAt: at}); err != nil {
				t.Fatalf("play %d: %v", i, err)
			}
		}

		n, err := repo.Prune(ctx, base.AddDate(-1, 0, 0))
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned play, got %d", n)
		}
	})
}
