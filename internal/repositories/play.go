package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// DateLayout keys the per-day counts returned by [PlayRepository.DailyCounts].
const DateLayout = "2006-01-02"

// PlayRepository stores plays observed by the now-playing poll.
type PlayRepository struct {
	db *sql.DB
}

// NewPlayRepository creates a new [PlayRepository] with the given database connection
func NewPlayRepository(db *sql.DB) *PlayRepository {
	return &PlayRepository{db: db}
}

// Record inserts play with a generated id.
func (r *PlayRepository) Record(ctx context.Context, play *models.Play) error {
	if err := play.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	play.ID = shared.GenerateID()

	query := `INSERT INTO plays (id, track_id, track_name, artist, played_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, play.ID, play.TrackID, play.TrackName, play.Artist, play.PlayedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}
	return nil
}

// RecordIfNew inserts play unless the most recent recorded play is the same track.
//
// Returns whether a row was written.
func (r *PlayRepository) RecordIfNew(ctx context.Context, play *models.Play) (bool, error) {
	if err := play.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	recorded := false
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var last string
		err := tx.QueryRowContext(ctx, "SELECT track_id FROM plays ORDER BY played_at DESC LIMIT 1").Scan(&last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to query last play: %w", err)
		}
		if last == play.TrackID {
			return nil
		}

		play.ID = shared.GenerateID()
		query := `INSERT INTO plays (id, track_id, track_name, artist, played_at) VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query, play.ID, play.TrackID, play.TrackName, play.Artist, play.PlayedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert play: %w", err)
		}
		recorded = true
		return nil
	})
	return recorded, err
}

// Recent returns up to limit plays, newest first.
func (r *PlayRepository) Recent(ctx context.Context, limit int) ([]models.Play, error) {
	query := `
		SELECT id, track_id, track_name, artist, played_at
		FROM plays
		ORDER BY played_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []models.Play
	for rows.Next() {
		var p models.Play
		if err := rows.Scan(&p.ID, &p.TrackID, &p.TrackName, &p.Artist, &p.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plays: %w", err)
	}
	return plays, nil
}

// DailyCounts returns the number of plays per calendar day in loc for plays at or after since.
//
// Keys use [DateLayout].
func (r *PlayRepository) DailyCounts(ctx context.Context, since time.Time, loc *time.Location) (map[string]int, error) {
	if loc == nil {
		loc = time.Local
	}

	rows, err := r.db.QueryContext(ctx, "SELECT played_at FROM plays WHERE played_at >= ?", since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		counts[at.In(loc).Format(DateLayout)]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plays: %w", err)
	}
	return counts, nil
}

// Prune deletes plays older than before and returns how many were removed.
func (r *PlayRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM plays WHERE played_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune plays: %w", err)
	}
	return res.RowsAffected()
}
