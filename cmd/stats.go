package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
)

// loaded unwraps a settled hook state, turning its display message into an error for main.
func loaded[T any](ctx context.Context, s tasks.State[T]) (*T, error) {
	if s.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, s.Error)
	}
	if s.Data == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty result", shared.ErrInvalidResponse)
	}
	return s.Data, nil
}

// topParams reads --range and --limit, defaulting to the dashboard config.
func (r *Runner) topParams(cmd *cli.Command) (tasks.TopParams, error) {
	raw := cmd.String("range")
	if raw == "" {
		raw = r.config.Dashboard.TimeRange
	}
	tr, err := models.ParseTimeRange(raw)
	if err != nil {
		return tasks.TopParams{}, err
	}

	limit := int(cmd.Int("limit"))
	if limit == 0 {
		limit = r.config.Dashboard.Limit
	}
	if limit < 1 || limit > 50 {
		return tasks.TopParams{}, fmt.Errorf("%w: --limit must be between 1 and 50, got %d", shared.ErrInvalidFlag, limit)
	}
	return tasks.TopParams{TimeRange: tr, Limit: limit}, nil
}

// TopArtists prints the user's top artists.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	p, err := r.topParams(cmd)
	if err != nil {
		return err
	}

	r.logger.Debug("fetching top artists", "range", p.TimeRange, "limit", p.Limit)
	s, _ := tasks.NewTopArtists(r.api, r.logger).SetParams(ctx, p)
	items, err := loaded(ctx, s)
	if err != nil {
		return err
	}

	if f.Structured() {
		return formatter.Encode(r.output, f, *items)
	}
	return formatter.WriteTable(r.output, f, formatter.ArtistsTable(p.TimeRange, *items))
}

// TopTracks prints the user's top tracks.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	p, err := r.topParams(cmd)
	if err != nil {
		return err
	}

	r.logger.Debug("fetching top tracks", "range", p.TimeRange, "limit", p.Limit)
	s, _ := tasks.NewTopTracks(r.api, r.logger).SetParams(ctx, p)
	items, err := loaded(ctx, s)
	if err != nil {
		return err
	}

	if f.Structured() {
		return formatter.Encode(r.output, f, *items)
	}
	return formatter.WriteTable(r.output, f, formatter.TracksTable(p.TimeRange, *items))
}

// Stats prints the listening stats summary.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	stats, err := loaded(ctx, tasks.NewListeningStats(r.api, r.logger).Refresh(ctx))
	if err != nil {
		return err
	}

	switch {
	case f.Structured():
		return formatter.Encode(r.output, f, stats)
	case f == formatter.Text:
		return r.writeBytes(formatter.StatsToText(stats))
	default:
		return formatter.WriteTable(r.output, f, formatter.GenresTable(stats))
	}
}

// NowPlaying prints the current track once, or every change with --watch. Observed plays are
// recorded for the activity heatmap when a database is open.
func (r *Runner) NowPlaying(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.Dashboard.PollInterval()
	}
	np := tasks.NewNowPlaying(r.api, interval, r.logger)
	if r.plays != nil {
		tasks.NewActivityRecorder(r.plays, r.logger).Attach(ctx, np)
	}

	asJSON := cmd.Bool("json")
	show := func(s tasks.State[models.NowPlaying]) error {
		if asJSON {
			return r.writeJSON(s.Data, false)
		}
		return r.writeBytes(formatter.NowPlayingToText(s.Data, np.Progress(time.Now())))
	}

	if !cmd.Bool("watch") {
		s := np.Refresh(ctx)
		if _, err := loaded(ctx, s); err != nil {
			return err
		}
		return show(s)
	}

	var last string
	np.Subscribe(func(s tasks.State[models.NowPlaying]) {
		if s.Loading {
			return
		}
		if s.Error != "" {
			r.logger.Warn("now playing poll failed", "error", s.Error)
			return
		}
		key := playbackKey(s.Data)
		if key == last {
			return
		}
		last = key
		if !asJSON {
			r.writePlain("\n")
		}
		if err := show(s); err != nil {
			r.logger.Error("failed to write now playing", "error", err)
		}
	})

	r.writePlain("→ Watching playback every %s (Ctrl+C to stop)\n", interval)
	stop := np.Start(ctx)
	<-ctx.Done()
	stop()
	return nil
}

// playbackKey changes when the track or play/pause state does.
func playbackKey(np *models.NowPlaying) string {
	if np == nil || np.Track == nil {
		return ""
	}
	return fmt.Sprintf("%s:%t", np.Track.ID, np.IsPlaying)
}

// Activity prints the listening heatmap or, with --recent, the latest recorded plays.
func (r *Runner) Activity(ctx context.Context, cmd *cli.Command) error {
	if r.plays == nil {
		return fmt.Errorf("%w: activity needs the database, run without --ephemeral", shared.ErrInvalidArgument)
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if n := int(cmd.Int("recent")); n > 0 {
		plays, err := r.plays.Recent(ctx, n)
		if err != nil {
			return err
		}
		if f.Structured() {
			return formatter.Encode(r.output, f, plays)
		}
		return formatter.WriteTable(r.output, f, formatter.PlaysTable(plays))
	}

	rng, err := models.ParseActivityRange(cmd.String("range"))
	if err != nil {
		return err
	}
	hm, err := tasks.LoadHeatmap(ctx, r.plays, rng, time.Now())
	if err != nil {
		return err
	}

	switch {
	case f.Structured():
		return formatter.Encode(r.output, f, hm)
	case f == formatter.Text:
		return r.writeBytes(formatter.HeatmapToText(hm))
	default:
		return formatter.WriteTable(r.output, f, formatter.HeatmapTable(hm))
	}
}
