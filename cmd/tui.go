package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/desertthunder/radar/internal/ui"
)

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	tr, err := models.ParseTimeRange(r.config.Dashboard.TimeRange)
	if err != nil {
		r.logger.Warn("invalid dashboard.time_range, using default", "error", err)
		tr = tasks.DefaultTopParams.TimeRange
	}

	d := ui.Dashboard{
		Artists:       tasks.NewTopArtists(r.api, r.logger),
		Tracks:        tasks.NewTopTracks(r.api, r.logger),
		Stats:         tasks.NewListeningStats(r.api, r.logger),
		NowPlaying:    tasks.NewNowPlaying(r.api, r.config.Dashboard.PollInterval(), r.logger),
		Playlist:      r.playlistTool(),
		Profile:       r.profile,
		TimeRange:     tr,
		Limit:         r.config.Dashboard.Limit,
		ActivityRange: models.Monthly,
	}
	if r.plays != nil {
		d.Activity = r.plays
		d.Recorder = tasks.NewActivityRecorder(r.plays, r.logger)
	}

	model := ui.NewModel(ctx, d)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
