package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
)

// fetchWorkingSet imports input into tool, returning its error message as an error.
func (r *Runner) fetchWorkingSet(ctx context.Context, tool *tasks.PlaylistTool, input string) (*models.PlaylistData, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: playlist url or id", shared.ErrMissingArgument)
	}

	r.logger.Debug("fetching playlist", "input", input)
	ws := tool.FetchPlaylist(ctx, input)
	if ws.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, ws.Error)
	}
	if ws.Playlist == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty playlist response", shared.ErrInvalidResponse)
	}
	return ws.Playlist, nil
}

// PlaylistFetch prints a playlist and its tracks.
func (r *Runner) PlaylistFetch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	p, err := r.fetchWorkingSet(ctx, r.playlistTool(), cmd.StringArg("input"))
	if err != nil {
		return err
	}

	if f.Structured() {
		return formatter.Encode(r.output, f, p)
	}
	return formatter.WriteTable(r.output, f, formatter.PlaylistTable(p, nil))
}

// PlaylistMine lists the playlists the user owns.
func (r *Runner) PlaylistMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	playlists, err := r.playlistTool().UserPlaylists(ctx)
	if err != nil {
		return err
	}

	if f.Structured() {
		return formatter.Encode(r.output, f, playlists)
	}
	return formatter.WriteTable(r.output, f, formatter.UserPlaylistsTable(playlists))
}

// PlaylistCopy copies the selected tracks of a playlist into a new playlist or an existing one.
func (r *Runner) PlaylistCopy(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.String("name"))
	into := strings.TrimSpace(cmd.String("into"))
	switch {
	case name == "" && into == "":
		return fmt.Errorf("%w: one of --name or --into", shared.ErrMissingArgument)
	case name != "" && into != "":
		return fmt.Errorf("%w: cannot specify both --name and --into", shared.ErrInvalidArgument)
	}

	tool := r.playlistTool()
	p, err := r.fetchWorkingSet(ctx, tool, cmd.StringArg("input"))
	if err != nil {
		return err
	}
	r.writePlain("📥 %s (%d tracks)\n", p.Playlist.Name, len(p.Tracks))

	if cmd.Bool("all") {
		tool.SelectAllTracks()
	} else {
		tool.SelectTracks(r.knownTracks(p, splitIDs(cmd.StringSlice("tracks"))))
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.CreatePlaylist, tasks.ResolveTarget:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.AddTracks:
				r.writePlain("➕ %s\n", update.Message)
			case tasks.Done:
				r.writePlainln("✓ %s", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	var url string
	if into != "" {
		url, err = tool.AddToPlaylist(ctx, into, progressCh)
	} else {
		url, err = tool.CreatePlaylist(ctx, name, cmd.String("description"), progressCh)
	}
	close(progressCh)
	<-done

	if created, ok := tasks.IsPartial(err); ok {
		r.writePlain("⚠ Playlist %q was created but the tracks could not be added.\n", name)
		if u := created.ExternalURL; u != "" {
			r.writePlain("  %s\n", u)
		}
	}
	if err != nil {
		if msg := tool.Snapshot().Error; msg != "" {
			r.writePlain("✗ %s\n", msg)
		}
		return err
	}

	if url != "" {
		r.writePlain("Open: %s\n", url)
	}
	return nil
}

// knownTracks drops ids that are not in p, warning about each.
func (r *Runner) knownTracks(p *models.PlaylistData, ids []string) []string {
	known := make([]string, 0, len(ids))
	for _, id := range ids {
		if !p.HasTrack(id) {
			r.logger.Warn("track not in playlist, skipping", "id", id)
			continue
		}
		known = append(known, id)
	}
	return known
}

// splitIDs accepts repeated flags as well as comma separated values.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
