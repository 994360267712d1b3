package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

// Messages surfaced by the playlist tool.
const (
	NoSelectionMessage  = "Please select at least one track"
	MissingNameMessage  = "Please enter a playlist name"
	DefaultDescription  = "Created with Rhythm Radar"
	maxTargetDistance   = 3
	targetNotFoundLabel = "No playlist of yours matches"
)

// PartialCreateError reports that the playlist was created but the tracks could not be added.
//
// The remote playlist is left in place, empty.
type PartialCreateError struct {
	Playlist *models.CreatedPlaylist
	Err      error
}

func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("playlist %s created but tracks were not added: %v", e.Playlist.ID, e.Err)
}

func (e *PartialCreateError) Unwrap() error {
	return e.Err
}

// WorkingSet is a snapshot of the playlist tool.
type WorkingSet struct {
	Playlist       *models.PlaylistData
	Selected       []string
	SuccessMessage string
	Error          string
	Loading        bool
}

// IsSelected reports whether id is in the selection.
func (w WorkingSet) IsSelected(id string) bool {
	return slices.Contains(w.Selected, id)
}

// PlaylistOptions are defaults applied to created playlists.
type PlaylistOptions struct {
	DefaultDescription string
	Public             bool
}

// PlaylistTool imports a playlist, lets the user pick tracks and copies them to a new or existing playlist.
type PlaylistTool struct {
	backend PlaylistBackend
	opts    PlaylistOptions
	logger  *log.Logger

	mu       sync.Mutex
	seq      uint64
	playlist *models.PlaylistData
	selected map[string]struct{}
	success  string
	err      string
	loading  bool
	subs     []func(WorkingSet)
}

// NewPlaylistTool creates an empty tool.
func NewPlaylistTool(b PlaylistBackend, opts PlaylistOptions, logger *log.Logger) *PlaylistTool {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.DefaultDescription == "" {
		opts.DefaultDescription = DefaultDescription
	}
	return &PlaylistTool{
		backend:  b,
		opts:     opts,
		logger:   shared.WithLogger(logger, "component", "playlist_tool"),
		selected: make(map[string]struct{}),
	}
}

// Subscribe registers fn to receive every change of the working set.
func (t *PlaylistTool) Subscribe(fn func(WorkingSet)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// Snapshot returns the current working set. Selected ids follow playlist order; ids not in the playlist come last, sorted.
func (t *PlaylistTool) Snapshot() WorkingSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *PlaylistTool) snapshotLocked() WorkingSet {
	ws := WorkingSet{
		Playlist:       t.playlist,
		SuccessMessage: t.success,
		Error:          t.err,
		Loading:        t.loading,
		Selected:       t.selectedLocked(),
	}
	return ws
}

func (t *PlaylistTool) selectedLocked() []string {
	ids := make([]string, 0, len(t.selected))
	seen := make(map[string]struct{}, len(t.selected))
	if t.playlist != nil {
		for _, tr := range t.playlist.Tracks {
			if _, ok := t.selected[tr.ID]; ok {
				if _, dup := seen[tr.ID]; !dup {
					ids = append(ids, tr.ID)
					seen[tr.ID] = struct{}{}
				}
			}
		}
	}
	var rest []string
	for id := range t.selected {
		if _, ok := seen[id]; !ok {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(ids, rest...)
}

// publishLocked releases mu and notifies subscribers.
func (t *PlaylistTool) publishLocked() WorkingSet {
	ws := t.snapshotLocked()
	subs := append([]func(WorkingSet){}, t.subs...)
	t.mu.Unlock()
	for _, fn := range subs {
		fn(ws)
	}
	return ws
}

// FetchPlaylist resets the working set and imports the playlist at input (URL, URI or id).
//
// An empty input only resets.
func (t *PlaylistTool) FetchPlaylist(ctx context.Context, input string) WorkingSet {
	input = strings.TrimSpace(input)

	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.playlist = nil
	t.selected = make(map[string]struct{})
	t.success, t.err = "", ""
	t.loading = input != ""
	ws := t.publishLocked()
	if input == "" {
		return ws
	}

	data, err := t.backend.FetchPlaylist(ctx, input)

	t.mu.Lock()
	if seq != t.seq {
		t.logger.Debug("dropping stale playlist response", "input", input)
		ws := t.snapshotLocked()
		t.mu.Unlock()
		return ws
	}
	t.loading = false
	if err != nil {
		t.err = services.ErrorMessage(err, services.MsgFetchPlaylist)
		t.logger.Warn("fetch playlist failed", "input", input, "err", err)
	} else {
		t.playlist = data
		t.logger.Info("playlist imported", "id", data.Playlist.ID, "tracks", len(data.Tracks))
	}
	return t.publishLocked()
}

// ToggleTrackSelection flips membership of id. Ids outside the playlist are accepted.
func (t *PlaylistTool) ToggleTrackSelection(id string) WorkingSet {
	t.mu.Lock()
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
	} else {
		t.selected[id] = struct{}{}
	}
	return t.publishLocked()
}

// SelectAllTracks selects every track of the imported playlist.
func (t *PlaylistTool) SelectAllTracks() WorkingSet {
	t.mu.Lock()
	if t.playlist != nil {
		t.selected = make(map[string]struct{}, len(t.playlist.Tracks))
		for _, tr := range t.playlist.Tracks {
			t.selected[tr.ID] = struct{}{}
		}
	}
	return t.publishLocked()
}

// ClearSelection empties the selection.
func (t *PlaylistTool) ClearSelection() WorkingSet {
	t.mu.Lock()
	t.selected = make(map[string]struct{})
	return t.publishLocked()
}

// SelectTracks replaces the selection with ids.
func (t *PlaylistTool) SelectTracks(ids []string) WorkingSet {
	t.mu.Lock()
	t.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.selected[id] = struct{}{}
	}
	return t.publishLocked()
}

// begin validates the selection and marks the tool loading. It returns the ids to copy.
func (t *PlaylistTool) begin(name string, needName bool) ([]string, error) {
	t.mu.Lock()
	ids := t.selectedLocked()
	switch {
	case len(ids) == 0:
		t.err = NoSelectionMessage
		t.publishLocked()
		return nil, shared.ErrNoSelection
	case needName && strings.TrimSpace(name) == "":
		t.err = MissingNameMessage
		t.publishLocked()
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	t.loading = true
	t.err, t.success = "", ""
	t.publishLocked()
	return ids, nil
}

func (t *PlaylistTool) finish(success, errMsg string) {
	t.mu.Lock()
	t.loading = false
	t.success, t.err = success, errMsg
	t.publishLocked()
}

// CreatePlaylist copies the selection into a new playlist and returns its URL.
//
// It runs two dependent requests: create, then add tracks. If adding fails the new playlist stays
// on the remote side, empty, and a [*PartialCreateError] is returned.
func (t *PlaylistTool) CreatePlaylist(ctx context.Context, name, description string, progress chan<- ProgressUpdate) (string, error) {
	name = strings.TrimSpace(name)
	ids, err := t.begin(name, true)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(description) == "" {
		description = t.opts.DefaultDescription
	}

	const total = 2
	sendProgress(progress, creatingPlaylistUpdate(1, total, name))
	created, err := t.backend.CreatePlaylist(ctx, models.CreatePlaylistRequest{
		Name:        name,
		Description: description,
		Public:      t.opts.Public,
	})
	if err != nil {
		t.logger.Error("create playlist failed", "name", name, "err", err)
		t.finish("", services.ErrorMessage(err, services.MsgCreatePlaylist))
		return "", err
	}
	sendProgress(progress, createdPlaylistUpdate(1, total, created))

	sendProgress(progress, addingTracksUpdate(2, total, len(ids)))
	if _, err := t.backend.AddTracks(ctx, created.ID, ids); err != nil {
		t.logger.Error("add tracks failed; playlist left empty", "playlist", created.ID, "err", err)
		t.finish("", services.ErrorMessage(err, services.MsgAddTracks))
		return "", &PartialCreateError{Playlist: created, Err: err}
	}

	msg := fmt.Sprintf("Successfully created playlist %q with %d tracks!", name, len(ids))
	t.finish(msg, "")
	sendProgress(progress, doneUpdate(total, total, msg, created))
	t.logger.Info("playlist created", "id", created.ID, "tracks", len(ids))
	return created.ExternalURL, nil
}

// UserPlaylists lists the playlists the user can add to.
func (t *PlaylistTool) UserPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	return t.backend.UserPlaylists(ctx)
}

// AddToPlaylist copies the selection into one of the user's playlists and returns its URL.
//
// target is matched against playlist ids first, then names. Names match case-insensitively,
// falling back to the closest name within a small edit distance.
func (t *PlaylistTool) AddToPlaylist(ctx context.Context, target string, progress chan<- ProgressUpdate) (string, error) {
	ids, err := t.begin(target, true)
	if err != nil {
		return "", err
	}

	const total = 3
	sendProgress(progress, fetchingUserPlaylistsUpdate(1, total))
	playlists, err := t.backend.UserPlaylists(ctx)
	if err != nil {
		t.finish("", services.ErrorMessage(err, services.MsgUserPlaylists))
		return "", err
	}

	dest, err := ResolvePlaylist(playlists, target)
	if err != nil {
		t.finish("", fmt.Sprintf("%s %q", targetNotFoundLabel, target))
		return "", err
	}
	sendProgress(progress, resolvedTargetUpdate(2, total, dest))

	sendProgress(progress, addingTracksUpdate(3, total, len(ids)))
	added, err := t.backend.AddTracks(ctx, dest.ID, ids)
	if err != nil {
		t.finish("", services.ErrorMessage(err, services.MsgAddTracks))
		return "", err
	}

	msg := fmt.Sprintf("Successfully added %d tracks to %q!", len(ids), dest.Name)
	t.finish(msg, "")
	sendProgress(progress, doneUpdate(total, total, msg, added))
	return added.ExternalURL, nil
}

// ResolvePlaylist finds target among playlists by id, then exact name, then closest name.
func ResolvePlaylist(playlists []models.PlaylistSummary, target string) (*models.PlaylistSummary, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: empty target", shared.ErrInvalidArgument)
	}
	id := models.ExtractPlaylistID(target)
	norm := normalizeName(target)

	for i := range playlists {
		if playlists[i].ID == id {
			return &playlists[i], nil
		}
	}
	for i := range playlists {
		if normalizeName(playlists[i].Name) == norm {
			return &playlists[i], nil
		}
	}

	best, bestDist := -1, maxTargetDistance+1
	ambiguous := false
	for i := range playlists {
		d := levenshtein.ComputeDistance(norm, normalizeName(playlists[i].Name))
		switch {
		case d < bestDist:
			best, bestDist, ambiguous = i, d, false
		case d == bestDist:
			ambiguous = true
		}
	}
	if best < 0 || ambiguous {
		return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, target)
	}
	return &playlists[best], nil
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// IsPartial reports whether err left an empty playlist behind.
func IsPartial(err error) (*models.CreatedPlaylist, bool) {
	var p *PartialCreateError
	if errors.As(err, &p) {
		return p.Playlist, true
	}
	return nil, false
}
