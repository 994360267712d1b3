package tasks

import (
	"fmt"

	"github.com/desertthunder/radar/internal/models"
)

// ProgressUpdate represents a progress event during a multi-step playlist operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps in this operation
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	FetchUserPlaylists
	ResolveTarget
	CreatePlaylist
	AddTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchUserPlaylists:
		return "fetch_user_playlists"
	case ResolveTarget:
		return "resolve_target"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func creatingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func createdPlaylistUpdate(step, total int, pl *models.CreatedPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func fetchingUserPlaylistsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchUserPlaylists,
		Step:    step,
		Total:   total,
		Message: "Fetching your playlists...",
	}
}

func resolvedTargetUpdate(step, total int, pl *models.PlaylistSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTarget,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding to %s (%d tracks)", pl.Name, pl.TracksTotal),
		Data:    pl,
	}
}

func addingTracksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks...", count),
	}
}

func doneUpdate(step, total int, message string, data any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    data,
	}
}
