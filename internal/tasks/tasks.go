// package tasks implements the data-fetch hooks behind the dashboard.
//
// Each hook owns a [Resource] holding {data, loading, error} for one backend endpoint.
package tasks

import (
	"context"

	"github.com/desertthunder/radar/internal/models"
)

// StatsBackend serves the listening statistics endpoints.
type StatsBackend interface {
	TopArtists(ctx context.Context, tr models.TimeRange, limit int) ([]models.Artist, error)
	TopTracks(ctx context.Context, tr models.TimeRange, limit int) ([]models.Track, error)
	ListeningStats(ctx context.Context) (*models.ListeningStats, error)
}

// NowPlayingBackend serves current playback.
type NowPlayingBackend interface {
	NowPlaying(ctx context.Context) (*models.NowPlaying, error)
}

// PlaylistBackend serves the playlist tool endpoints.
type PlaylistBackend interface {
	FetchPlaylist(ctx context.Context, input string) (*models.PlaylistData, error)
	UserPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)
	CreatePlaylist(ctx context.Context, req models.CreatePlaylistRequest) (*models.CreatedPlaylist, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) (*models.AddedTracks, error)
}

// sendProgress attempts to send a progress update without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
