package models

import (
	"time"
)

// NowPlayingTrack is the track currently in the player with its progress.
type NowPlayingTrack struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Artists      []ArtistRef  `json:"artists" yaml:"artists"`
	Album        AlbumRef     `json:"album" yaml:"album"`
	PreviewURL   *string      `json:"preview_url" yaml:"preview_url,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls" yaml:"external_urls,omitempty"`
	ProgressMS   int          `json:"progress_ms" yaml:"progress_ms"`
	DurationMS   int          `json:"duration_ms" yaml:"duration_ms"`
}

// NowPlaying is the /api/now-playing payload. Track is nil when nothing is playing.
type NowPlaying struct {
	IsPlaying bool             `json:"is_playing" yaml:"is_playing"`
	Track     *NowPlayingTrack `json:"track,omitempty" yaml:"track,omitempty"`
}

func (n NowPlaying) Validate() error {
	if n.Track == nil {
		return nil
	}
	// Local files come back without an id; the name is still shown.
	return required("now playing track", [2]string{"name", n.Track.Name})
}

// ProgressAt interpolates playback progress elapsed after the payload was fetched.
//
// Progress only advances while playing and never exceeds the track duration.
func (n NowPlaying) ProgressAt(elapsed time.Duration) int {
	if n.Track == nil {
		return 0
	}
	progress := n.Track.ProgressMS
	if n.IsPlaying && elapsed > 0 {
		progress += int(elapsed / time.Millisecond)
	}
	if n.Track.DurationMS > 0 && progress > n.Track.DurationMS {
		progress = n.Track.DurationMS
	}
	return progress
}
