package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/radar/internal/shared"
)

var playlistURLPattern = regexp.MustCompile(`playlist[/:]([a-zA-Z0-9]+)`)

// ExtractPlaylistID returns the id of a playlist given either its URL, its URI or the bare id.
func ExtractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	if m := playlistURLPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}

// PlaylistInfo is playlist metadata returned alongside its tracks.
type PlaylistInfo struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description,omitempty"`
	Owner       string  `json:"owner" yaml:"owner"`
	Images      []Image `json:"images" yaml:"images,omitempty"`
	TracksTotal int     `json:"tracks_total" yaml:"tracks_total"`
}

// PlaylistTrack is one entry of an imported playlist.
type PlaylistTrack struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Artists    []ArtistRef `json:"artists" yaml:"artists"`
	Album      AlbumRef    `json:"album" yaml:"album"`
	DurationMS int         `json:"duration_ms" yaml:"duration_ms"`
	PreviewURL *string     `json:"preview_url" yaml:"preview_url,omitempty"`
}

// PlaylistData is the /api/playlist/fetch payload.
type PlaylistData struct {
	Playlist PlaylistInfo    `json:"playlist" yaml:"playlist"`
	Tracks   []PlaylistTrack `json:"tracks" yaml:"tracks"`
}

// Validate checks the playlist metadata and drops tracks without an id, which cannot be selected or copied.
func (p *PlaylistData) Validate() error {
	if err := required("playlist", [2]string{"id", p.Playlist.ID}, [2]string{"name", p.Playlist.Name}); err != nil {
		return err
	}
	kept := p.Tracks[:0]
	for _, t := range p.Tracks {
		if t.ID != "" {
			kept = append(kept, t)
		}
	}
	p.Tracks = kept
	return nil
}

// TrackIDs returns the ids in playlist order.
func (p *PlaylistData) TrackIDs() []string {
	ids := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// HasTrack reports whether id belongs to the playlist.
func (p *PlaylistData) HasTrack(id string) bool {
	for _, t := range p.Tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// PlaylistSummary is an entry of /api/playlist/user-playlists.
type PlaylistSummary struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description,omitempty"`
	TracksTotal int     `json:"tracks_total" yaml:"tracks_total"`
	Images      []Image `json:"images" yaml:"images,omitempty"`
}

func (p PlaylistSummary) Validate() error {
	return required("playlist", [2]string{"id", p.ID}, [2]string{"name", p.Name})
}

// UserPlaylists wraps the user's own playlists.
type UserPlaylists struct {
	Playlists []PlaylistSummary `json:"playlists" yaml:"playlists"`
}

func (u UserPlaylists) Validate() error {
	if u.Playlists == nil {
		return fmt.Errorf("%w: missing playlists", shared.ErrInvalidResponse)
	}
	return validateAll(u.Playlists)
}

// CreatePlaylistRequest is the body of POST /api/playlist/create.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// CreatedPlaylist is the response of POST /api/playlist/create.
type CreatedPlaylist struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ExternalURL string `json:"external_url" yaml:"external_url"`
}

func (c CreatedPlaylist) Validate() error {
	return required("created playlist", [2]string{"id", c.ID})
}

// AddTracksRequest is the body of POST /api/playlist/add-tracks.
type AddTracksRequest struct {
	PlaylistID string   `json:"playlist_id"`
	TrackIDs   []string `json:"track_ids"`
}

// AddedTracks is the response of POST /api/playlist/add-tracks.
type AddedTracks struct {
	Success      bool   `json:"success" yaml:"success"`
	Message      string `json:"message" yaml:"message"`
	PlaylistID   string `json:"playlist_id" yaml:"playlist_id"`
	PlaylistName string `json:"playlist_name" yaml:"playlist_name"`
	ExternalURL  string `json:"external_url" yaml:"external_url"`
}

func (a AddedTracks) Validate() error {
	return nil
}
