package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// Default messages used when the backend does not supply one.
const (
	MsgExchangeCode   = "Failed to exchange authorization code"
	MsgTopArtists     = "Failed to fetch top artists"
	MsgTopTracks      = "Failed to fetch top tracks"
	MsgListeningStats = "Failed to fetch listening stats"
	MsgNowPlaying     = "Failed to fetch currently playing track"
	MsgFetchPlaylist  = "Failed to fetch playlist"
	MsgUserPlaylists  = "Failed to fetch your playlists"
	MsgCreatePlaylist = "Failed to create playlist"
	MsgAddTracks      = "Failed to add tracks to playlist"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (t tokenResponse) Validate() error {
	if t.AccessToken == "" {
		return fmt.Errorf("%w: missing access_token", shared.ErrInvalidResponse)
	}
	return nil
}

// LoginURL is where the browser is sent to begin authorization.
func (a *APIService) LoginURL() string {
	return a.baseURL + "/login"
}

// ExchangeCode trades an authorization code for an access token via GET /callback.
func (a *APIService) ExchangeCode(ctx context.Context, code string) (string, error) {
	resp, err := getJSON[tokenResponse](ctx, a, "/callback", url.Values{"code": {code}}, MsgExchangeCode)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func rangeQuery(tr models.TimeRange, limit int) url.Values {
	return url.Values{"time_range": {string(tr)}, "limit": {strconv.Itoa(limit)}}
}

// TopArtists fetches the user's top artists for tr.
func (a *APIService) TopArtists(ctx context.Context, tr models.TimeRange, limit int) ([]models.Artist, error) {
	resp, err := getJSON[models.TopArtists](ctx, a, "/api/top-artists", rangeQuery(tr, limit), MsgTopArtists)
	if err != nil {
		return nil, err
	}
	return resp.Artists, nil
}

// TopTracks fetches the user's top tracks for tr.
func (a *APIService) TopTracks(ctx context.Context, tr models.TimeRange, limit int) ([]models.Track, error) {
	resp, err := getJSON[models.TopTracks](ctx, a, "/api/top-tracks", rangeQuery(tr, limit), MsgTopTracks)
	if err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// ListeningStats fetches genre summaries and artist trends.
func (a *APIService) ListeningStats(ctx context.Context) (*models.ListeningStats, error) {
	return getJSON[models.ListeningStats](ctx, a, "/api/listening-stats", nil, MsgListeningStats)
}

// NowPlaying fetches the current playback state.
func (a *APIService) NowPlaying(ctx context.Context) (*models.NowPlaying, error) {
	return getJSON[models.NowPlaying](ctx, a, "/api/now-playing", nil, MsgNowPlaying)
}

// FetchPlaylist imports a playlist by URL or id.
func (a *APIService) FetchPlaylist(ctx context.Context, input string) (*models.PlaylistData, error) {
	return getJSON[models.PlaylistData](ctx, a, "/api/playlist/fetch", url.Values{"playlist_input": {input}}, MsgFetchPlaylist)
}

// UserPlaylists lists playlists the user owns.
func (a *APIService) UserPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	resp, err := getJSON[models.UserPlaylists](ctx, a, "/api/playlist/user-playlists", nil, MsgUserPlaylists)
	if err != nil {
		return nil, err
	}
	return resp.Playlists, nil
}

// CreatePlaylist creates an empty playlist.
func (a *APIService) CreatePlaylist(ctx context.Context, req models.CreatePlaylistRequest) (*models.CreatedPlaylist, error) {
	return postJSON[models.CreatedPlaylist](ctx, a, "/api/playlist/create", req, MsgCreatePlaylist)
}

// AddTracks appends trackIDs to playlistID.
func (a *APIService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) (*models.AddedTracks, error) {
	body := models.AddTracksRequest{PlaylistID: playlistID, TrackIDs: trackIDs}
	return postJSON[models.AddedTracks](ctx, a, "/api/playlist/add-tracks", body, MsgAddTracks)
}
