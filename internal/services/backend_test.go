package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	tu "github.com/desertthunder/radar/internal/testing"
)

func TestBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("ExchangeCode", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("/callback", http.StatusOK, map[string]string{"access_token": "tok1"})

			token, err := NewAPIService(fb.URL, nil).ExchangeCode(ctx, "xyz")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != "tok1" {
				t.Errorf("expected tok1, got %s", token)
			}
			if got := fb.Requests()[0].Query["code"]; len(got) != 1 || got[0] != "xyz" {
				t.Errorf("expected code=xyz, got %v", got)
			}
		})

		t.Run("Backend Error", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("/callback", http.StatusBadRequest, map[string]string{"error": "invalid_grant"})

			_, err := NewAPIService(fb.URL, nil).ExchangeCode(ctx, "xyz")
			if got := ErrorMessage(err, MsgExchangeCode); got != "invalid_grant" {
				t.Errorf("expected invalid_grant, got %q", got)
			}
		})

		t.Run("Missing Token In Body", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.JSON("/callback", http.StatusOK, map[string]string{})

			_, err := NewAPIService(fb.URL, nil).ExchangeCode(ctx, "xyz")
			if !errors.Is(err, shared.ErrInvalidResponse) {
				t.Errorf("expected ErrInvalidResponse, got %v", err)
			}
			if got := ErrorMessage(err, "x"); got != MsgExchangeCode {
				t.Errorf("expected default message, got %q", got)
			}
		})
	})

	t.Run("TopArtists", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/top-artists", http.StatusOK, map[string]any{
			"artists": []map[string]any{{"id": "a1", "name": "Artist", "popularity": 80, "genres": []string{"indie"}}},
		})

		artists, err := NewAPIService(fb.URL, nil).TopArtists(ctx, models.ShortTerm, 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 1 || artists[0].Name != "Artist" {
			t.Errorf("unexpected artists %+v", artists)
		}

		q := fb.Requests()[0].Query
		if q["time_range"][0] != "short_term" || q["limit"][0] != "5" {
			t.Errorf("unexpected query %v", q)
		}
	})

	t.Run("TopTracks Backend Failure Uses Default", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/top-tracks", http.StatusInternalServerError, map[string]any{})

		_, err := NewAPIService(fb.URL, nil).TopTracks(ctx, models.LongTerm, 10)
		if got := ErrorMessage(err, "x"); got != MsgTopTracks {
			t.Errorf("expected %q, got %q", MsgTopTracks, got)
		}
	})

	t.Run("TopTracks Rejects Invalid Payload", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/top-tracks", http.StatusOK, map[string]any{"tracks": []map[string]any{{"name": "no id"}}})

		_, err := NewAPIService(fb.URL, nil).TopTracks(ctx, models.LongTerm, 10)
		if !errors.Is(err, shared.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("NowPlaying Idle", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/now-playing", http.StatusOK, map[string]any{"is_playing": false})

		np, err := NewAPIService(fb.URL, nil).NowPlaying(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if np.IsPlaying || np.Track != nil {
			t.Errorf("expected idle playback, got %+v", np)
		}
	})

	t.Run("ListeningStats", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/listening-stats", http.StatusOK, map[string]any{
			"recent_count":       42,
			"medium_term_genres": []string{"rock", "jazz"},
			"trend": map[string]any{
				"new_discoveries":      []map[string]string{{"id": "n1", "name": "New"}},
				"consistent_favorites": []map[string]string{},
			},
		})

		stats, err := NewAPIService(fb.URL, nil).ListeningStats(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if stats.RecentCount != 42 || len(stats.Genres(models.MediumTerm)) != 2 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("FetchPlaylist", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/playlist/fetch", http.StatusOK, map[string]any{
			"playlist": map[string]any{"id": "p1", "name": "Mix", "owner": "me", "tracks_total": 2},
			"tracks":   []map[string]any{{"id": "t1", "name": "One"}, {"id": "t2", "name": "Two"}},
		})

		data, err := NewAPIService(fb.URL, nil).FetchPlaylist(ctx, "https://open.spotify.com/playlist/p1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(data.Tracks) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(data.Tracks))
		}
		if got := fb.Requests()[0].Query["playlist_input"][0]; got != "https://open.spotify.com/playlist/p1" {
			t.Errorf("expected input to be forwarded as-is, got %s", got)
		}
	})

	t.Run("CreatePlaylist And AddTracks", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/playlist/create", http.StatusOK, map[string]string{"id": "new1", "name": "Copy", "external_url": "https://open.spotify.com/playlist/new1"})
		fb.JSON("/api/playlist/add-tracks", http.StatusOK, map[string]any{"success": true, "external_url": "https://open.spotify.com/playlist/new1"})

		srv := NewAPIService(fb.URL, nil)
		created, err := srv.CreatePlaylist(ctx, models.CreatePlaylistRequest{Name: "Copy", Description: "d"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := srv.AddTracks(ctx, created.ID, []string{"t1", "t2"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		reqs := fb.Requests()
		var create map[string]any
		if err := json.Unmarshal(reqs[0].Body, &create); err != nil {
			t.Fatalf("invalid create body: %v", err)
		}
		if create["name"] != "Copy" || create["public"] != false {
			t.Errorf("unexpected create body %v", create)
		}

		var add models.AddTracksRequest
		if err := json.Unmarshal(reqs[1].Body, &add); err != nil {
			t.Fatalf("invalid add body: %v", err)
		}
		if add.PlaylistID != "new1" || len(add.TrackIDs) != 2 {
			t.Errorf("unexpected add body %+v", add)
		}
	})

	t.Run("UserPlaylists", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		fb.JSON("/api/playlist/user-playlists", http.StatusOK, map[string]any{
			"playlists": []map[string]any{{"id": "p1", "name": "Mine", "tracks_total": 3}},
		})

		lists, err := NewAPIService(fb.URL, nil).UserPlaylists(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(lists) != 1 || lists[0].TracksTotal != 3 {
			t.Errorf("unexpected playlists %+v", lists)
		}
	})
}
