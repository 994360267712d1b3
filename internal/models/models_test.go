package models

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/radar/internal/shared"
)

func TestTimeRange(t *testing.T) {
	tc := []struct {
		in      string
		want    TimeRange
		wantErr bool
	}{
		{in: "short_term", want: ShortTerm},
		{in: "short", want: ShortTerm},
		{in: "MEDIUM", want: MediumTerm},
		{in: "", want: MediumTerm},
		{in: "long_term", want: LongTerm},
		{in: "forever", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeRange(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare id", input: "37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "web url", input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "uri", input: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "whitespace", input: "  abc123  ", want: "abc123"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.input); got != tt.want {
				t.Errorf("ExtractPlaylistID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("TopArtists requires ids", func(t *testing.T) {
		p := TopArtists{Artists: []Artist{{ID: "1", Name: "A"}, {Name: "B"}}}
		if err := p.Validate(); !errors.Is(err, shared.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("TopTracks requires list", func(t *testing.T) {
		if err := (TopTracks{}).Validate(); !errors.Is(err, shared.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
		if err := (TopTracks{Tracks: []Track{}}).Validate(); err != nil {
			t.Errorf("expected empty list to validate, got %v", err)
		}
	})

	t.Run("PlaylistData drops tracks without id", func(t *testing.T) {
		p := &PlaylistData{
			Playlist: PlaylistInfo{ID: "p1", Name: "Mix"},
			Tracks:   []PlaylistTrack{{ID: "a", Name: "A"}, {Name: "local file"}, {ID: "b", Name: "B"}},
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(p.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(p.Tracks))
		}
		if !p.HasTrack("b") || p.HasTrack("") {
			t.Error("unexpected track membership")
		}
	})

	t.Run("NowPlaying without track", func(t *testing.T) {
		if err := (NowPlaying{}).Validate(); err != nil {
			t.Errorf("expected idle payload to validate, got %v", err)
		}
	})
}

func TestProgressAt(t *testing.T) {
	np := NowPlaying{IsPlaying: true, Track: &NowPlayingTrack{Name: "x", ProgressMS: 1000, DurationMS: 5000}}

	if got := np.ProgressAt(2 * time.Second); got != 3000 {
		t.Errorf("expected 3000, got %d", got)
	}
	if got := np.ProgressAt(time.Minute); got != 5000 {
		t.Errorf("expected progress capped at 5000, got %d", got)
	}

	np.IsPlaying = false
	if got := np.ProgressAt(2 * time.Second); got != 1000 {
		t.Errorf("expected paused progress 1000, got %d", got)
	}
}

func TestActivityRange(t *testing.T) {
	if Weekly.Days() != 56 || Monthly.Days() != 30 || Yearly.Days() != 365 {
		t.Error("unexpected range spans")
	}
	if _, err := ParseActivityRange("daily"); err == nil {
		t.Error("expected error for unknown range")
	}
}
