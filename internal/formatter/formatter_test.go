package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

func sampleTracks() []models.Track {
	return []models.Track{
		{
			ID:           "track1",
			Name:         "Song One",
			Artists:      []models.ArtistRef{{ID: "a1", Name: "Artist One"}, {ID: "a2", Name: "Guest"}},
			Album:        models.AlbumRef{Name: "Album One"},
			Popularity:   80,
			ExternalURLs: models.ExternalURLs{"spotify": "https://open.spotify.com/track/track1"},
		},
		{
			ID:      "track2",
			Name:    "Song, Two",
			Artists: []models.ArtistRef{{ID: "a3", Name: "Artist Two"}},
			Album:   models.AlbumRef{Name: "Album | Two"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", Text},
		{"TEXT", Text},
		{"md", Markdown},
		{"yml", YAML},
		{"json", JSON},
		{" csv ", CSV},
	}
	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
	if !JSON.Structured() || Markdown.Structured() {
		t.Error("unexpected Structured result")
	}
}

func TestTables(t *testing.T) {
	table := TracksTable(models.ShortTerm, sampleTracks())

	t.Run("CSV", func(t *testing.T) {
		data, err := TableToCSV(table)
		if err != nil {
			t.Fatalf("TableToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "#,Track,Artists,Album,Popularity,URL\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `1,Song One,"Artist One, Guest",Album One,80,https://open.spotify.com/track/track1`) {
			t.Errorf("CSV missing track1, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV did not quote comma, got: %s", output)
		}
		if strings.Contains(output, "Last 4 Weeks") {
			t.Error("CSV should not include the title")
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		output := string(TableToMarkdown(table))

		if !strings.Contains(output, "## Top Tracks (Last 4 Weeks)") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "| # | Track | Artists | Album | Popularity | URL |") {
			t.Errorf("Markdown missing header row")
		}
		if !strings.Contains(output, "| --- | --- | --- | --- | --- | --- |") {
			t.Errorf("Markdown missing separator, got: %s", output)
		}
		if !strings.Contains(output, `Album \| Two`) {
			t.Errorf("Markdown did not escape pipe, got: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		output := string(TableToText(table))
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if lines[0] != "Top Tracks (Last 4 Weeks)" {
			t.Errorf("expected title first, got %q", lines[0])
		}
		if !strings.HasPrefix(lines[2], "#  Track") {
			t.Errorf("expected aligned header, got %q", lines[2])
		}
		if !strings.HasPrefix(lines[3], "-  ") {
			t.Errorf("expected rule line, got %q", lines[3])
		}
		if len(lines) != 6 {
			t.Errorf("expected 6 lines, got %d", len(lines))
		}
	})

	t.Run("Text truncates long cells", func(t *testing.T) {
		long := strings.Repeat("x", MaxColumnWidth+10)
		output := string(TableToText(Table{Headers: []string{"Name"}, Rows: [][]string{{long}}}))

		if strings.Contains(output, long) {
			t.Error("expected long cell to be truncated")
		}
		if !strings.Contains(output, "…") {
			t.Error("expected ellipsis")
		}
	})

	t.Run("WriteTable rejects structured formats", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTable(&buf, JSON, table); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Errorf("expected 'hello…', got %q", got)
	}
	if got := Truncate("日本語テキスト", 5); got != "日本…" {
		t.Errorf("expected wide runes counted double, got %q", got)
	}
	if got := Truncate("x", 0); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestEncode(t *testing.T) {
	payload := models.TopTracks{Tracks: sampleTracks()}

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, JSON, payload); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		var decoded models.TopTracks
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(decoded.Tracks) != 2 || decoded.Tracks[0].ID != "track1" {
			t.Errorf("unexpected decoded payload: %+v", decoded)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, YAML, payload); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		output := buf.String()

		if !strings.Contains(output, "tracks:") || !strings.Contains(output, "name: Song One") {
			t.Errorf("YAML missing fields, got: %s", output)
		}

		var decoded map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
	})

	t.Run("Rejects table formats", func(t *testing.T) {
		if err := Encode(&bytes.Buffer{}, CSV, payload); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestRenderers(t *testing.T) {
	t.Run("ArtistsTable", func(t *testing.T) {
		table := ArtistsTable(models.LongTerm, []models.Artist{
			{ID: "a1", Name: "Band", Genres: []string{"indie", "rock"}, Popularity: 55},
		})
		if table.Title != "Top Artists (All Time)" {
			t.Errorf("unexpected title %q", table.Title)
		}
		if table.Rows[0][2] != "indie, rock" {
			t.Errorf("expected joined genres, got %q", table.Rows[0][2])
		}
	})

	t.Run("PlaylistTable marks selection", func(t *testing.T) {
		data := &models.PlaylistData{
			Playlist: models.PlaylistInfo{ID: "p", Name: "Mix", Owner: "me", TracksTotal: 2},
			Tracks: []models.PlaylistTrack{
				{ID: "t1", Name: "One", DurationMS: 180000},
				{ID: "t2", Name: "Two", DurationMS: 61000},
			},
		}
		table := PlaylistTable(data, func(id string) bool { return id == "t2" })

		if table.Headers[0] != "Sel" {
			t.Errorf("expected selection column, got %v", table.Headers)
		}
		if table.Rows[0][0] != "[ ]" || table.Rows[1][0] != "[x]" {
			t.Errorf("unexpected marks %q %q", table.Rows[0][0], table.Rows[1][0])
		}
		if table.Rows[1][6] != "1:01" {
			t.Errorf("expected duration 1:01, got %q", table.Rows[1][6])
		}
		if len(PlaylistTable(data, nil).Headers) != 6 {
			t.Error("expected no selection column without selector")
		}
	})

	t.Run("GenresTable pads shorter ranges", func(t *testing.T) {
		stats := &models.ListeningStats{
			ShortTermGenres:  []string{"pop"},
			MediumTermGenres: []string{"pop", "rock", "jazz"},
			LongTermGenres:   []string{"rock", "jazz"},
		}
		table := GenresTable(stats)

		if len(table.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(table.Rows))
		}
		if table.Rows[2][1] != "" || table.Rows[2][2] != "jazz" {
			t.Errorf("unexpected third row %v", table.Rows[2])
		}
	})

	t.Run("StatsToText", func(t *testing.T) {
		output := string(StatsToText(&models.ListeningStats{
			RecentCount: 42,
			Trend: models.Trend{
				NewDiscoveries: []models.ArtistRef{{ID: "n1", Name: "Newcomer"}},
			},
		}))

		if !strings.Contains(output, "Recently played: 42 tracks") {
			t.Errorf("missing recent count, got: %s", output)
		}
		if !strings.Contains(output, "  - Newcomer") {
			t.Errorf("missing discovery, got: %s", output)
		}
		if !strings.Contains(output, "Consistent favorites:\n  (none)") {
			t.Errorf("missing empty favorites, got: %s", output)
		}
	})

	t.Run("NowPlayingToText", func(t *testing.T) {
		if got := string(NowPlayingToText(nil, 0)); got != "Nothing playing right now\n" {
			t.Errorf("unexpected idle output %q", got)
		}

		np := &models.NowPlaying{IsPlaying: false, Track: &models.NowPlayingTrack{
			ID: "t", Name: "Song", Artists: []models.ArtistRef{{Name: "A"}}, DurationMS: 200000,
		}}
		output := string(NowPlayingToText(np, 100000))
		if !strings.Contains(output, "Paused") {
			t.Errorf("expected paused status, got: %s", output)
		}
		if !strings.Contains(output, "1:40 / 3:20") {
			t.Errorf("expected progress timestamps, got: %s", output)
		}
	})

	t.Run("ProgressBar", func(t *testing.T) {
		if got := ProgressBar(50, 100, 10); got != "━━━━━─────" {
			t.Errorf("unexpected bar %q", got)
		}
		if got := ProgressBar(500, 100, 4); got != "━━━━" {
			t.Errorf("expected clamp, got %q", got)
		}
		if got := ProgressBar(10, 0, 3); got != "───" {
			t.Errorf("expected empty bar for unknown duration, got %q", got)
		}
	})

	t.Run("HeatmapToText", func(t *testing.T) {
		day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) // Wednesday
		hm := models.Heatmap{
			Range: models.Weekly,
			Days:  []models.DayActivity{{Date: day, Count: 12, Level: 4}},
			Weeks: [][]models.DayActivity{{
				{Count: -1}, {Count: -1}, {Count: -1},
				{Date: day, Count: 12, Level: 4},
				{Count: -1}, {Count: -1}, {Count: -1},
			}},
			Total: 12,
		}
		output := string(HeatmapToText(hm))

		if !strings.Contains(output, "12 plays in the last 1 days") {
			t.Errorf("missing summary, got: %s", output)
		}
		lines := strings.Split(output, "\n")
		if lines[5] != "    █" {
			t.Errorf("expected Wednesday cell filled, got %q", lines[5])
		}
		if len(HeatmapTable(hm).Rows) != 1 {
			t.Error("expected one active day")
		}
	})

	t.Run("ProfileToText", func(t *testing.T) {
		output := string(ProfileToText(&models.Profile{ID: "u1", DisplayName: "Jo", Product: "premium", Followers: 3}))

		if !strings.Contains(output, "Signed in as Jo (u1)") {
			t.Errorf("missing name, got: %s", output)
		}
		if !strings.Contains(output, "Plan: premium") || !strings.Contains(output, "Followers: 3") {
			t.Errorf("missing details, got: %s", output)
		}
	})
}
