// package formatter renders dashboard data as plain text, CSV, Markdown, JSON or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{Text, CSV, Markdown, JSON, YAML}

// MaxColumnWidth caps text table cells; longer values are truncated with an ellipsis.
const MaxColumnWidth = 40

// ParseFormat validates s. An empty string selects [Text].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: format %q (expected one of text, csv, markdown, json, yaml)", shared.ErrInvalidFlag, s)
	}
}

// Structured reports whether f encodes values directly instead of through a [Table].
func (f Format) Structured() bool {
	return f == JSON || f == YAML
}

// Table is a titled grid of cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s is not a structured format", shared.ErrInvalidFlag, f)
	}
	return nil
}

// WriteTable writes t as text, CSV or Markdown.
func WriteTable(w io.Writer, f Format, t Table) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case CSV:
		data, err = TableToCSV(t)
	case Markdown:
		data = TableToMarkdown(t)
	case Text:
		data = TableToText(t)
	default:
		return fmt.Errorf("%w: %s cannot render a table", shared.ErrInvalidFlag, f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// TableToCSV writes the headers followed by one record per row. The title is omitted.
func TableToCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// TableToMarkdown renders a GitHub-flavored table under an optional heading.
func TableToMarkdown(t Table) []byte {
	var buf bytes.Buffer
	if t.Title != "" {
		fmt.Fprintf(&buf, "## %s\n\n", t.Title)
	}

	buf.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return buf.Bytes()
}

// TableToText aligns columns by display width. Wide runes count double.
func TableToText(t Table) []byte {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], min(runewidth.StringWidth(c), MaxColumnWidth))
			}
		}
	}

	var buf bytes.Buffer
	if t.Title != "" {
		fmt.Fprintf(&buf, "%s\n\n", t.Title)
	}
	writeLine := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			var c string
			if i < len(cells) {
				c = Truncate(cells[i], widths[i])
			}
			parts[i] = runewidth.FillRight(c, widths[i])
		}
		buf.WriteString(strings.TrimRight(strings.Join(parts, "  "), " ") + "\n")
	}

	writeLine(t.Headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeLine(rule)
	for _, row := range t.Rows {
		writeLine(row)
	}
	return buf.Bytes()
}

// Truncate shortens s to width display cells, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// ArtistsTable lists ranked artists.
func ArtistsTable(tr models.TimeRange, artists []models.Artist) Table {
	t := Table{
		Title:   fmt.Sprintf("Top Artists (%s)", tr.Label()),
		Headers: []string{"#", "Artist", "Genres", "Popularity", "URL"},
	}
	for i, a := range artists {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			a.Name,
			strings.Join(a.Genres, ", "),
			strconv.Itoa(a.Popularity),
			a.ExternalURLs.Spotify(),
		})
	}
	return t
}

// TracksTable lists ranked tracks.
func TracksTable(tr models.TimeRange, tracks []models.Track) Table {
	t := Table{
		Title:   fmt.Sprintf("Top Tracks (%s)", tr.Label()),
		Headers: []string{"#", "Track", "Artists", "Album", "Popularity", "URL"},
	}
	for i, tk := range tracks {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			tk.Name,
			models.ArtistNames(tk.Artists),
			tk.Album.Name,
			strconv.Itoa(tk.Popularity),
			tk.ExternalURLs.Spotify(),
		})
	}
	return t
}

// PlaylistTable lists an imported playlist, marking selected tracks when selected is non-nil.
func PlaylistTable(p *models.PlaylistData, selected func(id string) bool) Table {
	t := Table{
		Title:   fmt.Sprintf("%s by %s (%d tracks)", p.Playlist.Name, p.Playlist.Owner, p.Playlist.TracksTotal),
		Headers: []string{"#", "ID", "Track", "Artists", "Album", "Duration"},
	}
	if selected != nil {
		t.Headers = append([]string{"Sel"}, t.Headers...)
	}
	for i, tk := range p.Tracks {
		row := []string{
			strconv.Itoa(i + 1),
			tk.ID,
			tk.Name,
			models.ArtistNames(tk.Artists),
			tk.Album.Name,
			shared.FormatDuration(tk.DurationMS),
		}
		if selected != nil {
			mark := "[ ]"
			if selected(tk.ID) {
				mark = "[x]"
			}
			row = append([]string{mark}, row...)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// UserPlaylistsTable lists the playlists the user can add to.
func UserPlaylistsTable(playlists []models.PlaylistSummary) Table {
	t := Table{Title: "Your Playlists", Headers: []string{"ID", "Name", "Tracks"}}
	for _, p := range playlists {
		t.Rows = append(t.Rows, []string{p.ID, p.Name, strconv.Itoa(p.TracksTotal)})
	}
	return t
}

// PlaysTable lists recorded plays, newest first.
func PlaysTable(plays []models.Play) Table {
	t := Table{Title: "Recent Plays", Headers: []string{"Played At", "Track", "Artist"}}
	for _, p := range plays {
		t.Rows = append(t.Rows, []string{p.PlayedAt.Local().Format("2006-01-02 15:04"), p.TrackName, p.Artist})
	}
	return t
}

// GenresTable compares top genres across the three time ranges.
func GenresTable(s *models.ListeningStats) Table {
	t := Table{Title: "Top Genres", Headers: []string{"#"}}
	n := 0
	for _, tr := range models.TimeRanges {
		t.Headers = append(t.Headers, tr.Label())
		n = max(n, len(s.Genres(tr)))
	}
	for i := range n {
		row := []string{strconv.Itoa(i + 1)}
		for _, tr := range models.TimeRanges {
			g := s.Genres(tr)
			if i < len(g) {
				row = append(row, g[i])
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// StatsToText summarizes listening stats.
func StatsToText(s *models.ListeningStats) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Recently played: %d tracks\n\n", s.RecentCount)
	buf.Write(TableToText(GenresTable(s)))

	writeArtists := func(label string, artists []models.ArtistRef) {
		fmt.Fprintf(&buf, "\n%s:\n", label)
		if len(artists) == 0 {
			buf.WriteString("  (none)\n")
			return
		}
		for _, a := range artists {
			fmt.Fprintf(&buf, "  - %s\n", a.Name)
		}
	}
	writeArtists("New discoveries", s.Trend.NewDiscoveries)
	writeArtists("Consistent favorites", s.Trend.ConsistentFavorites)
	return buf.Bytes()
}

// ProgressBar draws a fixed-width bar for progress out of duration milliseconds.
func ProgressBar(progress, duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if duration > 0 {
		filled = min(width, max(0, progress*width/duration))
	}
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// NowPlayingToText renders the playing track with progress at progressMS.
func NowPlayingToText(np *models.NowPlaying, progressMS int) []byte {
	if np == nil || np.Track == nil {
		return []byte("Nothing playing right now\n")
	}
	tk := np.Track
	status := "▶ Playing"
	if !np.IsPlaying {
		status = "⏸ Paused"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%s\n%s", status, tk.Name, models.ArtistNames(tk.Artists))
	if tk.Album.Name != "" {
		fmt.Fprintf(&buf, " · %s", tk.Album.Name)
	}
	fmt.Fprintf(&buf, "\n%s %s / %s\n",
		ProgressBar(progressMS, tk.DurationMS, 30),
		shared.FormatDuration(progressMS),
		shared.FormatDuration(tk.DurationMS),
	)
	if u := tk.ExternalURLs.Spotify(); u != "" {
		fmt.Fprintf(&buf, "%s\n", u)
	}
	return buf.Bytes()
}

// HeatmapCells maps activity levels 0 through 4 to glyphs.
var HeatmapCells = [5]string{"·", "░", "▒", "▓", "█"}

var weekdayLabels = [7]string{"Sun", "", "Tue", "", "Thu", "", "Sat"}

// HeatmapToText draws one row per weekday and one column per week.
func HeatmapToText(hm models.Heatmap) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d plays in the last %d days\n\n", hm.Total, len(hm.Days))

	for d := range 7 {
		buf.WriteString(runewidth.FillRight(weekdayLabels[d], 4))
		for _, week := range hm.Weeks {
			cell := week[d]
			if cell.Padding() {
				buf.WriteString(" ")
			} else {
				buf.WriteString(HeatmapCells[min(max(cell.Level, 0), 4)])
			}
		}
		buf.WriteString("\n")
	}
	fmt.Fprintf(&buf, "\n    Less %s More\n", strings.Join(HeatmapCells[:], ""))
	return buf.Bytes()
}

// HeatmapTable lists days with at least one play.
func HeatmapTable(hm models.Heatmap) Table {
	t := Table{Title: "Listening Activity", Headers: []string{"Date", "Plays", "Level"}}
	for _, d := range hm.Days {
		if d.Count > 0 {
			t.Rows = append(t.Rows, []string{d.Date.Format("2006-01-02"), strconv.Itoa(d.Count), strconv.Itoa(d.Level)})
		}
	}
	return t
}

// ProfileToText renders the signed-in user.
func ProfileToText(p *models.Profile) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Signed in as %s", p.Name())
	if p.ID != "" && p.ID != p.Name() {
		fmt.Fprintf(&buf, " (%s)", p.ID)
	}
	buf.WriteString("\n")
	if p.Email != "" {
		fmt.Fprintf(&buf, "Email: %s\n", p.Email)
	}
	if p.Product != "" {
		fmt.Fprintf(&buf, "Plan: %s\n", p.Product)
	}
	fmt.Fprintf(&buf, "Followers: %d\n", p.Followers)
	return buf.Bytes()
}
