package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
)

const defaultWidth = 100

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PlaylistView:
		body = m.renderPlaylist()
	default:
		body = m.renderDashboard()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body)
}

func (m *Model) renderHeader() string {
	tabs := []string{"Dashboard", "Playlist Tool"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if ViewState(i) == m.view {
			rendered[i] = styles.onTab.Render(t)
		} else {
			rendered[i] = styles.tab.Render(t)
		}
	}

	user := ""
	if m.profile != nil {
		user = styles.help.Render("  signed in as " + m.profile.Name())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.title.Render("Rhythm Radar "),
		strings.Join(rendered, ""),
		user,
	) + "\n"
}

func (m *Model) cardWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	return max((w-6)/2, 30)
}

func (m *Model) card(title, body string) string {
	w := m.cardWidth()
	return styles.card.Width(w).Render(styles.title.Render(title) + "\n" + body)
}

func (m *Model) renderDashboard() string {
	rangeLine := fmt.Sprintf("Time range: %s", styles.ok.Render(m.params.TimeRange.Label()))

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Now Playing", m.renderNowPlaying()),
		m.card("Listening Stats", m.renderStats()),
	)
	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Top Artists", m.renderArtists()),
		m.card("Top Tracks", m.renderTracks()),
	)

	parts := []string{rangeLine, top, lists}
	if m.deps.Activity != nil {
		parts = append(parts, m.card("Listening Activity", m.renderHeatmap()))
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.short, m.keys.medium, m.keys.long, m.keys.refresh, m.keys.switchTab, m.keys.quit})
	parts = append(parts, helpView)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) loading(label string) string {
	return m.spinner.View() + " " + styles.help.Render(label)
}

func (m *Model) stateBody(loading bool, errMsg string, empty bool, emptyMsg string) (string, bool) {
	switch {
	case loading:
		return m.loading("Loading..."), true
	case errMsg != "":
		return styles.err.Render(errMsg), true
	case empty:
		return styles.help.Render(emptyMsg), true
	}
	return "", false
}

func (m *Model) renderNowPlaying() string {
	if m.playingErr != "" {
		return styles.err.Render(m.playingErr)
	}
	if m.playing == nil {
		if m.deps.NowPlaying.State().Loading {
			return m.loading("Loading...")
		}
		return styles.help.Render("Nothing playing right now")
	}
	np := m.playing
	if np.Track == nil {
		return styles.help.Render("Nothing playing right now")
	}

	width := m.cardWidth() - 4
	progress := np.ProgressAt(m.now().Sub(m.playingAt))
	status := styles.ok.Render("▶ Playing")
	if !np.IsPlaying {
		status = styles.warn.Render("⏸ Paused")
	}
	barWidth := max(width-14, 10)
	return strings.Join([]string{
		status,
		formatter.Truncate(np.Track.Name, width),
		styles.help.Render(formatter.Truncate(models.ArtistNames(np.Track.Artists), width)),
		fmt.Sprintf("%s %s / %s",
			formatter.ProgressBar(progress, np.Track.DurationMS, barWidth),
			shared.FormatDuration(progress),
			shared.FormatDuration(np.Track.DurationMS),
		),
	}, "\n")
}

func (m *Model) renderStats() string {
	s := m.stats
	if body, ok := m.stateBody(s.Loading, s.Error, s.Data == nil, "No stats yet"); ok {
		return body
	}
	width := m.cardWidth() - 4
	genres := s.Data.Genres(m.params.TimeRange)
	lines := []string{
		fmt.Sprintf("Recently played: %d tracks", s.Data.RecentCount),
		"Top genres: " + formatter.Truncate(strings.Join(genres[:min(len(genres), 5)], ", "), width-12),
	}
	if d := s.Data.Trend.NewDiscoveries; len(d) > 0 {
		lines = append(lines, "New: "+formatter.Truncate(models.ArtistNames(d), width-5))
	}
	if f := s.Data.Trend.ConsistentFavorites; len(f) > 0 {
		lines = append(lines, "Favorites: "+formatter.Truncate(models.ArtistNames(f), width-11))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderArtists() string {
	s := m.artists
	if body, ok := m.stateBody(s.Loading, s.Error, s.Data == nil || len(*s.Data) == 0, "No top artists for this range"); ok {
		return body
	}
	width := m.cardWidth() - 8
	lines := make([]string, len(*s.Data))
	for i, a := range *s.Data {
		lines[i] = fmt.Sprintf("%2d. %s", i+1, formatter.Truncate(a.Name, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTracks() string {
	s := m.tracks
	if body, ok := m.stateBody(s.Loading, s.Error, s.Data == nil || len(*s.Data) == 0, "No top tracks for this range"); ok {
		return body
	}
	width := m.cardWidth() - 8
	lines := make([]string, len(*s.Data))
	for i, t := range *s.Data {
		label := fmt.Sprintf("%s · %s", t.Name, models.ArtistNames(t.Artists))
		lines[i] = fmt.Sprintf("%2d. %s", i+1, formatter.Truncate(label, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeatmap() string {
	if m.heatErr != nil {
		return styles.err.Render("Failed to load activity")
	}
	if m.heatmap == nil {
		return m.loading("Loading...")
	}
	return strings.TrimRight(string(formatter.HeatmapToText(*m.heatmap)), "\n")
}

func (m *Model) renderPlaylist() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Import a playlist") + "\n")
	b.WriteString(m.urlInput.View() + "\n\n")

	ws := m.ws
	switch {
	case ws.Loading && ws.Playlist == nil:
		b.WriteString(m.loading("Loading playlist...") + "\n")
	case ws.Playlist != nil:
		b.WriteString(fmt.Sprintf("%s by %s · %d of %d selected\n",
			ws.Playlist.Playlist.Name, ws.Playlist.Playlist.Owner, len(ws.Selected), len(ws.Playlist.Tracks)))
		b.WriteString(m.trackList.View() + "\n")
	}

	if m.focus == focusName {
		b.WriteString("\n" + m.nameInput.View() + "\n")
	}
	if m.progress != nil {
		b.WriteString(fmt.Sprintf("\n[%d/%d] %s\n", m.progress.Step, m.progress.Total, m.progress.Message))
	}
	if ws.Error != "" {
		b.WriteString("\n" + styles.err.Render(ws.Error) + "\n")
		if created, ok := tasks.IsPartial(m.copyErr); ok {
			b.WriteString(styles.warn.Render(fmt.Sprintf("Playlist %q was created but is empty", created.Name)) + "\n")
		}
	}
	if ws.SuccessMessage != "" {
		b.WriteString("\n" + styles.ok.Render("✓ "+ws.SuccessMessage) + "\n")
		if m.copiedURL != "" {
			b.WriteString(styles.help.Render(m.copiedURL) + "\n")
		}
	}

	var keys []key.Binding
	switch m.focus {
	case focusURL:
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.switchTab}
	case focusName:
		keys = []key.Binding{m.keys.enter, m.keys.back}
	default:
		keys = []key.Binding{m.keys.toggle, m.keys.all, m.keys.clear, m.keys.name, m.keys.search, m.keys.switchTab, m.keys.quit}
	}
	b.WriteString("\n" + m.help.ShortHelpView(keys))
	return b.String()
}
