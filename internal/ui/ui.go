package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	PlaylistView
)

// focus is the playlist view widget receiving keys.
type focus int

const (
	focusURL focus = iota
	focusList
	focusName
)

// ProfileSource fetches the signed-in user.
type ProfileSource interface {
	Profile(ctx context.Context) (*models.Profile, error)
}

// Dashboard bundles the hooks the TUI renders. Profile and Activity are optional.
type Dashboard struct {
	Artists    *tasks.TopList[models.Artist]
	Tracks     *tasks.TopList[models.Track]
	Stats      *tasks.ListeningStats
	NowPlaying *tasks.NowPlaying
	Playlist   *tasks.PlaylistTool
	Profile    ProfileSource
	Activity   tasks.DailyCounter
	Recorder   *tasks.ActivityRecorder

	TimeRange     models.TimeRange
	Limit         int
	ActivityRange models.ActivityRange
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	deps   Dashboard
	view   ViewState
	width  int
	height int
	now    func() time.Time

	params     tasks.TopParams
	artists    tasks.State[[]models.Artist]
	tracks     tasks.State[[]models.Track]
	stats      tasks.State[models.ListeningStats]
	playing    *models.NowPlaying
	playingAt  time.Time
	playingErr string
	profile    *models.Profile
	heatmap    *models.Heatmap
	heatErr    error

	npChan   chan struct{}
	stopPoll func()

	focus        focus
	urlInput     textinput.Model
	nameInput    textinput.Model
	trackList    list.Model
	ws           tasks.WorkingSet
	progressChan chan tasks.ProgressUpdate
	copyDone     chan Msg
	progress     *tasks.ProgressUpdate
	copiedURL    string
	copyErr      error

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model over the provided hooks.
func NewModel(ctx context.Context, d Dashboard) *Model {
	ctx, cancel := context.WithCancel(ctx)
	if d.Limit <= 0 {
		d.Limit = tasks.DefaultTopParams.Limit
	}
	if d.TimeRange == "" {
		d.TimeRange = models.MediumTerm
	}
	if d.ActivityRange == "" {
		d.ActivityRange = models.Monthly
	}

	url := textinput.New()
	url.Placeholder = "https://open.spotify.com/playlist/..."
	url.CharLimit = 200
	url.Width = 60

	name := textinput.New()
	name.Placeholder = "New playlist name"
	name.CharLimit = 100
	name.Width = 40

	tracks := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tracks.Title = "Tracks"
	tracks.SetShowHelp(false)
	tracks.SetFilteringEnabled(false)

	m := &Model{
		ctx:       ctx,
		cancel:    cancel,
		deps:      d,
		view:      DashboardView,
		now:       time.Now,
		params:    tasks.TopParams{TimeRange: d.TimeRange, Limit: d.Limit},
		npChan:    make(chan struct{}, 1),
		urlInput:  url,
		nameInput: name,
		trackList: tracks,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.help)),
		help:      help.New(),
		keys:      newKeyMap(),
	}

	// The recorder subscribes first so the heatmap reload sees the new play.
	if d.Recorder != nil {
		d.Recorder.Attach(ctx, d.NowPlaying)
	}
	d.NowPlaying.Subscribe(func(tasks.State[models.NowPlaying]) {
		select {
		case m.npChan <- struct{}{}:
		default:
		}
	})
	return m
}

// Init loads every card and starts the now-playing poll.
func (m *Model) Init() tea.Cmd {
	m.stopPoll = m.deps.NowPlaying.Start(m.ctx)
	return tea.Batch(
		m.loadTop(m.params),
		m.loadStats(),
		m.loadProfile(),
		m.loadHeatmap(),
		m.waitForNowPlaying(),
		m.tick(),
		m.spinner.Tick,
	)
}

// Close stops polling and cancels outstanding requests.
func (m *Model) Close() {
	if m.stopPoll != nil {
		m.stopPoll()
	}
	m.cancel()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(max(msg.Width-4, 20), max(msg.Height-14, 5))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && (msg.String() == "ctrl+c" || !m.typing()) {
			m.Close()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.switchTab) {
			return m.switchView()
		}
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case PlaylistView:
			return m.handlePlaylistKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateWidgets(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgArtistsLoaded:
		m.artists = m.deps.Artists.State()
	case MsgTracksLoaded:
		m.tracks = m.deps.Tracks.State()
	case MsgStatsLoaded:
		m.stats = m.deps.Stats.State()
	case MsgNowPlayingChanged:
		if m.applyNowPlaying(m.deps.NowPlaying.State()) {
			return m, tea.Batch(m.waitForNowPlaying(), m.loadHeatmap())
		}
		return m, m.waitForNowPlaying()
	case MsgProfileLoaded:
		data := msg.data.(struct {
			profile *models.Profile
			err     error
		})
		m.profile = data.profile
	case MsgHeatmapLoaded:
		data := msg.data.(struct {
			heatmap models.Heatmap
			err     error
		})
		m.heatmap, m.heatErr = &data.heatmap, data.err
	case MsgPlaylistFetched:
		m.syncPlaylist()
		if m.ws.Playlist != nil {
			m.focus = focusList
			m.urlInput.Blur()
		}
	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = &update
		return m, m.waitForProgress()
	case MsgPlaylistCopied:
		data := msg.data.(struct {
			url string
			err error
		})
		m.copiedURL, m.copyErr = data.url, data.err
		m.progressChan = nil
		m.progress = nil
		m.syncPlaylist()
	case MsgTick:
		return m, m.tick()
	}
	return m, nil
}

// applyNowPlaying keeps the last track on screen while a poll is in flight.
// It reports whether the playing track changed.
func (m *Model) applyNowPlaying(s tasks.State[models.NowPlaying]) bool {
	before := trackID(m.playing)
	switch {
	case s.Data != nil:
		m.playing, m.playingAt, m.playingErr = s.Data, s.UpdatedAt, ""
	case s.Error != "":
		m.playing, m.playingErr = nil, s.Error
	}
	return trackID(m.playing) != before
}

func trackID(np *models.NowPlaying) string {
	if np == nil || np.Track == nil || !np.IsPlaying {
		return ""
	}
	return np.Track.ID
}

func (m *Model) typing() bool {
	return m.view == PlaylistView && m.focus != focusList
}

func (m *Model) switchView() (tea.Model, tea.Cmd) {
	if m.view == DashboardView {
		m.view = PlaylistView
		if m.ws.Playlist == nil {
			m.focus = focusURL
			return m, m.urlInput.Focus()
		}
		m.focus = focusList
		return m, nil
	}
	m.view = DashboardView
	m.urlInput.Blur()
	m.nameInput.Blur()
	return m, nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.short):
		return m, m.setRange(models.ShortTerm)
	case key.Matches(msg, m.keys.medium):
		return m, m.setRange(models.MediumTerm)
	case key.Matches(msg, m.keys.long):
		return m, m.setRange(models.LongTerm)
	case key.Matches(msg, m.keys.refresh):
		return m, tea.Batch(m.refreshTop(), m.loadStats(), m.loadHeatmap())
	}
	return m, nil
}

func (m *Model) setRange(tr models.TimeRange) tea.Cmd {
	if tr == m.params.TimeRange {
		return nil
	}
	m.params.TimeRange = tr
	return m.loadTop(m.params)
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusURL:
		switch {
		case key.Matches(msg, m.keys.enter):
			m.copiedURL, m.copyErr = "", nil
			return m, m.fetchPlaylist(m.urlInput.Value())
		case key.Matches(msg, m.keys.back):
			if m.ws.Playlist != nil {
				m.focus = focusList
				m.urlInput.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd

	case focusName:
		switch {
		case key.Matches(msg, m.keys.enter):
			m.nameInput.Blur()
			m.focus = focusList
			return m, m.startCopy(m.nameInput.Value())
		case key.Matches(msg, m.keys.back):
			m.nameInput.Blur()
			m.focus = focusList
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	tool := m.deps.Playlist
	switch {
	case key.Matches(msg, m.keys.search):
		m.focus = focusURL
		return m, m.urlInput.Focus()
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.trackList.SelectedItem().(trackItem); ok {
			m.ws = tool.ToggleTrackSelection(item.track.ID)
			m.refreshItems()
		}
		return m, nil
	case key.Matches(msg, m.keys.all):
		m.ws = tool.SelectAllTracks()
		m.refreshItems()
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.ws = tool.ClearSelection()
		m.refreshItems()
		return m, nil
	case key.Matches(msg, m.keys.name):
		if m.progressChan != nil {
			return m, nil
		}
		m.focus = focusName
		return m, m.nameInput.Focus()
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PlaylistView {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.focus {
	case focusURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	default:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncPlaylist() {
	m.ws = m.deps.Playlist.Snapshot()
	m.refreshItems()
}

func (m *Model) refreshItems() {
	idx := m.trackList.Index()
	m.trackList.SetItems(trackItems(m.ws.Playlist, m.ws.IsSelected))
	if m.ws.Playlist != nil {
		m.trackList.Title = m.ws.Playlist.Playlist.Name
		if idx < len(m.ws.Playlist.Tracks) {
			m.trackList.Select(idx)
		}
	}
}

func (m *Model) loadTop(p tasks.TopParams) tea.Cmd {
	m.artists.Loading, m.tracks.Loading = true, true
	return tea.Batch(
		func() tea.Msg {
			m.deps.Artists.SetParams(m.ctx, p)
			return loadedMsg(MsgArtistsLoaded)
		},
		func() tea.Msg {
			m.deps.Tracks.SetParams(m.ctx, p)
			return loadedMsg(MsgTracksLoaded)
		},
	)
}

func (m *Model) refreshTop() tea.Cmd {
	m.artists.Loading, m.tracks.Loading = true, true
	return tea.Batch(
		func() tea.Msg {
			m.deps.Artists.Refresh(m.ctx)
			return loadedMsg(MsgArtistsLoaded)
		},
		func() tea.Msg {
			m.deps.Tracks.Refresh(m.ctx)
			return loadedMsg(MsgTracksLoaded)
		},
	)
}

func (m *Model) loadStats() tea.Cmd {
	m.stats.Loading = true
	return func() tea.Msg {
		m.deps.Stats.Refresh(m.ctx)
		return loadedMsg(MsgStatsLoaded)
	}
}

func (m *Model) loadProfile() tea.Cmd {
	if m.deps.Profile == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := m.deps.Profile.Profile(m.ctx)
		return profileLoadedMsg(p, err)
	}
}

func (m *Model) loadHeatmap() tea.Cmd {
	if m.deps.Activity == nil {
		return nil
	}
	r, now := m.deps.ActivityRange, m.now()
	return func() tea.Msg {
		hm, err := tasks.LoadHeatmap(m.ctx, m.deps.Activity, r, now)
		return heatmapLoadedMsg(hm, err)
	}
}

func (m *Model) waitForNowPlaying() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.npChan:
			return loadedMsg(MsgNowPlayingChanged)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) fetchPlaylist(input string) tea.Cmd {
	tool := m.deps.Playlist
	return func() tea.Msg {
		tool.FetchPlaylist(m.ctx, input)
		return loadedMsg(MsgPlaylistFetched)
	}
}

func (m *Model) startCopy(name string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 10)
	m.copiedURL, m.copyErr = "", nil
	progress := m.progressChan
	tool := m.deps.Playlist

	done := make(chan Msg, 1)
	go func() {
		url, err := tool.CreatePlaylist(m.ctx, name, "", progress)
		close(progress)
		done <- playlistCopiedMsg(url, err)
	}()

	m.copyDone = done
	m.ws.Loading = true
	return m.waitForProgress()
}

// waitForProgress relays one update from the running copy. Once progress closes, the outcome follows.
func (m *Model) waitForProgress() tea.Cmd {
	if m.progressChan == nil {
		return nil
	}
	progress, done := m.progressChan, m.copyDone
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}
