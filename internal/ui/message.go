package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgArtistsLoaded MsgKind = iota
	MsgTracksLoaded
	MsgStatsLoaded
	MsgNowPlayingChanged
	MsgProfileLoaded
	MsgHeatmapLoaded
	MsgPlaylistFetched
	MsgProgressUpdate
	MsgPlaylistCopied
	MsgTick
)

// loadedMsg signals that a hook finished; the model reads the hook's state on receipt.
func loadedMsg(kind MsgKind) Msg {
	return Msg{kind: kind}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(profile *models.Profile, err error) Msg {
	return Msg{
		kind: MsgProfileLoaded,
		data: struct {
			profile *models.Profile
			err     error
		}{profile, err},
	}
}

// heatmapLoadedMsg is the constructor for [MsgHeatmapLoaded]
func heatmapLoadedMsg(hm models.Heatmap, err error) Msg {
	return Msg{
		kind: MsgHeatmapLoaded,
		data: struct {
			heatmap models.Heatmap
			err     error
		}{hm, err},
	}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// playlistCopiedMsg is the constructor for [MsgPlaylistCopied]
func playlistCopiedMsg(url string, err error) Msg {
	return Msg{
		kind: MsgPlaylistCopied,
		data: struct {
			url string
			err error
		}{url, err},
	}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg(t time.Time) Msg {
	return Msg{kind: MsgTick, data: t}
}
