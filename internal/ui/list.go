package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.PlaylistTrack] with its selection mark to implement [list.Item].
type trackItem struct {
	track    models.PlaylistTrack
	selected bool
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.track.Name)
}
func (i trackItem) Description() string {
	desc := models.ArtistNames(i.track.Artists)
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return fmt.Sprintf("    %s • %s", desc, shared.FormatDuration(i.track.DurationMS))
}

func trackItems(p *models.PlaylistData, selected func(string) bool) []list.Item {
	if p == nil {
		return nil
	}
	items := make([]list.Item, len(p.Tracks))
	for i, t := range p.Tracks {
		items[i] = trackItem{track: t, selected: selected(t.ID)}
	}
	return items
}
