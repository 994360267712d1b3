package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/radar/internal/shared"
)

// Artist is a top artist entry.
type Artist struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Popularity   int          `json:"popularity" yaml:"popularity"`
	Genres       []string     `json:"genres" yaml:"genres"`
	Images       []Image      `json:"images" yaml:"images,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls" yaml:"external_urls,omitempty"`
}

func (a Artist) Validate() error {
	return required("artist", [2]string{"id", a.ID}, [2]string{"name", a.Name})
}

// ArtistRef is the id/name pair embedded in tracks and trends.
type ArtistRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AlbumRef is the album summary embedded in tracks.
type AlbumRef struct {
	Name   string  `json:"name" yaml:"name"`
	Images []Image `json:"images" yaml:"images,omitempty"`
}

// Track is a top track entry.
type Track struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Album        AlbumRef     `json:"album" yaml:"album"`
	Artists      []ArtistRef  `json:"artists" yaml:"artists"`
	Popularity   int          `json:"popularity" yaml:"popularity"`
	PreviewURL   *string      `json:"preview_url" yaml:"preview_url,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls" yaml:"external_urls,omitempty"`
}

func (t Track) Validate() error {
	return required("track", [2]string{"id", t.ID}, [2]string{"name", t.Name})
}

// ArtistNames joins the credited artists with ", ".
func ArtistNames(artists []ArtistRef) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// TopArtists is the /api/top-artists payload.
type TopArtists struct {
	Artists []Artist `json:"artists" yaml:"artists"`
}

func (p TopArtists) Validate() error {
	if p.Artists == nil {
		return fmt.Errorf("%w: missing artists", shared.ErrInvalidResponse)
	}
	return validateAll(p.Artists)
}

// TopTracks is the /api/top-tracks payload.
type TopTracks struct {
	Tracks []Track `json:"tracks" yaml:"tracks"`
}

func (p TopTracks) Validate() error {
	if p.Tracks == nil {
		return fmt.Errorf("%w: missing tracks", shared.ErrInvalidResponse)
	}
	return validateAll(p.Tracks)
}

// Trend compares the top artists of the short window against the longer ones.
type Trend struct {
	NewDiscoveries      []ArtistRef `json:"new_discoveries" yaml:"new_discoveries"`
	ConsistentFavorites []ArtistRef `json:"consistent_favorites" yaml:"consistent_favorites"`
}

// ListeningStats is the /api/listening-stats payload.
type ListeningStats struct {
	RecentCount      int      `json:"recent_count" yaml:"recent_count"`
	ShortTermGenres  []string `json:"short_term_genres" yaml:"short_term_genres"`
	MediumTermGenres []string `json:"medium_term_genres" yaml:"medium_term_genres"`
	LongTermGenres   []string `json:"long_term_genres" yaml:"long_term_genres"`
	Trend            Trend    `json:"trend" yaml:"trend"`
}

func (s ListeningStats) Validate() error {
	if s.RecentCount < 0 {
		return fmt.Errorf("%w: negative recent_count", shared.ErrInvalidResponse)
	}
	for _, a := range slices.Concat(s.Trend.NewDiscoveries, s.Trend.ConsistentFavorites) {
		if err := required("trend artist", [2]string{"id", a.ID}); err != nil {
			return err
		}
	}
	return nil
}

// Genres returns the genre list for r.
func (s ListeningStats) Genres(r TimeRange) []string {
	switch r {
	case ShortTerm:
		return s.ShortTermGenres
	case LongTerm:
		return s.LongTermGenres
	default:
		return s.MediumTermGenres
	}
}

func validateAll[T Validator](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
