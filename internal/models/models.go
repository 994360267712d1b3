// package models defines the data model for the radar dashboard
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/radar/internal/shared"
)

// Validator is implemented by every payload decoded from the backend.
type Validator interface {
	Validate() error
}

// TimeRange is the aggregation window for top artists and tracks.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// TimeRanges lists the supported ranges in display order.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// ParseTimeRange accepts the wire names as well as the short aliases short, medium and long.
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short_term", "short":
		return ShortTerm, nil
	case "medium_term", "medium", "":
		return MediumTerm, nil
	case "long_term", "long":
		return LongTerm, nil
	default:
		return "", fmt.Errorf("%w: time range %q", shared.ErrInvalidArgument, s)
	}
}

// Label returns a human readable name.
func (t TimeRange) Label() string {
	switch t {
	case ShortTerm:
		return "Last 4 Weeks"
	case MediumTerm:
		return "Last 6 Months"
	case LongTerm:
		return "All Time"
	default:
		return string(t)
	}
}

// Image is an artwork rendition.
type Image struct {
	URL    string `json:"url" yaml:"url"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
}

// ExternalURLs maps a provider name to its web URL.
type ExternalURLs map[string]string

// Spotify returns the provider web URL, if any.
func (e ExternalURLs) Spotify() string {
	return e["spotify"]
}

// required reports a [shared.ErrInvalidResponse] naming the first empty field.
func required(kind string, fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%w: %s missing %s", shared.ErrInvalidResponse, kind, f[0])
		}
	}
	return nil
}
