package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/radar/internal/shared"
)

// Play is a track observed as playing by the now-playing poll.
type Play struct {
	ID        string    `json:"id" yaml:"id"`
	TrackID   string    `json:"track_id" yaml:"track_id"`
	TrackName string    `json:"track_name" yaml:"track_name"`
	Artist    string    `json:"artist" yaml:"artist"`
	PlayedAt  time.Time `json:"played_at" yaml:"played_at"`
}

func (p Play) Validate() error {
	if err := required("play", [2]string{"track_id", p.TrackID}, [2]string{"track_name", p.TrackName}); err != nil {
		return err
	}
	if p.PlayedAt.IsZero() {
		return fmt.Errorf("%w: play missing played_at", shared.ErrInvalidInput)
	}
	return nil
}

// ActivityRange selects how many days the heatmap covers.
type ActivityRange string

const (
	Weekly  ActivityRange = "weekly"
	Monthly ActivityRange = "monthly"
	Yearly  ActivityRange = "yearly"
)

// Days returns the span of the range.
func (r ActivityRange) Days() int {
	switch r {
	case Weekly:
		return 56
	case Yearly:
		return 365
	default:
		return 30
	}
}

// ParseActivityRange validates s.
func ParseActivityRange(s string) (ActivityRange, error) {
	switch r := ActivityRange(s); r {
	case Weekly, Monthly, Yearly:
		return r, nil
	case "":
		return Monthly, nil
	default:
		return "", fmt.Errorf("%w: activity range %q", shared.ErrInvalidArgument, s)
	}
}

// DayActivity is one heatmap cell. Padding cells before the first day have Count -1.
type DayActivity struct {
	Date  time.Time `json:"date" yaml:"date"`
	Count int       `json:"count" yaml:"count"`
	Level int       `json:"level" yaml:"level"`
}

// Padding reports whether the cell only aligns the first week.
func (d DayActivity) Padding() bool {
	return d.Count < 0
}

// Heatmap is the activity grid, one slice of seven days per week starting on Sunday.
type Heatmap struct {
	Range ActivityRange   `json:"range" yaml:"range"`
	Days  []DayActivity   `json:"days" yaml:"days"`
	Weeks [][]DayActivity `json:"-" yaml:"-"`
	Total int             `json:"total" yaml:"total"`
}
