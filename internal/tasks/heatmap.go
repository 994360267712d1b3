package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/radar/internal/models"
)

const dateLayout = "2006-01-02"

// ActivityLevel buckets a daily play count into an intensity from 0 to 4.
func ActivityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count < 3:
		return 1
	case count < 6:
		return 2
	case count < 10:
		return 3
	default:
		return 4
	}
}

// BuildHeatmap lays out counts (keyed by YYYY-MM-DD) for the days of r ending on now.
//
// Weeks start on Sunday; the first and last weeks are padded with cells whose Count is -1.
func BuildHeatmap(counts map[string]int, r models.ActivityRange, now time.Time) models.Heatmap {
	n := r.Days()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -(n - 1))

	hm := models.Heatmap{Range: r, Days: make([]models.DayActivity, 0, n)}
	for i := range n {
		day := start.AddDate(0, 0, i)
		c := counts[day.Format(dateLayout)]
		hm.Days = append(hm.Days, models.DayActivity{Date: day, Count: c, Level: ActivityLevel(c)})
		hm.Total += c
	}

	week := make([]models.DayActivity, 0, 7)
	for range int(start.Weekday()) {
		week = append(week, models.DayActivity{Count: -1})
	}
	for _, d := range hm.Days {
		if len(week) == 7 {
			hm.Weeks = append(hm.Weeks, week)
			week = make([]models.DayActivity, 0, 7)
		}
		week = append(week, d)
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, models.DayActivity{Count: -1})
		}
		hm.Weeks = append(hm.Weeks, week)
	}
	return hm
}

// DailyCounter reports plays per local calendar day since a point in time.
type DailyCounter interface {
	DailyCounts(ctx context.Context, since time.Time, loc *time.Location) (map[string]int, error)
}

// LoadHeatmap reads counts for r from src and lays them out ending on now.
func LoadHeatmap(ctx context.Context, src DailyCounter, r models.ActivityRange, now time.Time) (models.Heatmap, error) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := end.AddDate(0, 0, -(r.Days() - 1))

	counts, err := src.DailyCounts(ctx, since, now.Location())
	if err != nil {
		return models.Heatmap{Range: r}, fmt.Errorf("failed to load activity: %w", err)
	}
	return BuildHeatmap(counts, r, now), nil
}
