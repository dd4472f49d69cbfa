package analytics

import (
	"math"
	"time"

	"github.com/lazypower/cadence/internal/store"
)

// StatsResult is one habit's completion rate over a trailing window.
// Total is always the window size: a habit created mid-window contributes 0
// for days before its creation, keeping percentages comparable across habits
// of different ages.
type StatsResult struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Stats counts completed days in the windowDays-day window ending at and
// including asOf. windowDays is assumed normalized by Window, so it is >= 1
// and division by zero cannot occur. Percentage is rounded to one decimal.
func Stats(logs []store.HabitLog, windowDays int, asOf time.Time) StatsResult {
	end := Day(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))

	completed := 0
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		d := Day(l.Date)
		if !d.Before(start) && !d.After(end) {
			completed++
		}
	}

	return StatsResult{
		Completed:  completed,
		Total:      windowDays,
		Percentage: round1(float64(completed) / float64(windowDays) * 100),
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
