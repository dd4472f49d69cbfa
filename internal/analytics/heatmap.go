package analytics

import (
	"time"

	"github.com/lazypower/cadence/internal/store"
)

// HeatmapDay is one calendar day's completion density across a habit set.
type HeatmapDay struct {
	Date           time.Time `json:"date"`
	CompletedCount int       `json:"completed_count"`
	TotalHabits    int       `json:"total_habits"`
	// Density is CompletedCount / TotalHabits. For an empty habit set it is
	// 0 with TotalHabits 0, which the caller must read as "no data" rather
	// than a zero-density day.
	Density float64 `json:"density"`
}

// Heatmap produces one entry per calendar day in the windowDays-day window
// ending at asOf, oldest first. Each call recomputes fully from the logs
// passed in; nothing is cached between calls.
func Heatmap(logsByHabit map[int64][]store.HabitLog, windowDays int, asOf time.Time) []HeatmapDay {
	end := Day(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))
	total := len(logsByHabit)

	// Count habits completed per day across the whole set.
	counts := make(map[time.Time]int)
	for _, logs := range logsByHabit {
		for _, l := range logs {
			if !l.Completed {
				continue
			}
			d := Day(l.Date)
			if !d.Before(start) && !d.After(end) {
				counts[d]++
			}
		}
	}

	days := make([]HeatmapDay, 0, windowDays)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		entry := HeatmapDay{
			Date:           d,
			CompletedCount: counts[d],
			TotalHabits:    total,
		}
		if total > 0 {
			entry.Density = float64(entry.CompletedCount) / float64(total)
		}
		days = append(days, entry)
	}
	return days
}
