package analytics

import (
	"sort"
	"time"

	"github.com/lazypower/cadence/internal/store"
)

// HabitStats pairs a habit with its windowed completion stats.
type HabitStats struct {
	HabitID int64 `json:"habit_id"`
	StatsResult
}

// RollupResult averages completion percentage across a habit set. The
// aggregator is agnostic to what produced the set; category and tag rollups
// both feed it via the filter.
type RollupResult struct {
	// AveragePercentage is the arithmetic mean of per-habit percentages.
	// For an empty set it is 0 with NoData set: a category with no habits is
	// "no data", not a literal zero rate.
	AveragePercentage float64      `json:"average_percentage"`
	NoData            bool         `json:"no_data"`
	PerHabit          []HabitStats `json:"per_habit"`
}

// Rollup runs Stats per habit in the set and averages the percentages.
// PerHabit is ordered by habit id for a stable result.
func Rollup(logsByHabit map[int64][]store.HabitLog, windowDays int, asOf time.Time) RollupResult {
	if len(logsByHabit) == 0 {
		return RollupResult{NoData: true}
	}

	ids := make([]int64, 0, len(logsByHabit))
	for id := range logsByHabit {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sum float64
	perHabit := make([]HabitStats, 0, len(ids))
	for _, id := range ids {
		s := Stats(logsByHabit[id], windowDays, asOf)
		sum += s.Percentage
		perHabit = append(perHabit, HabitStats{HabitID: id, StatsResult: s})
	}

	return RollupResult{
		AveragePercentage: round1(sum / float64(len(ids))),
		PerHabit:          perHabit,
	}
}
