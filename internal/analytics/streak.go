package analytics

import (
	"sort"
	"time"

	"github.com/lazypower/cadence/internal/store"
)

// StreakResult holds the streaks for one habit. Current is the run of
// consecutive completed days ending at today (or yesterday, when today is
// not yet logged); Best is the longest run ever observed.
type StreakResult struct {
	Current int `json:"current_streak"`
	Best    int `json:"best_streak"`
}

// Streaks computes current and best streak from a habit's full completion
// history. The logs need not be sorted. A habit with no completions yields
// {0, 0}.
func Streaks(logs []store.HabitLog, today time.Time) StreakResult {
	completed := make(map[time.Time]bool, len(logs))
	for _, l := range logs {
		if l.Completed {
			completed[Day(l.Date)] = true
		}
	}
	if len(completed) == 0 {
		return StreakResult{}
	}

	return StreakResult{
		Current: currentStreak(completed, Day(today)),
		Best:    bestStreak(completed),
	}
}

// currentStreak walks backward from today counting consecutive completed
// days. A missing log for today itself does not break the streak, since the
// day is not over yet; the walk restarts from yesterday instead. Returns 0
// when yesterday is already missing.
func currentStreak(completed map[time.Time]bool, today time.Time) int {
	day := today
	if !completed[day] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for completed[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// bestStreak scans all completed dates ascending and tracks the longest run
// of calendar-consecutive days. A gap of more than one day ends a run.
func bestStreak(completed map[time.Time]bool) int {
	dates := make([]time.Time, 0, len(completed))
	for d := range completed {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	best, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}
