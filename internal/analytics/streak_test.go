package analytics

import (
	"testing"
	"time"

	"github.com/lazypower/cadence/internal/store"
)

var today = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

// daysAgo returns the calendar day n days before the test anchor.
func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

// completedOn builds a log history with completed entries on the given
// offsets (days before today).
func completedOn(offsets ...int) []store.HabitLog {
	logs := make([]store.HabitLog, 0, len(offsets))
	for _, n := range offsets {
		logs = append(logs, store.HabitLog{Date: daysAgo(n), Completed: true})
	}
	return logs
}

func TestStreaksEmpty(t *testing.T) {
	got := Streaks(nil, today)
	if got.Current != 0 || got.Best != 0 {
		t.Errorf("Streaks(nil) = %+v, want {0 0}", got)
	}
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		logs        []store.HabitLog
		current     int
		best        int
	}{
		{
			name:    "run ending yesterday, today not yet logged",
			logs:    completedOn(1, 2, 3),
			current: 3,
			best:    3,
		},
		{
			name:    "run including today",
			logs:    completedOn(0, 1, 2),
			current: 3,
			best:    3,
		},
		{
			name:    "gap at today-3 breaks the walk",
			logs:    completedOn(5, 4, 2, 1),
			current: 2,
			best:    2,
		},
		{
			name:    "yesterday missing means zero current",
			logs:    completedOn(2, 3, 4),
			current: 0,
			best:    3,
		},
		{
			name:    "single gap: best is the longer side, not the sum",
			logs:    completedOn(10, 9, 8, 7, 5, 4),
			current: 0,
			best:    4,
		},
		{
			name:    "only today",
			logs:    completedOn(0),
			current: 1,
			best:    1,
		},
		{
			name: "incomplete logs do not extend a run",
			logs: append(completedOn(1, 2), store.HabitLog{Date: daysAgo(3), Completed: false}),
			current: 2,
			best:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Streaks(tt.logs, today)
			if got.Current != tt.current {
				t.Errorf("current = %d, want %d", got.Current, tt.current)
			}
			if got.Best != tt.best {
				t.Errorf("best = %d, want %d", got.Best, tt.best)
			}
		})
	}
}

func TestStreaksUnsortedInput(t *testing.T) {
	// The calculator must not depend on log order.
	logs := completedOn(2, 5, 1, 4, 3)
	got := Streaks(logs, today)
	if got.Current != 5 || got.Best != 5 {
		t.Errorf("Streaks(unsorted run) = %+v, want {5 5}", got)
	}
}

func TestStreaksTimeOfDayIgnored(t *testing.T) {
	// Logs carry calendar dates; a stray time component must not split a run.
	logs := []store.HabitLog{
		{Date: daysAgo(1).Add(13 * time.Hour), Completed: true},
		{Date: daysAgo(2), Completed: true},
	}
	got := Streaks(logs, today.Add(9*time.Hour))
	if got.Current != 2 {
		t.Errorf("current = %d, want 2", got.Current)
	}
}
