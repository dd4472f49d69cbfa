package analytics

import (
	"testing"

	"github.com/lazypower/cadence/internal/store"
)

func TestStatsZeroCompletions(t *testing.T) {
	for _, days := range []int{1, 7, 30} {
		got := Stats(nil, days, today)
		if got.Completed != 0 || got.Total != days || got.Percentage != 0.0 {
			t.Errorf("Stats(nil, %d) = %+v, want {0 %d 0.0}", days, got, days)
		}
	}
}

func TestStatsWindow(t *testing.T) {
	tests := []struct {
		name       string
		logs       []store.HabitLog
		days       int
		completed  int
		percentage float64
	}{
		{
			name:       "3 of last 7",
			logs:       completedOn(0, 2, 4),
			days:       7,
			completed:  3,
			percentage: 42.9,
		},
		{
			name:       "perfect window",
			logs:       completedOn(0, 1, 2, 3, 4, 5, 6),
			days:       7,
			completed:  7,
			percentage: 100.0,
		},
		{
			name:       "completions outside the window are excluded",
			logs:       completedOn(0, 7, 8),
			days:       7,
			completed:  1,
			percentage: 14.3,
		},
		{
			name:       "window boundary day included",
			logs:       completedOn(6),
			days:       7,
			completed:  1,
			percentage: 14.3,
		},
		{
			name:       "day just past the boundary excluded",
			logs:       completedOn(7),
			days:       7,
			completed:  0,
			percentage: 0.0,
		},
		{
			name:       "single day window",
			logs:       completedOn(0),
			days:       1,
			completed:  1,
			percentage: 100.0,
		},
		{
			name: "incomplete logs do not count",
			logs: append(completedOn(1), store.HabitLog{Date: daysAgo(2), Completed: false}),
			days:       7,
			completed:  1,
			percentage: 14.3,
		},
		{
			name:       "one of three days",
			logs:       completedOn(1),
			days:       3,
			completed:  1,
			percentage: 33.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Stats(tt.logs, tt.days, today)
			if got.Completed != tt.completed {
				t.Errorf("completed = %d, want %d", got.Completed, tt.completed)
			}
			if got.Total != tt.days {
				t.Errorf("total = %d, want %d", got.Total, tt.days)
			}
			if got.Percentage != tt.percentage {
				t.Errorf("percentage = %v, want %v", got.Percentage, tt.percentage)
			}
		})
	}
}

func TestStatsTotalIgnoresHabitAge(t *testing.T) {
	// A habit created mid-window still divides by the full window: total is
	// always the window size so percentages stay comparable across habits.
	got := Stats(completedOn(0, 1), 30, today)
	if got.Total != 30 {
		t.Errorf("total = %d, want 30", got.Total)
	}
	if got.Percentage != 6.7 {
		t.Errorf("percentage = %v, want 6.7", got.Percentage)
	}
}
