// Package analytics computes consistency metrics over habit completion logs:
// streaks, windowed completion rates, per-day heatmaps, and set rollups.
// Everything here is a pure function over records passed in; nothing holds
// cross-call state, so every read recomputes from source and is correct after
// any log mutation. Dates are calendar days in the service's reference
// timezone (UTC midnight time.Time values).
package analytics

import (
	"fmt"
	"strconv"
	"time"
)

// Tracking window bounds. Stats, heatmaps, and rollups always run over a
// trailing window of 1-30 calendar days.
const (
	MinTrackingDays = 1
	MaxTrackingDays = 30
)

// ValidationError kinds.
const (
	KindOutOfRange   = "OUT_OF_RANGE"
	KindNotAnInteger = "NOT_AN_INTEGER"
)

// ValidationError rejects caller-supplied input. It is never retried and
// never silently corrected: an out-of-range window is an error, not a clamp.
type ValidationError struct {
	Kind string
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Window normalizes the requested tracking window. An empty request falls
// back to userDefault (the owner's stored default, constrained at write
// time). A non-integral or out-of-range request is rejected.
func Window(requested string, userDefault int) (int, error) {
	if requested == "" {
		return userDefault, nil
	}

	days, err := strconv.Atoi(requested)
	if err != nil {
		return 0, &ValidationError{
			Kind: KindNotAnInteger,
			Msg:  fmt.Sprintf("tracking days %q is not an integer", requested),
		}
	}
	if err := ValidateDays(days); err != nil {
		return 0, err
	}
	return days, nil
}

// ValidateDays checks a window size against the 1-30 range. Also used at the
// point a user default or per-habit override is stored.
func ValidateDays(days int) error {
	if days < MinTrackingDays || days > MaxTrackingDays {
		return &ValidationError{
			Kind: KindOutOfRange,
			Msg:  fmt.Sprintf("tracking days must be between %d and %d, got %d", MinTrackingDays, MaxTrackingDays, days),
		}
	}
	return nil
}

// Day truncates a time to its UTC calendar day. All date comparisons in this
// package go through Day so logs and anchors land on the same key.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
