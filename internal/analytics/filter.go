package analytics

import (
	"github.com/lazypower/cadence/internal/store"
)

// FilterOpts narrows a habit collection. Supplied predicates are ANDed:
// a habit must match the category and carry every requested tag.
// An absent category or empty tag set imposes no constraint on that axis.
type FilterOpts struct {
	CategoryID      *int64
	TagIDs          []int64
	IncludeArchived bool
}

// FilterHabits returns the subset of habits matching every supplied
// predicate, preserving input order. Archived habits are excluded unless
// IncludeArchived is set.
func FilterHabits(habits []store.Habit, opts FilterOpts) []store.Habit {
	want := make(map[int64]bool, len(opts.TagIDs))
	for _, id := range opts.TagIDs {
		want[id] = true
	}

	var out []store.Habit
	for _, h := range habits {
		if h.Archived && !opts.IncludeArchived {
			continue
		}
		if opts.CategoryID != nil {
			if h.CategoryID == nil || *h.CategoryID != *opts.CategoryID {
				continue
			}
		}
		if !hasAllTags(h.TagIDs, want) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// hasAllTags reports whether the habit's tag set is a superset of want.
// AND across tags: carrying merely one of the requested tags is not a match.
func hasAllTags(tagIDs []int64, want map[int64]bool) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		have[id] = true
	}
	for id := range want {
		if !have[id] {
			return false
		}
	}
	return true
}
