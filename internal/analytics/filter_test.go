package analytics

import (
	"testing"

	"github.com/lazypower/cadence/internal/store"
)

func ptr(v int64) *int64 { return &v }

func testHabits() []store.Habit {
	return []store.Habit{
		{ID: 1, Name: "run", CategoryID: ptr(10), TagIDs: []int64{100, 101}},
		{ID: 2, Name: "read", CategoryID: ptr(10), TagIDs: []int64{100}},
		{ID: 3, Name: "meditate", CategoryID: ptr(20), TagIDs: []int64{101}},
		{ID: 4, Name: "journal", TagIDs: nil},
		{ID: 5, Name: "stretch", CategoryID: ptr(10), TagIDs: []int64{100, 101, 102}, Archived: true},
	}
}

func idsOf(habits []store.Habit) []int64 {
	ids := make([]int64, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterHabits(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOpts
		want []int64
	}{
		{
			name: "no predicates returns all active, in order",
			opts: FilterOpts{},
			want: []int64{1, 2, 3, 4},
		},
		{
			name: "category predicate",
			opts: FilterOpts{CategoryID: ptr(10)},
			want: []int64{1, 2},
		},
		{
			name: "category with no members",
			opts: FilterOpts{CategoryID: ptr(99)},
			want: nil,
		},
		{
			name: "single tag",
			opts: FilterOpts{TagIDs: []int64{101}},
			want: []int64{1, 3},
		},
		{
			name: "two tags require superset, not any-of",
			opts: FilterOpts{TagIDs: []int64{100, 101}},
			want: []int64{1},
		},
		{
			name: "category AND tags",
			opts: FilterOpts{CategoryID: ptr(10), TagIDs: []int64{101}},
			want: []int64{1},
		},
		{
			name: "empty tag set imposes no constraint",
			opts: FilterOpts{TagIDs: []int64{}},
			want: []int64{1, 2, 3, 4},
		},
		{
			name: "archived included on request",
			opts: FilterOpts{TagIDs: []int64{100, 101}, IncludeArchived: true},
			want: []int64{1, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idsOf(FilterHabits(testHabits(), tt.opts))
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSupersetProperty(t *testing.T) {
	// Every habit in the result carries every requested tag; every habit
	// excluded (and not archived) is missing at least one.
	habits := testHabits()
	want := []int64{100, 101}
	result := FilterHabits(habits, FilterOpts{TagIDs: want})

	inResult := make(map[int64]bool)
	for _, h := range result {
		inResult[h.ID] = true
		for _, tag := range want {
			if !contains64(h.TagIDs, tag) {
				t.Errorf("habit %d in result but missing tag %d", h.ID, tag)
			}
		}
	}
	for _, h := range habits {
		if inResult[h.ID] || h.Archived {
			continue
		}
		all := true
		for _, tag := range want {
			if !contains64(h.TagIDs, tag) {
				all = false
			}
		}
		if all {
			t.Errorf("habit %d carries all tags but was excluded", h.ID)
		}
	}
}

func contains64(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
