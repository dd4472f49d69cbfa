package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/cadence/internal/analytics"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

// handleHabitAnalytics returns one habit's consistency metrics: windowed
// completion stats, current and best streak, plus all-time completion count
// and last completion date.
func (s *Server) handleHabitAnalytics(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}

	user, err := s.requestUser(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	days, err := s.habitWindow(r, habit, user)
	if err != nil {
		respondErr(w, err)
		return
	}
	asOf, err := asOfDate(r)
	if err != nil {
		respondErr(w, err)
		return
	}

	logs, err := s.db.ListLogs(habit.ID)
	if err != nil {
		respondErr(w, err)
		return
	}

	stats := analytics.Stats(logs, days, asOf)
	streaks := analytics.Streaks(logs, asOf)

	totalCompletions, err := s.db.CountCompletions(habit.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	lastCompletion, err := s.db.LastCompletionDate(habit.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	var lastCompletionStr *string
	if lastCompletion != nil {
		v := lastCompletion.Format(store.DateLayout)
		lastCompletionStr = &v
	}

	end := analytics.Day(asOf)
	start := end.AddDate(0, 0, -(days - 1))

	writeJSON(w, http.StatusOK, map[string]any{
		"habit_id":             habit.ID,
		"habit_name":           habit.Name,
		"tracking_days":        days,
		"start_date":           start.Format(store.DateLayout),
		"end_date":             end.Format(store.DateLayout),
		"completed":            stats.Completed,
		"total":                stats.Total,
		"percentage":           stats.Percentage,
		"current_streak":       streaks.Current,
		"best_streak":          streaks.Best,
		"total_completions":    totalCompletions,
		"last_completion_date": lastCompletionStr,
	})
}

// handleCategoryAnalytics averages completion percentage across the
// category's habits.
func (s *Server) handleCategoryAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := pathID(chi.URLParam(r, "categoryID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	cat, err := s.db.GetCategory(id, userID)
	if err != nil {
		respondErr(w, err)
		return
	}

	days, asOf, ok := s.windowParams(w, r)
	if !ok {
		return
	}

	habits, rollup, err := s.rollupFor(userID, analytics.FilterOpts{CategoryID: &id}, days, asOf)
	if err != nil {
		respondErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category_id":        cat.ID,
		"category_name":      cat.Name,
		"habits_count":       len(habits),
		"tracking_days":      days,
		"average_percentage": rollup.AveragePercentage,
		"no_data":            rollup.NoData,
		"per_habit":          rollup.PerHabit,
	})
}

// handleTagAnalytics averages completion percentage across habits carrying
// the tag. Same aggregation as categories; only the filter differs.
func (s *Server) handleTagAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := pathID(chi.URLParam(r, "tagID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	tag, err := s.db.GetTag(id, userID)
	if err != nil {
		respondErr(w, err)
		return
	}

	days, asOf, ok := s.windowParams(w, r)
	if !ok {
		return
	}

	habits, rollup, err := s.rollupFor(userID, analytics.FilterOpts{TagIDs: []int64{id}}, days, asOf)
	if err != nil {
		respondErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tag_id":             tag.ID,
		"tag_name":           tag.Name,
		"habits_count":       len(habits),
		"tracking_days":      days,
		"average_percentage": rollup.AveragePercentage,
		"no_data":            rollup.NoData,
		"per_habit":          rollup.PerHabit,
	})
}

// handleOverview returns the user-wide rollup plus one rollup per category.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	days, asOf, ok := s.windowParams(w, r)
	if !ok {
		return
	}

	habits, rollup, err := s.rollupFor(userID, analytics.FilterOpts{}, days, asOf)
	if err != nil {
		respondErr(w, err)
		return
	}

	cats, err := s.db.ListCategories(userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	categoryStats := make([]map[string]any, 0, len(cats))
	for _, cat := range cats {
		id := cat.ID
		catHabits, catRollup, err := s.rollupFor(userID, analytics.FilterOpts{CategoryID: &id}, days, asOf)
		if err != nil {
			respondErr(w, err)
			return
		}
		categoryStats = append(categoryStats, map[string]any{
			"category_id":        cat.ID,
			"category_name":      cat.Name,
			"habits_count":       len(catHabits),
			"average_percentage": catRollup.AveragePercentage,
			"no_data":            catRollup.NoData,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_habits":       len(habits),
		"tracking_days":      days,
		"average_percentage": rollup.AveragePercentage,
		"no_data":            rollup.NoData,
		"per_habit":          rollup.PerHabit,
		"categories":         categoryStats,
	})
}

// handleHeatmap returns per-day completion density over the window for the
// (optionally filtered) habit set.
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	opts, ok := s.filterOpts(w, r, userID)
	if !ok {
		return
	}
	days, asOf, ok := s.windowParams(w, r)
	if !ok {
		return
	}

	logsByHabit, habits, err := s.logsForScope(userID, opts)
	if err != nil {
		respondErr(w, err)
		return
	}

	heatmap := analytics.Heatmap(logsByHabit, days, asOf)
	out := make([]map[string]any, 0, len(heatmap))
	for _, day := range heatmap {
		out = append(out, map[string]any{
			"date":            day.Date.Format(store.DateLayout),
			"completed_count": day.CompletedCount,
			"total_habits":    day.TotalHabits,
			"density":         day.Density,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tracking_days": days,
		"total_habits":  len(habits),
		"no_data":       len(habits) == 0,
		"days":          out,
	})
}

// windowParams resolves the set-level window (request parameter or the
// user's default) and the as_of anchor. Writes the response on failure.
func (s *Server) windowParams(w http.ResponseWriter, r *http.Request) (int, time.Time, bool) {
	user, err := s.requestUser(r)
	if err != nil {
		respondErr(w, err)
		return 0, time.Time{}, false
	}
	days, err := analytics.Window(daysParam(r), user.DefaultTrackingDays)
	if err != nil {
		respondErr(w, err)
		return 0, time.Time{}, false
	}
	asOf, err := asOfDate(r)
	if err != nil {
		respondErr(w, err)
		return 0, time.Time{}, false
	}
	return days, asOf, true
}

// logsForScope narrows the user's habits with the filter and loads each
// surviving habit's full history.
func (s *Server) logsForScope(userID int64, opts analytics.FilterOpts) (map[int64][]store.HabitLog, []store.Habit, error) {
	all, err := s.db.ListHabits(userID)
	if err != nil {
		return nil, nil, err
	}
	habits := analytics.FilterHabits(all, opts)

	ids := make([]int64, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	logs, err := s.db.ListLogsForHabits(ids)
	if err != nil {
		return nil, nil, err
	}
	return logs, habits, nil
}

// rollupFor runs the rollup aggregator over the filtered habit set.
func (s *Server) rollupFor(userID int64, opts analytics.FilterOpts, days int, asOf time.Time) ([]store.Habit, analytics.RollupResult, error) {
	logsByHabit, habits, err := s.logsForScope(userID, opts)
	if err != nil {
		return nil, analytics.RollupResult{}, err
	}
	return habits, analytics.Rollup(logsByHabit, days, asOf), nil
}
