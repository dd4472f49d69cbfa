package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/cadence/internal/analytics"
	"github.com/lazypower/cadence/internal/store"
)

func logJSON(l *store.HabitLog) map[string]any {
	return map[string]any{
		"id":         l.ID,
		"habit_id":   l.HabitID,
		"date":       l.Date.Format(store.DateLayout),
		"completed":  l.Completed,
		"created_at": l.CreatedAt,
	}
}

// dateFromPath parses the {date} URL parameter.
func dateFromPath(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := chi.URLParam(r, "date")
	t, err := time.Parse(store.DateLayout, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// handleToggleLog flips completion for (habit, date). The first toggle of a
// date creates the row as completed; every later toggle flips it. The upsert
// is a single statement, so concurrent toggles serialize at the store.
func (s *Server) handleToggleLog(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	date, ok := dateFromPath(w, r)
	if !ok {
		return
	}

	logRow, err := s.db.ToggleLog(habit.ID, date)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logJSON(logRow))
}

// handleListLogs returns a habit's logs over the resolved tracking window.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
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

	since := analytics.Day(asOf).AddDate(0, 0, -(days - 1))
	logs, err := s.db.ListLogsSince(habit.ID, since)
	if err != nil {
		respondErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(logs))
	for i := range logs {
		out = append(out, logJSON(&logs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"habit_id":      habit.ID,
		"tracking_days": days,
		"logs":          out,
	})
}

// habitWindow resolves the tracking window for one habit: explicit request
// parameter first, then the habit's override, then the owner's default.
func (s *Server) habitWindow(r *http.Request, habit *store.Habit, user *store.User) (int, error) {
	fallback := user.DefaultTrackingDays
	if habit.TrackingDays != nil {
		fallback = *habit.TrackingDays
	}
	return analytics.Window(daysParam(r), fallback)
}
