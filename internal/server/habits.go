package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/cadence/internal/analytics"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

// maxTagsPerHabit bounds the tag set a single habit may carry.
const maxTagsPerHabit = 5

func habitJSON(h *store.Habit) map[string]any {
	tagIDs := h.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	return map[string]any{
		"id":            h.ID,
		"name":          h.Name,
		"description":   h.Description,
		"category_id":   h.CategoryID,
		"tracking_days": h.TrackingDays,
		"archived":      h.Archived,
		"created_at":    h.CreatedAt,
		"tag_ids":       tagIDs,
	}
}

type habitRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryID   *int64 `json:"category_id"`
	TrackingDays *int   `json:"tracking_days"`
}

// validateHabitRequest checks the shared create/update constraints and the
// ownership of any referenced category. Writes the response on failure.
func (s *Server) validateHabitRequest(w http.ResponseWriter, userID int64, req habitRequest) bool {
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "habit name is required")
		return false
	}
	if req.TrackingDays != nil {
		if err := analytics.ValidateDays(*req.TrackingDays); err != nil {
			respondErr(w, err)
			return false
		}
	}
	if req.CategoryID != nil && !s.categoryOwned(w, userID, *req.CategoryID) {
		return false
	}
	return true
}

// categoryOwned verifies the category belongs to the user. A category owned
// by someone else is a 403, a missing one a 404.
func (s *Server) categoryOwned(w http.ResponseWriter, userID, categoryID int64) bool {
	owner, err := s.db.CategoryOwner(categoryID)
	if err != nil {
		respondErr(w, err)
		return false
	}
	if owner != userID {
		forbidden(w, "category")
		return false
	}
	return true
}

// tagOwned verifies the tag belongs to the user.
func (s *Server) tagOwned(w http.ResponseWriter, userID, tagID int64) bool {
	owner, err := s.db.TagOwner(tagID)
	if err != nil {
		respondErr(w, err)
		return false
	}
	if owner != userID {
		forbidden(w, "tag")
		return false
	}
	return true
}

// filterOpts parses the list/heatmap filter parameters and verifies that
// every referenced category and tag is owned by the user. Returns false
// after writing the response on any failure.
func (s *Server) filterOpts(w http.ResponseWriter, r *http.Request, userID int64) (analytics.FilterOpts, bool) {
	var opts analytics.FilterOpts
	q := r.URL.Query()

	if raw := q.Get("category_id"); raw != "" {
		id, err := pathID(raw)
		if err != nil {
			respondErr(w, err)
			return opts, false
		}
		if !s.categoryOwned(w, userID, id) {
			return opts, false
		}
		opts.CategoryID = &id
	}

	if raw := q.Get("tag_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := pathID(strings.TrimSpace(part))
			if err != nil {
				respondErr(w, err)
				return opts, false
			}
			if !s.tagOwned(w, userID, id) {
				return opts, false
			}
			opts.TagIDs = append(opts.TagIDs, id)
		}
	}

	opts.IncludeArchived = q.Get("include_archived") == "true"
	return opts, true
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	opts, ok := s.filterOpts(w, r, userID)
	if !ok {
		return
	}

	habits, err := s.db.ListHabits(userID)
	if err != nil {
		respondErr(w, err)
		return
	}

	filtered := analytics.FilterHabits(habits, opts)
	out := make([]map[string]any, 0, len(filtered))
	for i := range filtered {
		out = append(out, habitJSON(&filtered[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": out})
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if !s.validateHabitRequest(w, userID, req) {
		return
	}

	habit, err := s.db.CreateHabit(userID, strings.TrimSpace(req.Name), req.Description, req.CategoryID, req.TrackingDays)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habitJSON(habit))
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, habitJSON(habit))
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if !s.validateHabitRequest(w, userID, req) {
		return
	}

	if err := s.db.UpdateHabit(habit.ID, userID, strings.TrimSpace(req.Name), req.Description, req.CategoryID, req.TrackingDays); err != nil {
		respondErr(w, err)
		return
	}

	updated, err := s.db.GetHabit(habit.ID, userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habitJSON(updated))
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}

	// Logs, comments, and tag associations cascade with the habit.
	if err := s.db.DeleteHabit(habit.ID, userID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleArchiveHabit(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, true)
}

func (s *Server) handleRestoreHabit(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, false)
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	userID := auth.UserID(r.Context())
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}

	if err := s.db.SetHabitArchived(habit.ID, userID, archived); err != nil {
		respondErr(w, err)
		return
	}

	updated, err := s.db.GetHabit(habit.ID, userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habitJSON(updated))
}

func (s *Server) handleAttachTag(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	tagID, err := pathID(chi.URLParam(r, "tagID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if !s.tagOwned(w, userID, tagID) {
		return
	}

	count, err := s.db.CountHabitTags(habit.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	if count >= maxTagsPerHabit && !contains(habit.TagIDs, tagID) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "a habit may carry at most 5 tags")
		return
	}

	if err := s.db.AttachTag(habit.ID, tagID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "attached"})
}

func (s *Server) handleDetachTag(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	tagID, err := pathID(chi.URLParam(r, "tagID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if !s.tagOwned(w, userID, tagID) {
		return
	}

	if err := s.db.DetachTag(habit.ID, tagID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "detached"})
}

// habitFromPath loads the habit named by {habitID}, scoped to the
// authenticated user. Writes the response on failure.
func (s *Server) habitFromPath(w http.ResponseWriter, r *http.Request) (*store.Habit, bool) {
	id, err := pathID(chi.URLParam(r, "habitID"))
	if err != nil {
		respondErr(w, err)
		return nil, false
	}

	habit, err := s.db.GetHabit(id, auth.UserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "HABIT_NOT_FOUND", "habit not found")
		return nil, false
	}
	if err != nil {
		respondErr(w, err)
		return nil, false
	}
	return habit, true
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
