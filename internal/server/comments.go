package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

func commentJSON(c *store.Comment) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"log_id":     c.LogID,
		"habit_id":   c.HabitID,
		"body":       c.Body,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

// logFromPath resolves the log row named by {habitID}/{date}, after the
// habit ownership check. A date that was never toggled has no log row and
// therefore nothing to comment on.
func (s *Server) logFromPath(w http.ResponseWriter, r *http.Request) (*store.HabitLog, bool) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return nil, false
	}
	date, ok := dateFromPath(w, r)
	if !ok {
		return nil, false
	}

	logRow, err := s.db.GetLog(habit.ID, date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "LOG_NOT_FOUND", "no log exists for that date")
		return nil, false
	}
	if err != nil {
		respondErr(w, err)
		return nil, false
	}
	return logRow, true
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	logRow, ok := s.logFromPath(w, r)
	if !ok {
		return
	}

	comments, err := s.db.ListComments(logRow.ID)
	if err != nil {
		respondErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(comments))
	for i := range comments {
		out = append(out, commentJSON(&comments[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": out})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	logRow, ok := s.logFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	comment, err := s.db.CreateComment(logRow.ID, logRow.HabitID, req.Body)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentJSON(comment))
}

// commentFromPath loads the comment named by {commentID} and verifies the
// parent habit belongs to the requesting user.
func (s *Server) commentFromPath(w http.ResponseWriter, r *http.Request) (*store.Comment, bool) {
	id, err := pathID(chi.URLParam(r, "commentID"))
	if err != nil {
		respondErr(w, err)
		return nil, false
	}

	comment, err := s.db.GetComment(id)
	if err != nil {
		respondErr(w, err)
		return nil, false
	}
	if _, err := s.db.GetHabit(comment.HabitID, auth.UserID(r.Context())); err != nil {
		// The parent habit belongs to another user; don't reveal the comment.
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return nil, false
	}
	return comment, true
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := s.commentFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	if err := s.db.UpdateComment(comment.ID, req.Body); err != nil {
		respondErr(w, err)
		return
	}

	updated, err := s.db.GetComment(comment.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentJSON(updated))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := s.commentFromPath(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteComment(comment.ID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
