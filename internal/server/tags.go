package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

func tagJSON(t *store.Tag) map[string]any {
	return map[string]any{
		"id":         t.ID,
		"name":       t.Name,
		"created_at": t.CreatedAt,
	}
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.db.ListTags(auth.UserID(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(tags))
	for i := range tags {
		out = append(out, tagJSON(&tags[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": out})
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if store.NormalizeTagName(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "tag name is required")
		return
	}

	tag, err := s.db.CreateTag(auth.UserID(r.Context()), req.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tagJSON(tag))
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "tagID"))
	if err != nil {
		respondErr(w, err)
		return
	}

	if err := s.db.DeleteTag(id, auth.UserID(r.Context())); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
