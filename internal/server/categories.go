package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func categoryJSON(c *store.Category) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"color":      c.Color,
		"icon":       c.Icon,
		"created_at": c.CreatedAt,
	}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func validateCategoryRequest(w http.ResponseWriter, req categoryRequest) bool {
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "category name is required")
		return false
	}
	if req.Color != "" && !hexColorRe.MatchString(req.Color) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "color must be a #RRGGBB hex value")
		return false
	}
	return true
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.db.ListCategories(auth.UserID(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(cats))
	for i := range cats {
		out = append(out, categoryJSON(&cats[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if !validateCategoryRequest(w, req) {
		return
	}

	cat, err := s.db.CreateCategory(auth.UserID(r.Context()), strings.TrimSpace(req.Name), req.Color, req.Icon)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryJSON(cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id, err := pathID(chi.URLParam(r, "categoryID"))
	if err != nil {
		respondErr(w, err)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if !validateCategoryRequest(w, req) {
		return
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}

	if err := s.db.UpdateCategory(id, userID, strings.TrimSpace(req.Name), req.Color, req.Icon); err != nil {
		respondErr(w, err)
		return
	}

	cat, err := s.db.GetCategory(id, userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryJSON(cat))
}

// handleDeleteCategory removes a category. Habits in it are detached and
// revert to uncategorized; nothing cascades.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "categoryID"))
	if err != nil {
		respondErr(w, err)
		return
	}

	if err := s.db.DeleteCategory(id, auth.UserID(r.Context())); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
