package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lazypower/cadence/internal/analytics"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

func userJSON(u *store.User) map[string]any {
	return map[string]any{
		"id":                    u.ID,
		"email":                 u.Email,
		"display_name":          u.DisplayName,
		"default_tracking_days": u.DefaultTrackingDays,
		"created_at":            u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}

	user, err := s.db.CreateUser(req.Email, hash, req.DisplayName)
	if err != nil {
		respondErr(w, err)
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		respondErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"token": token, "user": userJSON(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	user, err := s.db.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "email or password is incorrect")
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		respondErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": userJSON(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.requestUser(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userJSON(user))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DefaultTrackingDays int `json:"default_tracking_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if err := analytics.ValidateDays(req.DefaultTrackingDays); err != nil {
		respondErr(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	if err := s.db.SetDefaultTrackingDays(userID, req.DefaultTrackingDays); err != nil {
		respondErr(w, err)
		return
	}

	user, err := s.db.GetUser(userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userJSON(user))
}
