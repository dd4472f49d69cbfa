package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lazypower/cadence/internal/analytics"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the error envelope: {"error": {"code", "message"}}.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// requestError is a malformed request at the HTTP layer (bad id, bad date).
// Kept separate from analytics.ValidationError so the window kinds stay a
// closed set.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// respondErr maps domain errors to HTTP statuses. Anything unrecognized is a
// 500 and gets logged; all domain errors are deterministic consequences of
// caller input and are never retried.
func respondErr(w http.ResponseWriter, err error) {
	var verr *analytics.ValidationError
	var rerr *requestError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Kind, verr.Msg)
	case errors.As(err, &rerr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", rerr.msg)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, store.ErrEmailTaken):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, store.ErrDuplicateName):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, store.ErrCommentBody):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
	}
}

func forbidden(w http.ResponseWriter, resource string) {
	writeError(w, http.StatusForbidden, "FORBIDDEN", resource+" does not belong to the requesting user")
}

// pathID parses a numeric chi URL parameter. Malformed ids are a
// VALIDATION_ERROR, not a 404.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &requestError{msg: "malformed id " + strconv.Quote(raw)}
	}
	return id, nil
}

// requestUser loads the authenticated user for the request.
func (s *Server) requestUser(r *http.Request) (*store.User, error) {
	return s.db.GetUser(auth.UserID(r.Context()))
}

// asOfDate resolves the window anchor from the as_of query parameter,
// defaulting to the current UTC calendar date.
func asOfDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return analytics.Day(time.Now()), nil
	}
	t, err := time.Parse(store.DateLayout, raw)
	if err != nil {
		return time.Time{}, &requestError{msg: "as_of must be a YYYY-MM-DD date"}
	}
	return t, nil
}

// daysParam reads the tracking window query parameter, honoring the
// historical "days" name and its "tracking_days" alias.
func daysParam(r *http.Request) string {
	if v := r.URL.Query().Get("days"); v != "" {
		return v
	}
	return r.URL.Query().Get("tracking_days")
}
