package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/cadence/internal/auth"
	"github.com/lazypower/cadence/internal/store"
)

// Server is the cadence HTTP API server.
type Server struct {
	db      *store.DB
	auth    *auth.Auth
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server with the given database, auth, and version string.
func New(db *store.DB, a *auth.Auth, version string) *Server {
	s := &Server{
		db:      db,
		auth:    a,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/users/register", s.handleRegister)
		r.Post("/users/login", s.handleLogin)

		// Everything else requires a session token.
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Get("/users/me", s.handleMe)
			r.Put("/users/me/settings", s.handleUpdateSettings)

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", s.handleListHabits)
				r.Post("/", s.handleCreateHabit)
				r.Get("/{habitID}", s.handleGetHabit)
				r.Put("/{habitID}", s.handleUpdateHabit)
				r.Delete("/{habitID}", s.handleDeleteHabit)
				r.Post("/{habitID}/archive", s.handleArchiveHabit)
				r.Post("/{habitID}/restore", s.handleRestoreHabit)
				r.Get("/{habitID}/logs", s.handleListLogs)
				r.Post("/{habitID}/logs/{date}/toggle", s.handleToggleLog)
				r.Get("/{habitID}/logs/{date}/comments", s.handleListComments)
				r.Post("/{habitID}/logs/{date}/comments", s.handleCreateComment)
				r.Put("/{habitID}/tags/{tagID}", s.handleAttachTag)
				r.Delete("/{habitID}/tags/{tagID}", s.handleDetachTag)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Put("/{categoryID}", s.handleUpdateCategory)
				r.Delete("/{categoryID}", s.handleDeleteCategory)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", s.handleListTags)
				r.Post("/", s.handleCreateTag)
				r.Delete("/{tagID}", s.handleDeleteTag)
			})

			r.Put("/comments/{commentID}", s.handleUpdateComment)
			r.Delete("/comments/{commentID}", s.handleDeleteComment)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/habits/{habitID}", s.handleHabitAnalytics)
				r.Get("/categories/{categoryID}", s.handleCategoryAnalytics)
				r.Get("/tags/{tagID}", s.handleTagAnalytics)
				r.Get("/overview", s.handleOverview)
				r.Get("/heatmap", s.handleHeatmap)
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
