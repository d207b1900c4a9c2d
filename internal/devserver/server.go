// Package devserver is a self-contained, in-memory implementation of
// the FitLog remote API. It backs local development of the client and
// the integration tests; nothing in it is meant for production use.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  *store
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(log *slog.Logger) *Server {
	s := &Server{
		store:  newStore(),
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/health", s.handleHealth)

	s.router.Post("/api/auth/signup", s.handleSignup)
	s.router.Post("/api/auth/login", s.handleLogin)

	// Everything below requires a bearer token.
	s.router.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Post("/api/auth/logout", s.handleLogout)
		r.Get("/api/auth/me", s.handleCurrentUser)

		r.Post("/api/workouts", s.handleCreateWorkout)
		r.Get("/api/workouts", s.handleListWorkouts)
		r.Get("/api/workouts/suggestion", s.handleSuggestion)
		r.Put("/api/workouts/{id}/complete", s.handleCompleteWorkout)
		r.Delete("/api/workouts/{id}", s.handleDeleteWorkout)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
