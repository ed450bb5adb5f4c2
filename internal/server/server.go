// Package server exposes the workout core over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/workout"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *workout.Service
	log    *slog.Logger
	apiKey string
	lc     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *workout.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale provides the tsnet local client so requests can be attributed
// to tailnet identities instead of the header fallback.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.Identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		// Reads
		r.Get("/workouts/state", s.handleWorkoutState)
		r.Get("/schedule/upcoming", s.handleUpcomingSchedules)
		r.Get("/templates", s.handleListTemplates)
		r.Get("/definitions", s.handleListDefinitions)
		r.Get("/definitions/{id}", s.handleGetDefinition)

		// Mutations (API key required when configured)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/workouts/start", s.handleStartWorkout)
			r.Post("/workouts/start-empty", s.handleStartEmpty)
			r.Post("/workouts/sets", s.handleLogSet)
			r.Post("/workouts/{id}/complete", s.handleCompleteWorkout)
			r.Put("/workouts/{id}/cursor", s.handleUpdateCursor)
			r.Delete("/workouts", s.handleResetWorkout)
			r.Post("/workouts/change", s.handleChangeWorkout)
			r.Post("/schedule", s.handleScheduleWorkout)
			r.Post("/templates", s.handleSaveTemplate)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)
			r.Post("/definitions", s.handleSaveDefinition)
			r.Delete("/definitions/{id}", s.handleDeleteDefinition)
		})
	})
}
