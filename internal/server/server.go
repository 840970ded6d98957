package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/timer"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	svc    *journal.Service
	rest   *timer.RestCoordinator
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, svc *journal.Service, rest *timer.RestCoordinator, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		svc:    svc,
		rest:   rest,
		log:    log,
		apiKey: apiKey,
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
	s.router.Use(DevIdentity)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/api/v1/exercises", s.handleCreateExercise)
		r.Delete("/api/v1/exercises/{id}", s.handleHideExercise)
		r.Post("/api/v1/templates", s.handleCreateTemplate)
		r.Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
		r.Put("/api/v1/settings", s.handleSaveSettings)

		r.Post("/api/v1/sessions", s.handleCreateSession)
		r.Post("/api/v1/sessions/{id}/start", s.handleStartSession)
		r.Post("/api/v1/sessions/{id}/finish", s.handleFinishSession)
		r.Post("/api/v1/sessions/{id}/release", s.handleReleaseSession)
		r.Post("/api/v1/sessions/{id}/exercises/{log}/sets/{set}/finish", s.handleFinishSet)
		r.Post("/api/v1/sessions/{id}/exercises/{log}/sets/{set}/skip", s.handleSkipSet)
		r.Post("/api/v1/sessions/{id}/exercises/{log}/sets/{set}/unfinish", s.handleUnfinishSet)
		r.Post("/api/v1/sessions/{id}/exercises/{log}/sets/{set}/unskip", s.handleUnskipSet)

		r.Post("/api/v1/import", s.handleImportSession)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}/history", s.handleExerciseHistory)
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Get("/api/v1/templates/{id}", s.handleGetTemplate)
	s.router.Get("/api/v1/settings", s.handleGetSettings)
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/sessions/dates", s.handleSessionDates)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/sessions/{id}/rest", s.handleRestTimer)
	s.router.Get("/api/v1/stats/pr", s.handlePRSeries)
	s.router.Get("/api/v1/stats/onerm", s.handleOneRepMax)
	s.router.Get("/api/v1/stats/streak", s.handleStreak)
	s.router.Get("/api/v1/stats/volume", s.handleVolume)
	s.router.Get("/api/v1/stats/volume/events", s.handleVolumeEvents)
}
