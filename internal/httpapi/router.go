package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API. corsOrigin is the browser UI origin; empty
// disables cross-origin access.
func NewRouter(api *API, corsOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(requestLogger(api.log))
	r.Use(requestMetrics())

	if corsOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{corsOrigin},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Route("/questions", func(r chi.Router) {
		r.Get("/", api.handleListQuestions)
		r.Post("/", api.handleAddQuestion)
		r.Get("/sample", api.handleSampleQuestions)
		r.Put("/{question_id}", api.handleUpdateQuestion)
		r.Delete("/{question_id}", api.handleDeleteQuestion)
	})

	r.Route("/bank", func(r chi.Router) {
		r.Get("/export", api.handleExport)
		r.Post("/import", api.handleImport)
		r.Get("/sample", api.handleSampleBank)
		r.Get("/metadata", api.handleGetMetadata)
		r.Put("/metadata", api.handleSetMetadata)
	})

	r.Route("/students", func(r chi.Router) {
		r.Get("/", api.handleListStudents)
		r.Post("/", api.handleCreateStudent)
		r.Get("/current", api.handleCurrentStudent)
		r.Put("/current", api.handleSetCurrentStudent)
		r.Get("/leaderboard", api.handleLeaderboard)
		r.Delete("/{student_id}", api.handleDeleteStudent)
	})

	r.Route("/quiz", func(r chi.Router) {
		r.Get("/today", api.handleQuizToday)
		r.Post("/start", api.handleQuizStart)
		r.Post("/complete", api.handleQuizComplete)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
