package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"infinite-experiment/calllist/internal/api"
	"infinite-experiment/calllist/internal/auth"
	"infinite-experiment/calllist/internal/jobs"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/middleware"
)

// RouterOptions carries what the router needs beyond the handler dependencies.
// Scheduler and Limiter are optional.
type RouterOptions struct {
	Verifier       *auth.TokenVerifier
	Limiter        *middleware.RateLimiter
	Scheduler      *jobs.Scheduler
	AllowedOrigins []string
	UpSince        time.Time
}

func RegisterRoutes(deps *api.Dependencies, opts RouterOptions) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	// health check
	r.Get("/healthCheck", handlers.HealthCheckHandler(opts.UpSince))

	var jobsHandler *api.JobsHandler
	if opts.Scheduler != nil {
		jobsHandler = api.NewJobsHandler(opts.Scheduler)
	}
	RegisterAPIRoutes(r, deps, handlers, jobsHandler, opts)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
