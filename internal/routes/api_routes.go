package routes

import (
	"github.com/go-chi/chi/v5"

	"infinite-experiment/calllist/internal/api"
	"infinite-experiment/calllist/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, jobsHandler *api.JobsHandler, opts RouterOptions) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "/api/v1"))
		if opts.Limiter != nil {
			v1.Use(opts.Limiter.Middleware)
		}
		v1.Use(middleware.AuthMiddleware(opts.Verifier)) // every route needs a session

		// Read-only: any role
		v1.Get("/markets", handlers.ListMarkets())
		v1.Get("/markets/{id}", handlers.GetMarket())
		v1.Get("/call-logs", handlers.ListCallLogs())
		v1.Get("/edit-logs", handlers.ListEditLogs())

		// Producers and admins
		v1.Group(func(editor chi.Router) {
			editor.Use(middleware.IsEditorMiddleware())

			editor.Put("/markets/{id}", handlers.UpdateMarket())
			editor.Post("/markets/{id}/phones", handlers.AddPhone())
			editor.Put("/markets/{id}/phones/{phoneId}", handlers.UpdatePhone())
			editor.Delete("/markets/{id}/phones/{phoneId}", handlers.DeletePhone())
			editor.Patch("/markets/{id}/phones/{phoneId}/primary", handlers.MakePrimary())

			editor.Post("/call-logs", handlers.LogCall())
			editor.Post("/calls/reset", handlers.ResetCalls())

			// Admin-only
			editor.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Post("/markets", handlers.CreateMarket())
				admin.Post("/admin/import", handlers.ImportFeed())
				admin.Post("/admin/bulk", handlers.BulkUpdate())

				if jobsHandler != nil {
					admin.Post("/admin/jobs/prune", jobsHandler.TriggerPrune())
					admin.Get("/admin/jobs/status", jobsHandler.GetJobStatus())
				}
			})
		})
	})
}
