package main

import (
	"net/http"

	"github.com/caimi124/tiku-engine/internal/api"
	apiMiddleware "github.com/caimi124/tiku-engine/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	reviewHandler := api.NewReviewHandler(app.masteryReviewService, app.logger)
	diagnosticHandler := api.NewDiagnosticHandler(app.diagnosticService, app.logger)
	engagementHandler := api.NewEngagementHandler(app.engagementService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{userID}", func(r chi.Router) {
			// Mastery and review endpoints
			r.Post("/outcomes", reviewHandler.RecordOutcome)
			r.Get("/reviews/due", reviewHandler.ListDue)
			r.Get("/reviews/recommendations", reviewHandler.Recommendations)
			r.Get("/wrong-book", reviewHandler.WrongBook)

			// Diagnostic attempt endpoints
			r.Post("/diagnostics", diagnosticHandler.CreateAttempt)
			r.Post("/diagnostics/{attemptID}/answers", diagnosticHandler.RecordAnswer)
			r.Post("/diagnostics/{attemptID}/submit", diagnosticHandler.Submit)

			// Engagement endpoints
			r.Post("/study-time", engagementHandler.RecordStudyTime)
			r.Get("/engagement/heatmap", engagementHandler.Heatmap)
			r.Get("/engagement/streak", engagementHandler.Streak)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
