// Package http provides HTTP routing and middleware configuration
// for the board overview service.
package http

import (
	"net/http"

	"github.com/boardkit/boardkit/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the overview
// API. It applies JSON content-type enforcement, request logging and
// header-based user identification, and mounts the board, overview and
// circle endpoints under /api.
//
// Routes:
//
//	GET    /api/boards               → boardHandler.List
//	GET    /api/overview/due         → overviewHandler.AllWithDue
//	GET    /api/overview/upcoming    → overviewHandler.Upcoming
//	DELETE /api/circles/{circleID}   → circleHandler.Destroyed
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON request bodies
//  2. WithRequestLogging(logger)           — logs incoming requests
//  3. UserAuth                             — requires the user header
func NewRouter(
	boardHandler *BoardHandler,
	overviewHandler *OverviewHandler,
	circleHandler *CircleHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Identify the acting user from the trusted host header
	r.Use(middleware.UserAuth)

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/boards", boardHandler.List)

		r.Route("/overview", func(r chi.Router) {
			r.Get("/due", overviewHandler.AllWithDue)
			r.Get("/upcoming", overviewHandler.Upcoming)
		})

		// Host-facing lifecycle notifications
		r.Delete("/circles/{circleID}", circleHandler.Destroyed)
	})

	return r
}
