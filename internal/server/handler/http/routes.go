package http

import (
	"net/http"

	"github.com/atinyakov/VitalsKeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the VitalsKeeper API.
//
// Routes:
//
//	POST /api/auth/register  → authHandler.Register
//	POST /api/auth/login     → authHandler.Login
//	GET  /vitals             → vitalsHandler.List   (bearer token)
//	POST /vitals             → vitalsHandler.Submit (bearer token)
//	GET  /healthz            → healthHandler.Health
//
// /api/vitals is an alias of /vitals.
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. WithRequestLogging(logger)
//  3. Recoverer, so a panic is logged as a 500
//  4. AllowContentType("application/json"), for requests with a body
func NewRouter(
	authHandler *AuthHandler,
	vitalsHandler *VitalsHandler,
	healthHandler *HealthHandler,
	authMiddleware func(http.Handler) http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// must be set before mounting so sub-routers inherit them
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	vitals := func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", vitalsHandler.List)
		r.Post("/", vitalsHandler.Submit)
	}

	r.Get("/healthz", healthHandler.Health)
	r.Route("/vitals", vitals)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
		r.Route("/vitals", vitals)
	})

	return r
}
