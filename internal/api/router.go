// Package api provides the HTTP API for the observation dashboard.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/api/handler"
	"github.com/roaringfork/irondash/internal/api/middleware"
	"github.com/roaringfork/irondash/internal/dashboard"
	"github.com/roaringfork/irondash/internal/observability"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	Metrics          *observability.Metrics
	DashboardService *dashboard.Service
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	dashboardHandler := handler.NewDashboardHandler(cfg.DashboardService)
	feedbackHandler := handler.NewFeedbackHandler(cfg.DashboardService)
	metadataHandler := handler.NewMetadataHandler()

	fetchRateLimit := middleware.RateLimitByIP(middleware.FetchRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Chart and table pulls may hit the upstream observation API, so
		// they share the stricter limit.
		r.Route("/dashboard", func(r chi.Router) {
			r.With(standardRateLimit).Put("/params", dashboardHandler.UpdateParams)
			r.With(fetchRateLimit).Get("/chart", dashboardHandler.GetChart)
			r.With(fetchRateLimit).Get("/table", dashboardHandler.GetTable)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Post("/", feedbackHandler.Submit)
			r.Get("/status", feedbackHandler.Status)
		})
	})

	r.Method("GET", "/metrics", observability.Handler())

	return r
}
