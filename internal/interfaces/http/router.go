package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DocFacts/internal/interfaces/http/handlers"
	"github.com/turtacn/DocFacts/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	ExtractHandler *handlers.ExtractHandler
	JobsHandler    *handlers.JobsHandler
	HealthHandler  *handlers.HealthHandler

	// Middleware; zero values disable the corresponding layer.
	CORS          *middleware.CORSConfig
	LoggingConfig middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	AppMetrics       *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete HTTP route tree: global middleware,
// public probe endpoints, the metrics scrape endpoint, and the /api/v1
// extraction resources.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.LoggingConfig))
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.RequestMetrics(cfg.AppMetrics))
	}

	// Probes stay outside /api/v1 so orchestration never depends on API
	// versioning.
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerExtractRoutes(api, cfg.ExtractHandler)
		registerJobRoutes(api, cfg.JobsHandler)
	})

	return r
}

// registerExtractRoutes mounts the synchronous extraction endpoints.
func registerExtractRoutes(r chi.Router, h *handlers.ExtractHandler) {
	if h == nil {
		return
	}
	r.Post("/extract", h.ExtractText)
	r.Post("/documents/extract", h.ExtractDocument)
}

// registerJobRoutes mounts the batch job endpoints under /jobs.
func registerJobRoutes(r chi.Router, h *handlers.JobsHandler) {
	if h == nil {
		return
	}
	r.Route("/jobs", func(jr chi.Router) {
		jr.Get("/", h.List)
		jr.Post("/", h.Create)
		jr.Get("/{jobID}", h.Get)
	})
}
