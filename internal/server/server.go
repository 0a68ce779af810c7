// Package server provides the HTTP REST API for the review service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/metapiqma/review-service/internal/database"
	"github.com/metapiqma/review-service/internal/dedup"
	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/netgraph"
	"github.com/metapiqma/review-service/internal/observability"
	"github.com/metapiqma/review-service/internal/repository"
	"github.com/metapiqma/review-service/internal/sources"
	"github.com/metapiqma/review-service/internal/store"
)

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// RateLimitRPS limits requests per second per client IP. Zero disables
	// rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// MaxResultsPerSource caps provider fetches when a search request does
	// not specify its own limit.
	MaxResultsPerSource int
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.MaxResultsPerSource == 0 {
		c.MaxResultsPerSource = 50
	}
}

// Server is the HTTP REST API server. It owns one in-memory article store
// per review project, loaded lazily from the article repository; mutations
// are applied to the store first and written through to the repository as
// a snapshot, with write failures logged as warnings.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server

	projectRepo repository.ProjectRepository
	articleRepo repository.ArticleRepository
	registry    *sources.Registry
	detector    *dedup.Detector
	builder     *netgraph.Builder
	db          *database.DB
	metrics     *observability.Metrics
	logger      zerolog.Logger
	validate    *validator.Validate

	mu       sync.Mutex
	sessions map[uuid.UUID]*store.ArticleStore
}

// NewServer creates a new HTTP server with all dependencies. db and
// metrics may be nil; health reporting and instrumentation degrade
// gracefully without them.
func NewServer(
	cfg Config,
	projectRepo repository.ProjectRepository,
	articleRepo repository.ArticleRepository,
	registry *sources.Registry,
	detector *dedup.Detector,
	builder *netgraph.Builder,
	db *database.DB,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	cfg.applyDefaults()

	s := &Server{
		cfg:         cfg,
		projectRepo: projectRepo,
		articleRepo: articleRepo,
		registry:    registry,
		detector:    detector,
		builder:     builder,
		db:          db,
		metrics:     metrics,
		logger:      logger.With().Str("component", "http-server").Logger(),
		validate:    validator.New(),
		sessions:    make(map[uuid.UUID]*store.ArticleStore),
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.requestLoggerMiddleware)
	if s.cfg.RateLimitRPS > 0 {
		r.Use(newRateLimitMiddleware(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))
	}

	// Health and metrics endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Post("/projects", s.createProject)
		r.Get("/projects", s.listProjects)

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Use(projectContextMiddleware)

			r.Get("/", s.getProject)
			r.Put("/", s.updateProject)
			r.Delete("/", s.deleteProject)

			r.Post("/search", s.searchArticles)

			r.Get("/articles", s.listArticles)
			r.Delete("/articles", s.clearArticles)
			r.Post("/articles/dedup", s.detectDuplicates)
			r.Post("/articles/screening", s.screenArticles)
			r.Post("/articles/eligibility", s.assessEligibility)
			r.Post("/articles/filter", s.filterIncomplete)

			r.Get("/prisma", s.prismaCounts)

			r.Get("/export/statistics", s.exportStatistics)
			r.Get("/export/included.csv", s.exportIncludedCSV)
		})

		r.Post("/network-analysis", s.networkAnalysis)
	})

	return r
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "disabled"})
		return
	}
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status including database connectivity.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		health := s.db.Health(r.Context())
		if health.Status != "healthy" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "not_ready",
				"database": health.Status,
				"error":    health.Error,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var apiErr *domain.ExternalAPIError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
