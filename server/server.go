// Package server provides HTTP server management and lifecycle handling for
// the MediCure API. It includes server setup, middleware configuration, route
// management, and graceful shutdown capabilities with proper error handling
// and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medicure/medicure-api/config"
	"github.com/medicure/medicure-api/handlers"
	"github.com/medicure/medicure-api/interfaces"
	"github.com/medicure/medicure-api/logging"
	"github.com/medicure/medicure-api/metrics"
)

// Dependencies bundles the services the HTTP layer serves. Every field must
// be set before NewServer.
type Dependencies struct {
	Health    interfaces.HealthChecker
	Predictor interfaces.Predictor
	Remedies  interfaces.RemedyFinder
	Chat      interfaces.Conversationalist
	Validator interfaces.InputValidator
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router chi.Router
	deps   Dependencies
	config *config.Config
}

// NewServer creates a new server instance. The write timeout is sized for
// the AI endpoints, which may wait through one upstream retry.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		deps:   deps,
		config: cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(metrics.Metrics)
	s.router.Use(RateLimitHandler)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.ClientOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/", handlers.ServiceStatus())
	s.router.Get("/api/health", handlers.HealthCheck(s.deps.Health))

	s.router.Post("/api/medicine/usage", handlers.PredictUsage(s.deps.Predictor))
	s.router.Post("/api/medicine/side-effects", handlers.PredictSideEffects(s.deps.Predictor))
	s.router.Post("/api/medicine/substitutes", handlers.PredictSubstitutes(s.deps.Predictor))

	s.router.Post("/api/remedies/search", handlers.SearchRemedies(s.deps.Remedies, s.deps.Validator))
	s.router.Post("/api/chat", handlers.Chat(s.deps.Chat, s.deps.Validator))

	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Handler returns the fully assembled route handler, middleware included
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == config.EnvDevelopment {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Error("Profiling server failed", "error", err)
		}
	}()
}
