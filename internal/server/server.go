// Package server provides the HTTP server for the agentgate API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agentgate-ai/agentgate/internal/hook"
	"github.com/agentgate-ai/agentgate/internal/notify"
	"github.com/agentgate-ai/agentgate/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port             int
	EnableCORS       bool
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	AbandonThreshold time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8787,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE
	}
}

// Server is the HTTP server. It exposes the hook endpoints for agents,
// the approval endpoints for whoever answers the questions, and the
// session listing for dashboards.
type Server struct {
	config       *Config
	router       *chi.Mux
	httpSrv      *http.Server
	orchestrator *hook.Orchestrator
	tracker      *session.Tracker
	pending      *notify.Pending
}

// New creates a new Server instance. pending may be nil when approvals
// are resolved out of process (webhook mode).
func New(cfg *Config, orch *hook.Orchestrator, tracker *session.Tracker, pending *notify.Pending) *Server {
	s := &Server{
		config:       cfg,
		router:       chi.NewRouter(),
		orchestrator: orch,
		tracker:      tracker,
		pending:      pending,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
