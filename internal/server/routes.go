package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.health)

	// Hook endpoints; same payloads as the stdin hook boundary.
	s.router.Route("/hook", func(r chi.Router) {
		r.Post("/pretooluse", s.hookPreToolUse)
		r.Post("/sessionstart", s.hookSessionStart)
		r.Post("/stop", s.hookStop)
	})

	// Approval endpoints for whoever answers the questions.
	s.router.Route("/approvals", func(r chi.Router) {
		r.Get("/", s.listApprovals)
		r.Post("/{id}", s.respondApproval)
	})

	// Session dashboard endpoints.
	s.router.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Get("/abandoned", s.listAbandonedSessions)
	})

	// Event stream.
	s.router.Get("/events", s.events)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
