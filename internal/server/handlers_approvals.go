package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentgate-ai/agentgate/internal/notify"
)

// listApprovals returns the approval requests currently waiting for an
// answer.
func (s *Server) listApprovals(w http.ResponseWriter, r *http.Request) {
	if s.pending == nil {
		writeJSON(w, http.StatusOK, []notify.Request{})
		return
	}
	writeJSON(w, http.StatusOK, s.pending.List())
}

// respondApproval resolves a pending approval by ID with an allow or
// deny decision.
func (s *Server) respondApproval(w http.ResponseWriter, r *http.Request) {
	if s.pending == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "approvals are resolved out of process")
		return
	}

	id := chi.URLParam(r, "id")

	var resp notify.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}
	if resp.Decision != notify.DecisionAllow && resp.Decision != notify.DecisionDeny {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "decision must be allow or deny")
		return
	}

	if err := s.pending.Respond(id, resp); err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	}
	writeSuccess(w)
}
