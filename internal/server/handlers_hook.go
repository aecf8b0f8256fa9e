package server

import (
	"encoding/json"
	"net/http"

	"github.com/agentgate-ai/agentgate/internal/hook"
)

func (s *Server) decodeHookRequest(w http.ResponseWriter, r *http.Request) (hook.Request, bool) {
	var req hook.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body: "+err.Error())
		return hook.Request{}, false
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "session_id is required")
		return hook.Request{}, false
	}
	return req, true
}

// hookPreToolUse evaluates a tool call. The response decision mirrors
// the stdin hook: allow, deny, or ask.
func (s *Server) hookPreToolUse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeHookRequest(w, r)
	if !ok {
		return
	}
	if req.ToolName == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "tool_name is required")
		return
	}

	resp := s.orchestrator.PreAction(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) hookSessionStart(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeHookRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.orchestrator.SessionStart(r.Context(), req))
}

func (s *Server) hookStop(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeHookRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.orchestrator.Stop(r.Context(), req))
}
