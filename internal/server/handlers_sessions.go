package server

import (
	"net/http"
	"time"

	"github.com/agentgate-ai/agentgate/internal/session"
)

// abandonedSession is the wire shape for an abandoned entry.
type abandonedSession struct {
	session.Entry
	Inactive string `json:"inactive"`
}

// listSessions returns all tracked sessions ordered by start time.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.tracker.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if entries == nil {
		entries = []session.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// listAbandonedSessions returns sessions inactive past the threshold.
// An optional threshold query parameter (Go duration) overrides the
// configured default.
func (s *Server) listAbandonedSessions(w http.ResponseWriter, r *http.Request) {
	threshold := s.config.AbandonThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid threshold: "+err.Error())
			return
		}
		threshold = parsed
	}

	abandoned, err := s.tracker.ListAbandoned(r.Context(), threshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	out := make([]abandonedSession, 0, len(abandoned))
	for _, a := range abandoned {
		out = append(out, abandonedSession{
			Entry:    a.Entry,
			Inactive: a.Inactive.Round(time.Second).String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
