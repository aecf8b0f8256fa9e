package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agentgate-ai/agentgate/internal/event"
)

// Monitor periodically scans the registry and publishes an event the
// first time an entry crosses the abandonment threshold. Each entry is
// reported once per tracked lifetime; re-tracking the session arms it
// again.
type Monitor struct {
	tracker   *Tracker
	threshold time.Duration
	interval  time.Duration

	reported map[string]time.Time // sessionID -> StartTime reported
}

// NewMonitor creates a monitor. A zero threshold uses the default; the
// scan interval is half the threshold.
func NewMonitor(tracker *Tracker, threshold time.Duration) *Monitor {
	if threshold <= 0 {
		threshold = DefaultAbandonThreshold
	}
	return &Monitor{
		tracker:   tracker,
		threshold: threshold,
		interval:  threshold / 2,
		reported:  make(map[string]time.Time),
	}
}

// Run scans until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

func (m *Monitor) scan(ctx context.Context) {
	abandoned, err := m.tracker.ListAbandoned(ctx, m.threshold)
	if err != nil {
		log.Warn().Err(err).Msg("abandonment scan failed")
		return
	}

	current := make(map[string]bool, len(abandoned))
	for _, a := range abandoned {
		current[a.Entry.SessionID] = true
		if m.reported[a.Entry.SessionID].Equal(a.Entry.StartTime) {
			continue
		}
		m.reported[a.Entry.SessionID] = a.Entry.StartTime

		log.Info().
			Str("sessionID", a.Entry.SessionID).
			Dur("inactive", a.Inactive).
			Msg("session abandoned")
		event.PublishSync(event.Event{Type: event.SessionAbandoned, Data: event.SessionAbandonedData{
			SessionID:       a.Entry.SessionID,
			ToolCall:        a.Entry.ToolCall,
			InactiveSeconds: a.Inactive.Seconds(),
		}})
	}

	// Forget entries that resolved or were re-tracked so they can be
	// reported again later.
	for id := range m.reported {
		if !current[id] {
			delete(m.reported, id)
		}
	}
}
