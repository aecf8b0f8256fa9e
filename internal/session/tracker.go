package session

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Tracker is the persisted registry of in-flight agent actions.
type Tracker struct {
	registry Registry
	now      func() time.Time
}

// NewTracker creates a tracker over the given registry.
func NewTracker(registry Registry) *Tracker {
	return &Tracker{registry: registry, now: time.Now}
}

// Track creates or overwrites the entry for a session, stamping now as
// both start time and last activity.
func (t *Tracker) Track(ctx context.Context, sessionID, toolCall string, meta Metadata) error {
	entries, err := t.registry.Load(ctx)
	if err != nil {
		return err
	}

	now := t.now()
	entries[sessionID] = Entry{
		SessionID:    sessionID,
		ToolCall:     toolCall,
		StartTime:    now,
		LastActivity: now,
		PID:          meta.PID,
		MessageID:    meta.MessageID,
		ChatID:       meta.ChatID,
	}
	return t.registry.Save(ctx, entries)
}

// Heartbeat refreshes a session's last activity. A heartbeat for an
// unknown session is a no-op, not an error.
func (t *Tracker) Heartbeat(ctx context.Context, sessionID string) error {
	entries, err := t.registry.Load(ctx)
	if err != nil {
		return err
	}

	entry, ok := entries[sessionID]
	if !ok {
		return nil
	}
	entry.LastActivity = t.now()
	entries[sessionID] = entry
	return t.registry.Save(ctx, entries)
}

// Remove deletes a session's entry. Removing an unknown session is a
// no-op.
func (t *Tracker) Remove(ctx context.Context, sessionID string) error {
	entries, err := t.registry.Load(ctx)
	if err != nil {
		return err
	}

	if _, ok := entries[sessionID]; !ok {
		return nil
	}
	delete(entries, sessionID)
	return t.registry.Save(ctx, entries)
}

// Get returns the entry for a session, if present.
func (t *Tracker) Get(ctx context.Context, sessionID string) (Entry, bool, error) {
	entries, err := t.registry.Load(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	entry, ok := entries[sessionID]
	return entry, ok, nil
}

// List returns all tracked entries sorted by start time.
func (t *Tracker) List(ctx context.Context) ([]Entry, error) {
	entries, err := t.registry.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

// ListAbandoned returns every entry whose inactivity strictly exceeds the
// threshold, paired with how long it has been inactive. An entry inactive
// for exactly the threshold is not abandoned.
func (t *Tracker) ListAbandoned(ctx context.Context, threshold time.Duration) ([]Abandoned, error) {
	if threshold <= 0 {
		threshold = DefaultAbandonThreshold
	}

	entries, err := t.registry.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := t.now()
	var abandoned []Abandoned
	for _, e := range entries {
		inactive := now.Sub(e.LastActivity)
		if inactive > threshold {
			abandoned = append(abandoned, Abandoned{Entry: e, Inactive: inactive})
		}
	}
	sort.Slice(abandoned, func(i, j int) bool {
		return abandoned[i].Inactive > abandoned[j].Inactive
	})
	return abandoned, nil
}

// CleanupDead reaps entries left behind by crashed processes: anything
// past the threshold whose PID no longer answers a liveness probe.
// Returns the removed entries.
func (t *Tracker) CleanupDead(ctx context.Context, threshold time.Duration) ([]Entry, error) {
	if threshold <= 0 {
		threshold = DefaultAbandonThreshold
	}

	entries, err := t.registry.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := t.now()
	var removed []Entry
	for id, e := range entries {
		if now.Sub(e.LastActivity) <= threshold {
			continue
		}
		if pidAlive(e.PID) {
			continue
		}
		log.Info().Str("sessionID", id).Int("pid", e.PID).Msg("reaping dead session entry")
		removed = append(removed, e)
		delete(entries, id)
	}

	if len(removed) == 0 {
		return nil, nil
	}
	return removed, t.registry.Save(ctx, entries)
}
