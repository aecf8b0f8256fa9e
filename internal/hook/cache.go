package hook

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/agentgate-ai/agentgate/internal/storage"
)

// ApprovalCache remembers patterns the user already approved within a
// session so repeated identical tool calls do not re-prompt. Entries are
// flushed when the session starts or stops.
type ApprovalCache struct {
	store *storage.Store
}

func NewApprovalCache(store *storage.Store) *ApprovalCache {
	return &ApprovalCache{store: store}
}

func (c *ApprovalCache) path(sessionID string) []string {
	return []string{"approvals", sessionID}
}

func (c *ApprovalCache) load(ctx context.Context, sessionID string) map[string]bool {
	var approved map[string]bool
	err := c.store.Get(ctx, c.path(sessionID), &approved)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			log.Warn().Err(err).Str("session", sessionID).Msg("approval cache unreadable, starting empty")
		}
		return map[string]bool{}
	}
	if approved == nil {
		approved = map[string]bool{}
	}
	return approved
}

// Approved reports whether every pattern has already been approved in
// this session. An empty pattern list is never considered approved.
func (c *ApprovalCache) Approved(ctx context.Context, sessionID string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	approved := c.load(ctx, sessionID)
	for _, p := range patterns {
		if !approved[p] {
			return false
		}
	}
	return true
}

// Approve records the patterns as approved for the session.
func (c *ApprovalCache) Approve(ctx context.Context, sessionID string, patterns []string) error {
	approved := c.load(ctx, sessionID)
	for _, p := range patterns {
		approved[p] = true
	}
	return c.store.Put(ctx, c.path(sessionID), approved)
}

// Flush drops all cached approvals for the session.
func (c *ApprovalCache) Flush(ctx context.Context, sessionID string) error {
	err := c.store.Delete(ctx, c.path(sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}
