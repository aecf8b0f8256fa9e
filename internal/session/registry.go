package session

import (
	"context"
	"errors"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/agentgate-ai/agentgate/internal/storage"
)

// registryKey is the store path of the shared registry structure.
var registryKey = []string{"sessions", "active"}

// Registry persists the active-session map as one unit. Every access is a
// whole-structure read-modify-write: concurrent writers race and the last
// write wins, which the tracker tolerates because the abandonment threshold
// is generous relative to write latency. Implementations must treat
// unreadable or corrupt state as an empty registry, never as a fatal error.
type Registry interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Save(ctx context.Context, entries map[string]Entry) error
}

// FileRegistry stores the registry in the shared JSON store, so separate
// hook processes observe the same state.
type FileRegistry struct {
	store *storage.Store
}

// NewFileRegistry creates a registry backed by the given store.
func NewFileRegistry(store *storage.Store) *FileRegistry {
	return &FileRegistry{store: store}
}

func (r *FileRegistry) Load(ctx context.Context) (map[string]Entry, error) {
	entries := make(map[string]Entry)
	err := r.store.Get(ctx, registryKey, &entries)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return entries, nil
		}
		if errors.Is(err, storage.ErrCorrupt) {
			log.Warn().Err(err).Msg("session registry unreadable, starting empty")
			return make(map[string]Entry), nil
		}
		return nil, err
	}
	return entries, nil
}

func (r *FileRegistry) Save(ctx context.Context, entries map[string]Entry) error {
	return r.store.Put(ctx, registryKey, entries)
}

// MemRegistry is an in-memory Registry for tests and embedded use.
type MemRegistry struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemRegistry creates an empty in-memory registry.
func NewMemRegistry() *MemRegistry {
	return &MemRegistry{entries: make(map[string]Entry)}
}

func (r *MemRegistry) Load(ctx context.Context) (map[string]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Entry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out, nil
}

func (r *MemRegistry) Save(ctx context.Context, entries map[string]Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]Entry, len(entries))
	for k, v := range entries {
		r.entries[k] = v
	}
	return nil
}

// pidAlive probes a process with signal 0. PID zero or negative counts as
// dead so entries recorded without a PID can be reaped.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
