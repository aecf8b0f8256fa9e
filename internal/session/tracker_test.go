package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgate-ai/agentgate/internal/storage"
)

func newTestTracker(t *testing.T) (*Tracker, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(NewMemRegistry())
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

func TestTrackerTrackAndGet(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	err := tracker.Track(ctx, "s1", "Bash(rm:*)", Metadata{PID: 123, MessageID: "m1", ChatID: "c1"})
	require.NoError(t, err)

	entry, ok, err := tracker.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bash(rm:*)", entry.ToolCall)
	assert.Equal(t, 123, entry.PID)
	assert.Equal(t, entry.StartTime, entry.LastActivity)
}

func TestTrackerTrackOverwrites(t *testing.T) {
	tracker, now := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, "s1", "Bash(ls:*)", Metadata{}))
	*now = now.Add(5 * time.Second)
	require.NoError(t, tracker.Track(ctx, "s1", "Edit(a.go)", Metadata{}))

	entry, ok, err := tracker.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Edit(a.go)", entry.ToolCall)
	assert.Equal(t, *now, entry.StartTime)
}

func TestTrackerHeartbeat(t *testing.T) {
	tracker, now := newTestTracker(t)
	ctx := context.Background()

	start := *now
	require.NoError(t, tracker.Track(ctx, "s1", "Bash(ls:*)", Metadata{}))

	*now = now.Add(7 * time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, "s1"))

	entry, _, err := tracker.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, start, entry.StartTime)
	assert.Equal(t, *now, entry.LastActivity)

	// Heartbeating an unknown session is a no-op.
	require.NoError(t, tracker.Heartbeat(ctx, "ghost"))
}

func TestTrackerRemove(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, "s1", "Bash(ls:*)", Metadata{}))
	require.NoError(t, tracker.Remove(ctx, "s1"))

	_, ok, err := tracker.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tracker.Remove(ctx, "s1"))
}

func TestTrackerListAbandonedBoundary(t *testing.T) {
	tracker, now := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, "exact", "Bash(a:*)", Metadata{}))
	require.NoError(t, tracker.Track(ctx, "stale", "Bash(b:*)", Metadata{}))
	require.NoError(t, tracker.Heartbeat(ctx, "exact"))

	// Age "stale" past the threshold, "exact" to exactly the threshold.
	*now = now.Add(10 * time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, "exact"))
	*now = now.Add(1 * time.Millisecond)

	// "stale" is 10.001s inactive (abandoned), "exact" is 0.001s.
	abandoned, err := tracker.ListAbandoned(ctx, 10*time.Second)
	require.NoError(t, err)
	require.Len(t, abandoned, 1)
	assert.Equal(t, "stale", abandoned[0].Entry.SessionID)
	assert.Equal(t, 10*time.Second+time.Millisecond, abandoned[0].Inactive)

	// An entry inactive for exactly the threshold is NOT abandoned.
	tracker2, now2 := newTestTracker(t)
	require.NoError(t, tracker2.Track(ctx, "edge", "Bash(c:*)", Metadata{}))
	*now2 = now2.Add(10 * time.Second)
	abandoned, err = tracker2.ListAbandoned(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.Empty(t, abandoned)
}

func TestTrackerListSorted(t *testing.T) {
	tracker, now := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, "first", "a", Metadata{}))
	*now = now.Add(time.Second)
	require.NoError(t, tracker.Track(ctx, "second", "b", Metadata{}))

	entries, err := tracker.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].SessionID)
	assert.Equal(t, "second", entries[1].SessionID)
}

func TestTrackerCleanupDead(t *testing.T) {
	tracker, now := newTestTracker(t)
	ctx := context.Background()

	// Our own PID is alive; an absurd PID is not.
	require.NoError(t, tracker.Track(ctx, "alive", "a", Metadata{PID: os.Getpid()}))
	require.NoError(t, tracker.Track(ctx, "dead", "b", Metadata{PID: 1 << 30}))
	require.NoError(t, tracker.Track(ctx, "nopid", "c", Metadata{}))

	*now = now.Add(time.Minute)
	removed, err := tracker.CleanupDead(ctx, 10*time.Second)
	require.NoError(t, err)
	require.Len(t, removed, 2)

	_, ok, _ := tracker.Get(ctx, "alive")
	assert.True(t, ok, "live process entry must survive")
	_, ok, _ = tracker.Get(ctx, "dead")
	assert.False(t, ok)
	_, ok, _ = tracker.Get(ctx, "nopid")
	assert.False(t, ok)
}

func TestFileRegistryRoundTrip(t *testing.T) {
	store := storage.New(t.TempDir())
	registry := NewFileRegistry(store)
	ctx := context.Background()

	entries, err := registry.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries["s1"] = Entry{SessionID: "s1", ToolCall: "Bash(ls:*)", PID: 7}
	require.NoError(t, registry.Save(ctx, entries))

	loaded, err := registry.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Bash(ls:*)", loaded["s1"].ToolCall)
}

func TestFileRegistryCorruptIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := storage.New(dir)
	registry := NewFileRegistry(store)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, []string{"sessions", "active"}, map[string]Entry{
		"s1": {SessionID: "s1"},
	}))

	// Clobber the file with garbage; the registry must come back empty.
	require.NoError(t, os.WriteFile(dir+"/sessions/active.json", []byte("%%%"), 0o644))

	entries, err := registry.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
