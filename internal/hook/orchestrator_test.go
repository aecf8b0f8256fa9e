package hook

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgate-ai/agentgate/internal/notify"
	"github.com/agentgate-ai/agentgate/internal/policy"
	"github.com/agentgate-ai/agentgate/internal/session"
	"github.com/agentgate-ai/agentgate/internal/storage"
)

// fakeNotifier answers approval requests from a scripted function and
// records notifications.
type fakeNotifier struct {
	approve       func(ctx context.Context, req notify.Request) (notify.Response, error)
	requests      atomic.Int32
	notifications atomic.Int32
}

func (f *fakeNotifier) RequestApproval(ctx context.Context, req notify.Request) (notify.Response, error) {
	f.requests.Add(1)
	return f.approve(ctx, req)
}

func (f *fakeNotifier) SendNotification(ctx context.Context, n notify.Notification) error {
	f.notifications.Add(1)
	return nil
}

func blockUntilCancel(ctx context.Context, _ notify.Request) (notify.Response, error) {
	<-ctx.Done()
	return notify.Response{}, ctx.Err()
}

func newTestOrchestrator(t *testing.T, levels []policy.Level, n notify.Notifier, timer ApprovalTimer) *Orchestrator {
	t.Helper()
	store := storage.New(t.TempDir())
	return New(Options{
		Levels:         levels,
		Tracker:        session.NewTracker(session.NewMemRegistry()),
		Notifier:       n,
		Cache:          NewApprovalCache(store),
		Timer:          timer,
		HeartbeatEvery: 10 * time.Millisecond,
		PID:            1,
	})
}

func bashRequest(command string) Request {
	return Request{
		SessionID: "sess-1",
		CWD:       "/work",
		ToolName:  "Bash",
		ToolInput: map[string]any{"command": command},
	}
}

func TestPreActionAllowedByRule(t *testing.T) {
	levels := []policy.Level{{
		Name:  "project",
		Allow: []policy.Rule{{Pattern: "Bash(npm test:*)"}},
	}}
	n := &fakeNotifier{approve: blockUntilCancel}
	o := newTestOrchestrator(t, levels, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("npm test -- --watch"))

	assert.Equal(t, DecisionAllow, resp.Decision)
	assert.Zero(t, n.requests.Load(), "allow should not reach the notifier")
}

func TestPreActionDeniedByRule(t *testing.T) {
	levels := []policy.Level{{
		Name:  "user",
		Allow: []policy.Rule{{Pattern: "Bash(rm:*)"}},
		Deny:  []policy.Rule{{Pattern: "Bash(rm:*)"}},
	}}
	n := &fakeNotifier{approve: blockUntilCancel}
	o := newTestOrchestrator(t, levels, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("rm -rf /tmp/x"))

	assert.Equal(t, DecisionDeny, resp.Decision)
	assert.Contains(t, resp.Message, "Bash(rm:*)")
	assert.Contains(t, resp.Message, "user")
	assert.Zero(t, n.requests.Load())
}

func TestPreActionCompoundDenyWins(t *testing.T) {
	levels := []policy.Level{{
		Name:  "project",
		Allow: []policy.Rule{{Pattern: "Bash(git status:*)"}},
		Deny:  []policy.Rule{{Pattern: "Bash(curl:*)"}},
	}}
	n := &fakeNotifier{approve: blockUntilCancel}
	o := newTestOrchestrator(t, levels, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("git status && curl http://evil.example"))

	assert.Equal(t, DecisionDeny, resp.Decision)
}

func TestPreActionAskApproved(t *testing.T) {
	n := &fakeNotifier{approve: func(ctx context.Context, req notify.Request) (notify.Response, error) {
		return notify.Response{Decision: notify.DecisionAllow, Message: "go ahead"}, nil
	}}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionAllow, resp.Decision)
	assert.Equal(t, int32(1), n.requests.Load())
}

func TestPreActionAskDenied(t *testing.T) {
	n := &fakeNotifier{approve: func(ctx context.Context, req notify.Request) (notify.Response, error) {
		return notify.Response{Decision: notify.DecisionDeny, Message: "not on a Friday"}, nil
	}}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionDeny, resp.Decision)
	assert.Equal(t, "not on a Friday", resp.Message)
}

func TestPreActionNotifierErrorDenies(t *testing.T) {
	n := &fakeNotifier{approve: func(ctx context.Context, req notify.Request) (notify.Response, error) {
		return notify.Response{}, errors.New("webhook unreachable")
	}}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionDeny, resp.Decision)
	assert.Contains(t, resp.Message, "Failed to send approval request")
	assert.Contains(t, resp.Message, "webhook unreachable")
}

func TestPreActionTimeoutDeny(t *testing.T) {
	n := &fakeNotifier{approve: blockUntilCancel}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: 30 * time.Millisecond, Action: TimeoutDeny})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionDeny, resp.Decision)
	assert.Contains(t, resp.Message, "timed out")
}

func TestPreActionTimeoutAllow(t *testing.T) {
	n := &fakeNotifier{approve: blockUntilCancel}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: 30 * time.Millisecond, Action: TimeoutAllow})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionAllow, resp.Decision)
}

func TestPreActionTimeoutWaitRearms(t *testing.T) {
	// Block through the first deadline, answer on the second attempt.
	var calls atomic.Int32
	n := &fakeNotifier{approve: func(ctx context.Context, req notify.Request) (notify.Response, error) {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			return notify.Response{}, ctx.Err()
		}
		return notify.Response{Decision: notify.DecisionAllow}, nil
	}}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: 30 * time.Millisecond, Action: TimeoutWait})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionAllow, resp.Decision)
	assert.Equal(t, int32(2), n.requests.Load())
	assert.GreaterOrEqual(t, n.notifications.Load(), int32(1), "wait should send a reminder")
}

func TestPreActionNoNotifierReturnsAsk(t *testing.T) {
	o := New(Options{Tracker: session.NewTracker(session.NewMemRegistry())})

	resp := o.PreAction(context.Background(), bashRequest("terraform apply"))

	assert.Equal(t, DecisionAsk, resp.Decision)
}

func TestPreActionCachedApprovalSkipsNotifier(t *testing.T) {
	n := &fakeNotifier{approve: func(ctx context.Context, req notify.Request) (notify.Response, error) {
		return notify.Response{Decision: notify.DecisionAllow}, nil
	}}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})

	first := o.PreAction(context.Background(), bashRequest("terraform apply"))
	require.Equal(t, DecisionAllow, first.Decision)
	require.Equal(t, int32(1), n.requests.Load())

	second := o.PreAction(context.Background(), bashRequest("terraform apply"))
	assert.Equal(t, DecisionAllow, second.Decision)
	assert.Equal(t, int32(1), n.requests.Load(), "second identical call should hit the cache")
}

func TestSessionStartFlushesCache(t *testing.T) {
	n := &fakeNotifier{approve: func(ctx context.Context, req notify.Request) (notify.Response, error) {
		return notify.Response{Decision: notify.DecisionAllow}, nil
	}}
	o := newTestOrchestrator(t, nil, n, ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny})
	ctx := context.Background()

	require.Equal(t, DecisionAllow, o.PreAction(ctx, bashRequest("terraform apply")).Decision)
	require.Equal(t, int32(1), n.requests.Load())

	resp := o.SessionStart(ctx, Request{SessionID: "sess-1", CWD: "/work"})
	require.Equal(t, DecisionAllow, resp.Decision)

	o.PreAction(ctx, bashRequest("terraform apply"))
	assert.Equal(t, int32(2), n.requests.Load(), "flush should force a fresh approval")
}

func TestStopRemovesTrackedEntry(t *testing.T) {
	tracker := session.NewTracker(session.NewMemRegistry())
	o := New(Options{Tracker: tracker, Cache: NewApprovalCache(storage.New(t.TempDir()))})
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, "sess-1", "Bash: sleep 60", session.Metadata{PID: 1}))

	resp := o.Stop(ctx, Request{SessionID: "sess-1"})
	require.Equal(t, DecisionAllow, resp.Decision)

	_, ok, err := tracker.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreActionEntryRemovedAfterAsk(t *testing.T) {
	tracker := session.NewTracker(session.NewMemRegistry())
	var seen atomic.Bool
	n := &fakeNotifier{}
	n.approve = func(ctx context.Context, req notify.Request) (notify.Response, error) {
		_, ok, err := tracker.Get(ctx, req.SessionID)
		if err == nil && ok {
			seen.Store(true)
		}
		return notify.Response{Decision: notify.DecisionDeny}, nil
	}
	o := New(Options{
		Tracker:  tracker,
		Notifier: n,
		Cache:    NewApprovalCache(storage.New(t.TempDir())),
		Timer:    ApprovalTimer{Timeout: time.Second, Action: TimeoutDeny},
	})
	ctx := context.Background()

	o.PreAction(ctx, bashRequest("terraform apply"))

	assert.True(t, seen.Load(), "entry should be tracked while the approval is pending")
	_, ok, err := tracker.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok, "entry should be removed once the cycle ends")
}

func TestApprovalTimerZeroWaitsForever(t *testing.T) {
	timer := ApprovalTimer{}
	resp, timedOut, err := timer.Run(context.Background(), func(ctx context.Context) (notify.Response, error) {
		return notify.Response{Decision: notify.DecisionAllow}, nil
	}, nil)
	require.NoError(t, err)
	assert.False(t, timedOut)
	assert.Equal(t, notify.DecisionAllow, resp.Decision)
}

func TestParseTimeoutAction(t *testing.T) {
	assert.Equal(t, TimeoutAllow, ParseTimeoutAction("allow"))
	assert.Equal(t, TimeoutWait, ParseTimeoutAction("wait"))
	assert.Equal(t, TimeoutDeny, ParseTimeoutAction("deny"))
	assert.Equal(t, TimeoutDeny, ParseTimeoutAction("explode"))
}
