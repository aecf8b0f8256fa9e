package hook

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agentgate-ai/agentgate/internal/event"
	"github.com/agentgate-ai/agentgate/internal/notify"
	"github.com/agentgate-ai/agentgate/internal/policy"
	"github.com/agentgate-ai/agentgate/internal/session"
	"github.com/agentgate-ai/agentgate/internal/summary"
)

// Options configures an Orchestrator. Levels come from config.LoadLevels,
// Notifier may be nil when no approval channel is configured.
type Options struct {
	Levels   []policy.Level
	Tracker  *session.Tracker
	Notifier notify.Notifier
	Cache    *ApprovalCache
	Timer    ApprovalTimer

	// HeartbeatEvery is how often the tracked session entry is stamped
	// while an approval is pending. Defaults to a third of the
	// abandonment threshold.
	HeartbeatEvery time.Duration

	// PID recorded on tracked entries. Defaults to os.Getpid().
	PID int
}

// Orchestrator ties the policy engine, session tracker, and approval
// channel together behind the hook boundary. One instance serves a
// single hook invocation or many; it holds no per-request state.
type Orchestrator struct {
	opts Options
}

func New(opts Options) *Orchestrator {
	if opts.HeartbeatEvery <= 0 {
		opts.HeartbeatEvery = session.DefaultAbandonThreshold / 3
	}
	if opts.PID == 0 {
		opts.PID = os.Getpid()
	}
	return &Orchestrator{opts: opts}
}

// SessionStart clears any stale per-session state left behind by a
// previous run and announces the new session.
func (o *Orchestrator) SessionStart(ctx context.Context, req Request) Response {
	if o.opts.Cache != nil {
		if err := o.opts.Cache.Flush(ctx, req.SessionID); err != nil {
			log.Warn().Err(err).Str("session", req.SessionID).Msg("failed to flush approval cache")
		}
	}
	if o.opts.Tracker != nil {
		if _, err := o.opts.Tracker.CleanupDead(ctx, 0); err != nil {
			log.Warn().Err(err).Msg("failed to reap dead session entries")
		}
	}
	event.PublishSync(event.Event{Type: event.SessionStarted, Data: event.SessionStartedData{
		SessionID: req.SessionID,
		CWD:       req.CWD,
	}})
	o.notifyBestEffort(ctx, req.SessionID, "session_start", fmt.Sprintf("Session started in %s", req.CWD))
	return allow("")
}

// Stop clears per-session state when the agent finishes its turn.
func (o *Orchestrator) Stop(ctx context.Context, req Request) Response {
	if o.opts.Cache != nil {
		if err := o.opts.Cache.Flush(ctx, req.SessionID); err != nil {
			log.Warn().Err(err).Str("session", req.SessionID).Msg("failed to flush approval cache")
		}
	}
	if o.opts.Tracker != nil {
		if err := o.opts.Tracker.Remove(ctx, req.SessionID); err != nil {
			log.Warn().Err(err).Str("session", req.SessionID).Msg("failed to remove session entry")
		}
	}
	event.PublishSync(event.Event{Type: event.SessionStopped, Data: event.SessionStoppedData{SessionID: req.SessionID}})
	o.notifyBestEffort(ctx, req.SessionID, "stop", "Agent finished responding")
	return allow("")
}

// PreAction evaluates a tool call against the configured permission
// levels. Allow and deny resolve immediately; ask is forwarded to the
// notifier and the answer is awaited under the approval timer.
func (o *Orchestrator) PreAction(ctx context.Context, req Request) Response {
	input := policy.DecodeInput(req.ToolName, req.ToolInput)
	patterns := policy.GeneratePatterns(req.ToolName, input)
	decision := policy.Aggregate(patterns, o.opts.Levels)

	lg := log.With().
		Str("session", req.SessionID).
		Str("tool", req.ToolName).
		Strs("patterns", patterns).
		Logger()

	switch decision.Action {
	case policy.ActionAllow:
		lg.Debug().Str("rule", decision.MatchedRule).Str("level", decision.Level).Msg("allowed by rule")
		return allow("")
	case policy.ActionDeny:
		lg.Info().Str("rule", decision.MatchedRule).Str("level", decision.Level).Msg("denied by rule")
		return deny(fmt.Sprintf("Denied by rule %q (%s settings)", decision.MatchedRule, decision.Level))
	}

	if o.opts.Cache != nil && o.opts.Cache.Approved(ctx, req.SessionID, patterns) {
		lg.Debug().Msg("approved earlier in this session")
		return allow("")
	}
	if o.opts.Notifier == nil {
		return Response{Decision: DecisionAsk}
	}
	return o.awaitApproval(ctx, req, input, patterns, lg)
}

func (o *Orchestrator) awaitApproval(ctx context.Context, req Request, input policy.ToolInput, patterns []string, lg zerolog.Logger) Response {
	id := newID()
	text := summary.Build(req.ToolName, req.CWD, input, patterns)

	if o.opts.Tracker != nil {
		if err := o.opts.Tracker.Track(ctx, req.SessionID, text, session.Metadata{PID: o.opts.PID}); err != nil {
			lg.Warn().Err(err).Msg("failed to track session entry")
		}
		defer func() {
			if err := o.opts.Tracker.Remove(context.WithoutCancel(ctx), req.SessionID); err != nil {
				lg.Warn().Err(err).Msg("failed to remove session entry")
			}
		}()
	}

	event.PublishSync(event.Event{Type: event.ApprovalRequested, Data: event.ApprovalRequestedData{
		ID:        id,
		SessionID: req.SessionID,
		ToolName:  req.ToolName,
		Patterns:  patterns,
		Summary:   text,
	}})

	stopHeartbeat := o.startHeartbeat(ctx, req.SessionID)
	defer stopHeartbeat()

	approvalReq := notify.Request{
		ID:        id,
		SessionID: req.SessionID,
		ToolName:  req.ToolName,
		Patterns:  patterns,
		Summary:   text,
		CWD:       req.CWD,
	}
	resp, timedOut, err := o.opts.Timer.Run(ctx,
		func(attemptCtx context.Context) (notify.Response, error) {
			return o.opts.Notifier.RequestApproval(attemptCtx, approvalReq)
		},
		func(attempt int) {
			lg.Info().Int("attempt", attempt).Msg("approval deadline passed, still waiting")
			o.notifyBestEffort(ctx, req.SessionID, "reminder",
				fmt.Sprintf("Still waiting for approval: %s", text))
		},
	)
	if timedOut {
		lg.Info().Str("action", string(o.opts.Timer.Action)).Msg("approval timed out")
		event.PublishSync(event.Event{Type: event.ApprovalTimeout, Data: event.ApprovalTimeoutData{
			ID:        id,
			SessionID: req.SessionID,
			Action:    string(o.opts.Timer.Action),
		}})
		if o.opts.Timer.Action == TimeoutAllow {
			return allow("Approval timed out, allowed by configuration")
		}
		return deny("Approval request timed out")
	}
	if err != nil {
		lg.Error().Err(err).Msg("approval request failed")
		return deny(fmt.Sprintf("Failed to send approval request: %v", err))
	}

	event.PublishSync(event.Event{Type: event.ApprovalResolved, Data: event.ApprovalResolvedData{
		ID:        id,
		SessionID: req.SessionID,
		Decision:  resp.Decision,
		Message:   resp.Message,
	}})
	if resp.Decision == notify.DecisionAllow {
		lg.Info().Msg("approved")
		if o.opts.Cache != nil {
			if err := o.opts.Cache.Approve(ctx, req.SessionID, patterns); err != nil {
				lg.Warn().Err(err).Msg("failed to record approval")
			}
		}
		return allow(resp.Message)
	}
	lg.Info().Str("message", resp.Message).Msg("denied")
	msg := resp.Message
	if msg == "" {
		msg = "Denied by user"
	}
	return deny(msg)
}

// startHeartbeat stamps the session entry while an approval is pending
// so it is not mistaken for abandoned. The returned func stops it.
func (o *Orchestrator) startHeartbeat(ctx context.Context, sessionID string) func() {
	if o.opts.Tracker == nil {
		return func() {}
	}
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(o.opts.HeartbeatEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := o.opts.Tracker.Heartbeat(ctx, sessionID); err != nil {
					log.Warn().Err(err).Str("session", sessionID).Msg("heartbeat failed")
				}
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}

func (o *Orchestrator) notifyBestEffort(ctx context.Context, sessionID, kind, text string) {
	if o.opts.Notifier == nil {
		return
	}
	if err := o.opts.Notifier.SendNotification(ctx, notify.Notification{
		SessionID: sessionID,
		Kind:      kind,
		Text:      text,
	}); err != nil {
		log.Debug().Err(err).Str("kind", kind).Msg("notification failed")
	}
}

func newID() string {
	return ulid.Make().String()
}
