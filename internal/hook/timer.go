package hook

import (
	"context"
	"errors"
	"time"

	"github.com/agentgate-ai/agentgate/internal/notify"
)

// TimeoutAction is what happens when an approval deadline elapses with no
// answer.
type TimeoutAction string

const (
	TimeoutAllow TimeoutAction = "allow"
	TimeoutDeny  TimeoutAction = "deny"
	// TimeoutWait re-arms the deadline instead of resolving.
	TimeoutWait TimeoutAction = "wait"
)

// ParseTimeoutAction maps a config string to a TimeoutAction, defaulting
// to deny for anything unrecognized.
func ParseTimeoutAction(s string) TimeoutAction {
	switch TimeoutAction(s) {
	case TimeoutAllow, TimeoutWait:
		return TimeoutAction(s)
	default:
		return TimeoutDeny
	}
}

// ApprovalTimer separates what happens on timeout (configuration) from
// how a timeout is detected (this type). The zero value waits forever.
type ApprovalTimer struct {
	Timeout time.Duration
	Action  TimeoutAction
}

// Run invokes ask under the timer's deadline. The returned timedOut is
// true when the deadline elapsed and the timer's action resolves the wait
// (allow or deny); a wait action re-arms the deadline and calls onRearm
// with the attempt count instead. Cancellation of the parent context and
// channel failures surface as errors.
func (t ApprovalTimer) Run(
	ctx context.Context,
	ask func(context.Context) (notify.Response, error),
	onRearm func(attempt int),
) (resp notify.Response, timedOut bool, err error) {
	if t.Timeout <= 0 {
		resp, err = ask(ctx)
		return resp, false, err
	}

	for attempt := 1; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, t.Timeout)
		resp, err = ask(attemptCtx)
		deadlineHit := attemptCtx.Err() != nil && ctx.Err() == nil
		cancel()

		if err == nil {
			return resp, false, nil
		}
		if !deadlineHit || !isDeadline(err) {
			return notify.Response{}, false, err
		}

		if t.Action == TimeoutWait {
			if onRearm != nil {
				onRearm(attempt)
			}
			continue
		}
		return notify.Response{}, true, nil
	}
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
