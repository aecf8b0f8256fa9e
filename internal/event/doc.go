/*
Package event provides a type-safe pub/sub event system for session
lifecycle and approval activity.

The hook orchestrator publishes here so that observers (the approval
server's SSE feed, log sinks, tests) can react without the orchestrator
depending on them. The bus is built on watermill's gochannel for
infrastructure while keeping direct-call semantics to preserve type
information.

# Event Types

Session lifecycle:
  - session.started: a hook session began
  - session.stopped: a hook session ended
  - session.abandoned: a pending approval went stale

Approvals:
  - approval.requested: an ask decision is waiting on a human
  - approval.resolved: a human (or fallback) produced a decision
  - approval.timeout: the configured timeout action was applied

# Usage

Subscribe to one type or to everything:

	unsub := event.Subscribe(event.ApprovalRequested, func(e event.Event) {
		data := e.Data.(event.ApprovalRequestedData)
		// ...
	})
	defer unsub()

Hook invocations are short-lived processes, so the orchestrator uses
PublishSync to guarantee delivery before exit; Publish delivers
asynchronously and is preferred inside the long-running server.
*/
package event
