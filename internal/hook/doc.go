// Package hook implements the hook boundary between the agent runtime and
// the permission engine. Each hook invocation reads one JSON request,
// resolves it through the policy levels, and writes one JSON response.
//
// Allow and deny decisions resolve locally. An ask decision is forwarded
// to the configured notifier and awaited under an ApprovalTimer; while the
// wait is pending the session tracker is heartbeated so the entry is not
// reported abandoned. Notifier failures degrade to deny, never to allow.
package hook
