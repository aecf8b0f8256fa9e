// Package session tracks in-flight agent actions waiting on approval, so
// that a pending question whose owning process died or went silent can be
// noticed and reported.
package session

import (
	"time"
)

// DefaultAbandonThreshold is how long a tracked entry may go without a
// heartbeat before it counts as abandoned.
const DefaultAbandonThreshold = 10 * time.Second

// Entry is one in-flight agent action. Created when a pre-action request
// needs human approval, heartbeated while waiting, removed when the
// approval round-trip ends.
type Entry struct {
	SessionID    string    `json:"sessionId"`
	ToolCall     string    `json:"toolCall"`
	StartTime    time.Time `json:"startTime"`
	LastActivity time.Time `json:"lastActivity"`
	PID          int       `json:"pid"`
	MessageID    string    `json:"messageId,omitempty"`
	ChatID       string    `json:"chatId,omitempty"`
}

// Abandoned pairs an entry with how long it has been inactive.
type Abandoned struct {
	Entry    Entry
	Inactive time.Duration
}

// Metadata carries the optional fields of a new entry.
type Metadata struct {
	PID       int
	MessageID string
	ChatID    string
}
