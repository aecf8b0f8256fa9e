// Package notify defines the notification channel boundary: how an ask
// decision becomes a human-visible question and how the answer comes back.
// The orchestrator treats every implementation as an opaque async call; a
// notifier error is mapped to deny upstream, never propagated.
package notify

import (
	"context"
)

// Request is one approval question.
type Request struct {
	ID        string   `json:"id"`
	SessionID string   `json:"sessionID"`
	ToolName  string   `json:"toolName"`
	Patterns  []string `json:"patterns,omitempty"`
	Summary   string   `json:"summary"`
	CWD       string   `json:"cwd,omitempty"`
}

// Decisions a channel may answer with.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Response is the human's answer.
type Response struct {
	Decision string `json:"decision"` // DecisionAllow or DecisionDeny
	Message  string `json:"message,omitempty"`
}

// Notification is a one-way, best-effort message (session started,
// session finished, reminder).
type Notification struct {
	SessionID string `json:"sessionID"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
}

// Notifier is the external notification channel. RequestApproval blocks
// until the channel resolves or ctx expires; SendNotification is fire and
// forget from the caller's point of view.
type Notifier interface {
	RequestApproval(ctx context.Context, req Request) (Response, error)
	SendNotification(ctx context.Context, n Notification) error
}

// AutoApprove is a Notifier that allows everything without asking. Used
// for unattended runs where the policy's allow/deny rules are the only
// gate.
type AutoApprove struct{}

func (AutoApprove) RequestApproval(ctx context.Context, req Request) (Response, error) {
	return Response{Decision: DecisionAllow, Message: "auto-approved"}, nil
}

func (AutoApprove) SendNotification(ctx context.Context, n Notification) error {
	return nil
}
