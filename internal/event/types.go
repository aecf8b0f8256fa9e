package event

// SessionStartedData is the data for session.started events.
type SessionStartedData struct {
	SessionID string `json:"sessionID"`
	CWD       string `json:"cwd,omitempty"`
}

// SessionStoppedData is the data for session.stopped events.
type SessionStoppedData struct {
	SessionID string `json:"sessionID"`
}

// SessionAbandonedData is the data for session.abandoned events.
type SessionAbandonedData struct {
	SessionID       string  `json:"sessionID"`
	ToolCall        string  `json:"toolCall,omitempty"`
	InactiveSeconds float64 `json:"inactiveSeconds"`
}

// ApprovalRequestedData is the data for approval.requested events.
type ApprovalRequestedData struct {
	ID        string   `json:"id"`
	SessionID string   `json:"sessionID"`
	ToolName  string   `json:"toolName"`
	Patterns  []string `json:"patterns,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}

// ApprovalResolvedData is the data for approval.resolved events.
type ApprovalResolvedData struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	Decision  string `json:"decision"` // "allow" | "deny"
	Message   string `json:"message,omitempty"`
}

// ApprovalTimeoutData is the data for approval.timeout events.
type ApprovalTimeoutData struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	Action    string `json:"action"` // configured fallback applied
}
