package hook

// Request is the payload delivered on stdin by the agent's hook runner.
// Field names follow the runner's wire format.
type Request struct {
	SessionID      string         `json:"session_id"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
	CWD            string         `json:"cwd,omitempty"`
	ToolName       string         `json:"tool_name,omitempty"`
	ToolInput      map[string]any `json:"tool_input,omitempty"`
	StopHookActive bool           `json:"stop_hook_active,omitempty"`
}

// Decision values a hook may return.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionAsk   = "ask"
)

// Response is written to stdout. Allow lets the tool call proceed, deny
// blocks it with Message as the reason, and ask defers to the caller's
// own prompt when no approval channel is configured.
type Response struct {
	Decision string `json:"decision"`
	Message  string `json:"message,omitempty"`
}

func allow(msg string) Response { return Response{Decision: DecisionAllow, Message: msg} }
func deny(msg string) Response  { return Response{Decision: DecisionDeny, Message: msg} }
