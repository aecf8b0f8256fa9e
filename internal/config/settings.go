package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the runtime knobs read from AGENTGATE_* environment
// variables.
type Settings struct {
	// DataDir overrides where the session registry and approval cache
	// live. Empty means the XDG default.
	DataDir string `envconfig:"DATA_DIR"`

	// WebhookURL is the base URL of the notification channel. Empty
	// disables the webhook notifier.
	WebhookURL string `envconfig:"WEBHOOK_URL"`

	// ApprovalTimeout bounds how long an ask waits for a human.
	ApprovalTimeout time.Duration `envconfig:"APPROVAL_TIMEOUT" default:"5m"`

	// TimeoutAction is applied when no response arrives: allow, deny or
	// wait (wait re-arms the timeout).
	TimeoutAction string `envconfig:"TIMEOUT_ACTION" default:"deny"`

	// AbandonThreshold is how long a tracked session may go without a
	// heartbeat before it counts as abandoned.
	AbandonThreshold time.Duration `envconfig:"ABANDON_THRESHOLD" default:"10s"`
}

// LoadSettings reads Settings from the environment. Unset variables fall
// back to their defaults; a malformed value is an error the caller
// surfaces at startup rather than mid-decision.
func LoadSettings() (Settings, error) {
	var s Settings
	err := envconfig.Process("agentgate", &s)
	return s, err
}
