package commands

import (
	"time"

	"github.com/agentgate-ai/agentgate/internal/config"
	"github.com/agentgate-ai/agentgate/internal/hook"
	"github.com/agentgate-ai/agentgate/internal/notify"
	"github.com/agentgate-ai/agentgate/internal/session"
	"github.com/agentgate-ai/agentgate/internal/storage"
)

// deps bundles the shared wiring behind every command.
type deps struct {
	settings config.Settings
	dataDir  string
	store    *storage.Store
	tracker  *session.Tracker
	cache    *hook.ApprovalCache
}

func buildDeps() (*deps, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	dir := settings.DataDir
	if dir == "" {
		dir = storage.DefaultDir()
	}
	store := storage.New(dir)

	return &deps{
		settings: settings,
		dataDir:  dir,
		store:    store,
		tracker:  session.NewTracker(session.NewFileRegistry(store)),
		cache:    hook.NewApprovalCache(store),
	}, nil
}

// orchestrator builds a hook orchestrator over the deps for the given
// working directory. notifier may be nil; the ask decision is then
// returned to the caller instead of resolved.
func (d *deps) orchestrator(directory string, notifier notify.Notifier, timeout time.Duration, onTimeout hook.TimeoutAction) *hook.Orchestrator {
	return hook.New(hook.Options{
		Levels:         config.LoadLevels(directory),
		Tracker:        d.tracker,
		Notifier:       notifier,
		Cache:          d.cache,
		Timer:          hook.ApprovalTimer{Timeout: timeout, Action: onTimeout},
		HeartbeatEvery: d.settings.AbandonThreshold / 3,
	})
}

// notifier picks the approval channel from settings: the webhook when
// one is configured, otherwise auto-approve when asked for, otherwise
// none.
func (d *deps) notifier(autoApprove bool) notify.Notifier {
	if d.settings.WebhookURL != "" {
		return notify.NewWebhook(d.settings.WebhookURL)
	}
	if autoApprove {
		return notify.AutoApprove{}
	}
	return nil
}
