package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/agentgate-ai/agentgate/internal/hook"
)

var (
	hookAutoApprove bool
	hookTimeout     time.Duration
	hookOnTimeout   string
)

var hookCmd = &cobra.Command{
	Use:   "hook [pretooluse|sessionstart|stop]",
	Short: "Run one hook invocation",
	Long: `Read a hook request as JSON on stdin, evaluate it, and write the
decision as JSON on stdout.

Exit codes follow the hook contract: 0 when the tool call may proceed
(or the decision is ask), 2 when it is denied, 1 on error.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"pretooluse", "sessionstart", "stop"},
	RunE:      runHook,
}

func init() {
	hookCmd.Flags().BoolVar(&hookAutoApprove, "auto-approve", false, "Answer ask decisions with allow instead of prompting")
	hookCmd.Flags().DurationVar(&hookTimeout, "timeout", 0, "Approval timeout (overrides AGENTGATE_APPROVAL_TIMEOUT)")
	hookCmd.Flags().StringVar(&hookOnTimeout, "on-timeout", "", "Action when an approval times out: allow, deny or wait")
}

func runHook(cmd *cobra.Command, args []string) error {
	// Decode errors and wiring failures exit 1 via cobra's error path.
	var req hook.Request
	if err := json.NewDecoder(io.LimitReader(os.Stdin, 1<<20)).Decode(&req); err != nil {
		return fmt.Errorf("failed to decode hook request: %w", err)
	}
	if req.SessionID == "" {
		return fmt.Errorf("hook request has no session_id")
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}

	timeout := d.settings.ApprovalTimeout
	if hookTimeout > 0 {
		timeout = hookTimeout
	}
	onTimeout := hook.ParseTimeoutAction(d.settings.TimeoutAction)
	if hookOnTimeout != "" {
		onTimeout = hook.ParseTimeoutAction(hookOnTimeout)
	}

	directory := req.CWD
	if directory == "" {
		directory, _ = os.Getwd()
	}
	orch := d.orchestrator(directory, d.notifier(hookAutoApprove), timeout, onTimeout)

	ctx := cmd.Context()
	var resp hook.Response
	switch args[0] {
	case "pretooluse":
		resp = orch.PreAction(ctx, req)
	case "sessionstart":
		resp = orch.SessionStart(ctx, req)
	case "stop":
		resp = orch.Stop(ctx, req)
	default:
		return fmt.Errorf("unknown hook %q", args[0])
	}

	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		return err
	}

	if resp.Decision == hook.DecisionDeny {
		log.Debug().Str("message", resp.Message).Msg("hook denied")
		os.Exit(2)
	}
	return nil
}
