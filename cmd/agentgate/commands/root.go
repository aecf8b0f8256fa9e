// Package commands provides the CLI commands for agentgate.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/agentgate-ai/agentgate/internal/config"
	"github.com/agentgate-ai/agentgate/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "agentgate",
	Short: "agentgate - permission gate for agent tool calls",
	Long: `agentgate sits between a coding agent and the tools it wants to run.
Tool calls are matched against allow and deny rules; anything the rules
do not settle is forwarded for human approval.

Wire 'agentgate hook' into the agent's hook configuration, or run
'agentgate serve' to expose the same decisions over HTTP.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("agentgate %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(serveCmd)
}

// setupLogging routes logs to a file under the state dir by default.
// Hook invocations own stdout for their decision JSON, so logs never go
// there; --print-logs switches to pretty stderr output instead.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(logLevel)

	if printLogs {
		cfg.Pretty = true
		logging.Init(cfg)
		return nil
	}

	f, err := logging.FileOutput(filepath.Join(config.GetPaths().State, "agentgate.log"))
	if err != nil {
		// Fall back to stderr rather than failing the command.
		logging.Init(cfg)
		log.Warn().Err(err).Msg("failed to open log file")
		return nil
	}
	cfg.Output = f
	logging.Init(cfg)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
