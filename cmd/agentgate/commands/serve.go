package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/agentgate-ai/agentgate/internal/config"
	"github.com/agentgate-ai/agentgate/internal/hook"
	"github.com/agentgate-ai/agentgate/internal/notify"
	"github.com/agentgate-ai/agentgate/internal/server"
	"github.com/agentgate-ai/agentgate/internal/session"
)

var (
	servePort int
	serveDir  string
	serveCORS bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agentgate HTTP server",
	Long: `Serve the hook, approval and session endpoints over HTTP.

In this mode the server owns the approval channel: ask decisions park
until someone answers them via POST /approvals/{id}.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8787, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Directory whose settings levels apply (default: cwd)")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", true, "Enable CORS")
}

func runServe(cmd *cobra.Command, args []string) error {
	directory := serveDir
	if directory == "" {
		var err error
		if directory, err = os.Getwd(); err != nil {
			return err
		}
	}

	if err := config.GetPaths().EnsurePaths(); err != nil {
		return err
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}

	pending := notify.NewPending()
	onTimeout := hook.ParseTimeoutAction(d.settings.TimeoutAction)
	orch := d.orchestrator(directory, pending, d.settings.ApprovalTimeout, onTimeout)

	serverConfig := server.DefaultConfig()
	serverConfig.Port = servePort
	serverConfig.EnableCORS = serveCORS
	serverConfig.AbandonThreshold = d.settings.AbandonThreshold

	srv := server.New(serverConfig, orch, d.tracker, pending)

	monitorCtx, stopMonitor := context.WithCancel(cmd.Context())
	defer stopMonitor()
	go session.NewMonitor(d.tracker, d.settings.AbandonThreshold).Run(monitorCtx)

	go func() {
		log.Info().Int("port", servePort).Str("directory", directory).Msg("server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown error")
	}
	return nil
}
