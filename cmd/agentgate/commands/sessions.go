package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/agentgate-ai/agentgate/internal/session"
)

var sessionsThreshold time.Duration

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List tracked sessions",
	Long: `Inspect the session registry: which sessions have a tool call in
flight, which look abandoned, and which were left behind by dead
processes.`,
	RunE: runSessionsList,
}

var sessionsAbandonedCmd = &cobra.Command{
	Use:   "abandoned",
	Short: "List sessions inactive past the threshold",
	RunE:  runSessionsAbandoned,
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stale entries whose process is gone",
	RunE:  runSessionsCleanup,
}

var sessionsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-list sessions whenever the registry changes",
	RunE:  runSessionsWatch,
}

func init() {
	sessionsCmd.PersistentFlags().DurationVar(&sessionsThreshold, "threshold", 0,
		"Inactivity threshold (overrides AGENTGATE_ABANDON_THRESHOLD)")

	sessionsCmd.AddCommand(sessionsAbandonedCmd)
	sessionsCmd.AddCommand(sessionsCleanupCmd)
	sessionsCmd.AddCommand(sessionsWatchCmd)
}

func (d *deps) threshold() time.Duration {
	if sessionsThreshold > 0 {
		return sessionsThreshold
	}
	return d.settings.AbandonThreshold
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	entries, err := d.tracker.List(cmd.Context())
	if err != nil {
		return err
	}
	printSessions(entries)
	return nil
}

func runSessionsAbandoned(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	abandoned, err := d.tracker.ListAbandoned(cmd.Context(), d.threshold())
	if err != nil {
		return err
	}

	if len(abandoned) == 0 {
		fmt.Println("No abandoned sessions.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tINACTIVE\tPID\tTOOL CALL")
	for _, a := range abandoned {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			a.Entry.SessionID, a.Inactive.Round(time.Second), a.Entry.PID, truncate(a.Entry.ToolCall, 60))
	}
	return w.Flush()
}

func runSessionsCleanup(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	removed, err := d.tracker.CleanupDead(cmd.Context(), d.threshold())
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d stale session(s).\n", len(removed))
	for _, e := range removed {
		fmt.Printf("  %s (pid %d): %s\n", e.SessionID, e.PID, truncate(e.ToolCall, 60))
	}
	return nil
}

func runSessionsWatch(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	// The registry lives in one file; watch its directory so the watch
	// survives the atomic rename the store uses on every save.
	dir := filepath.Join(d.dataDir, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	list := func() {
		entries, err := d.tracker.List(cmd.Context())
		if err != nil {
			log.Warn().Err(err).Msg("failed to list sessions")
			return
		}
		fmt.Printf("\n%s\n", time.Now().Format(time.TimeOnly))
		printSessions(entries)
	}
	list()

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				list()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

func printSessions(entries []session.Entry) {
	if len(entries) == 0 {
		fmt.Println("No tracked sessions.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSTARTED\tLAST ACTIVITY\tPID\tTOOL CALL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.SessionID,
			e.StartTime.Format(time.TimeOnly),
			e.LastActivity.Format(time.TimeOnly),
			e.PID,
			truncate(e.ToolCall, 60))
	}
	w.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
