// Package summary renders the human-readable text sent alongside an
// approval request: what tool is being invoked, the canonical patterns it
// resolves to, risk notes for shell commands, and a compact diff for
// proposed edits.
package summary

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agentgate-ai/agentgate/internal/policy"
	"github.com/agentgate-ai/agentgate/internal/risk"
)

// maxDiffChars bounds the diff excerpt so notification payloads stay small.
const maxDiffChars = 1200

// Build renders the approval summary for a proposed tool call.
func Build(toolName, cwd string, input policy.ToolInput, patterns []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tool: %s\n", toolName)
	if cwd != "" {
		fmt.Fprintf(&b, "Dir: %s\n", cwd)
	}
	if len(patterns) > 0 {
		fmt.Fprintf(&b, "Patterns: %s\n", strings.Join(patterns, ", "))
	}

	switch in := input.(type) {
	case policy.BashInput:
		fmt.Fprintf(&b, "Command: %s\n", in.Command)
		writeRiskNotes(&b, in.Command)
	case policy.FetchInput:
		fmt.Fprintf(&b, "URL: %s\n", in.URL)
	case policy.FileInput:
		if in.FilePath != "" {
			fmt.Fprintf(&b, "File: %s\n", in.FilePath)
		}
		writeDiff(&b, in.OldString, in.NewString)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeRiskNotes(b *strings.Builder, command string) {
	notes := risk.Analyze(command)
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(b, "Risk: %s\n", risk.Worst(notes))
	for _, n := range notes {
		fmt.Fprintf(b, "  - %s: %s (%s)\n", n.Command, n.Reason, n.Level)
	}
}

// writeDiff appends a compact edit preview. Insertions and deletions are
// line-prefixed unified-style; unchanged runs are collapsed.
func writeDiff(b *strings.Builder, before, after string) {
	if before == after || (before == "" && after == "") {
		return
	}

	dmp := diffmatchpatch.New()
	a, bb, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, bb, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var d strings.Builder
	for _, diff := range diffs {
		prefix := " "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffEqual:
			// Collapse unchanged context to keep the excerpt short.
			if countLines(diff.Text) > 2 {
				d.WriteString("  ...\n")
				continue
			}
		}
		for _, line := range splitLines(diff.Text) {
			d.WriteString(prefix)
			d.WriteString(line)
			d.WriteString("\n")
		}
	}

	text := d.String()
	if len(text) > maxDiffChars {
		text = text[:maxDiffChars] + "\n  ... (truncated)\n"
	}
	if text != "" {
		b.WriteString("Changes:\n")
		b.WriteString(text)
	}
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func countLines(s string) int {
	return len(splitLines(s))
}
