// Package risk classifies proposed shell commands by how much damage they
// can do. The classification feeds approval summaries only; it never
// changes a policy decision.
package risk

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Level orders risk from none to critical.
type Level int

const (
	None Level = iota
	Low
	Medium
	High
	Critical
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "none"
	}
}

// Note is one finding about a command.
type Note struct {
	Level   Level
	Command string
	Reason  string
}

// highRiskCommands destroy or mutate state irreversibly.
var highRiskCommands = map[string]string{
	"rm":    "removes files",
	"rmdir": "removes directories",
	"dd":    "writes raw devices",
	"chmod": "changes file modes",
	"chown": "changes file ownership",
	"mkfs":  "formats filesystems",
	"shred": "destroys file contents",
}

// mediumRiskCommands change the environment in recoverable ways.
var mediumRiskCommands = map[string]string{
	"mv":      "moves files",
	"cp":      "overwrites files",
	"curl":    "performs network requests",
	"wget":    "performs network requests",
	"kill":    "signals processes",
	"pkill":   "signals processes",
	"npm":     "may install packages",
	"pip":     "may install packages",
	"apt":     "may install packages",
	"apt-get": "may install packages",
	"brew":    "may install packages",
}

// shellInterpreters running piped input execute arbitrary code.
var shellInterpreters = map[string]bool{
	"bash": true, "sh": true, "zsh": true, "fish": true,
	"python": true, "python3": true, "perl": true, "ruby": true, "node": true,
}

// Analyze parses the command with a bash-aware parser and returns one note
// per risky simple command found, worst first within equal parse order.
// A command that does not parse yields a single unknown-risk note rather
// than an error.
func Analyze(command string) []Note {
	parser := syntax.NewParser(
		syntax.Variant(syntax.LangBash),
		syntax.KeepComments(false),
	)

	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return []Note{{
			Level:   Medium,
			Command: firstWord(command),
			Reason:  "command could not be parsed",
		}}
	}

	var notes []Note
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		name := wordText(call.Args[0])
		if name == "" {
			return true
		}
		if note, risky := classify(name, call); risky {
			notes = append(notes, note)
		}
		return true
	})
	return notes
}

// Worst returns the highest level among the notes, or None.
func Worst(notes []Note) Level {
	worst := None
	for _, n := range notes {
		if n.Level > worst {
			worst = n.Level
		}
	}
	return worst
}

func classify(name string, call *syntax.CallExpr) (Note, bool) {
	if name == "rm" && hasRecursiveForce(call) {
		return Note{Level: Critical, Command: name, Reason: "recursive forced removal"}, true
	}
	if shellInterpreters[name] {
		return Note{Level: High, Command: name, Reason: "spawns an interpreter"}, true
	}
	if reason, ok := highRiskCommands[name]; ok {
		return Note{Level: High, Command: name, Reason: reason}, true
	}
	if reason, ok := mediumRiskCommands[name]; ok {
		return Note{Level: Medium, Command: name, Reason: reason}, true
	}
	return Note{}, false
}

// hasRecursiveForce reports whether an rm call carries both -r and -f in
// any spelling (-rf, -fr, -r -f, --recursive --force).
func hasRecursiveForce(call *syntax.CallExpr) bool {
	recursive, force := false, false
	for _, arg := range call.Args[1:] {
		text := wordText(arg)
		switch {
		case text == "--recursive":
			recursive = true
		case text == "--force":
			force = true
		case strings.HasPrefix(text, "-") && !strings.HasPrefix(text, "--"):
			if strings.ContainsAny(text, "rR") {
				recursive = true
			}
			if strings.Contains(text, "f") {
				force = true
			}
		}
	}
	return recursive && force
}

// wordText flattens a parsed word into plain text, keeping expansions as
// placeholders.
func wordText(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, qp := range p.Parts {
				if lit, ok := qp.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		case *syntax.ParamExp:
			sb.WriteString("$" + p.Param.Value)
		case *syntax.CmdSubst:
			sb.WriteString("$()")
		}
	}
	return sb.String()
}

func firstWord(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
