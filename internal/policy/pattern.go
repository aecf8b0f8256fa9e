package policy

import (
	"fmt"
	"net/url"
	"strings"
)

// subcommandTools are base commands whose first sub-word is significant
// enough to keep in the canonical pattern ("git status", "npm test").
var subcommandTools = map[string]bool{
	"git": true,
	"npm": true,
}

// GeneratePatterns maps a tool call to its canonical permission patterns.
// A Bash command yields one pattern per tokenized sub-command, in order;
// every other tool yields exactly one. Generation never fails: missing
// fields degrade to the least specific pattern for the tool family.
func GeneratePatterns(toolName string, input ToolInput) []string {
	switch in := input.(type) {
	case BashInput:
		return bashPatterns(in.Command)
	case FetchInput:
		return []string{fetchPattern(toolName, in.URL)}
	case FileInput:
		if in.FilePath == "" {
			return []string{toolName}
		}
		return []string{fmt.Sprintf("%s(%s)", toolName, in.FilePath)}
	default:
		return []string{toolName}
	}
}

// bashPatterns builds one canonical pattern per sub-command.
func bashPatterns(command string) []string {
	tokens := SplitCommand(command)
	if len(tokens) == 0 {
		return []string{"Bash"}
	}

	patterns := make([]string, 0, len(tokens))
	for _, token := range tokens {
		patterns = append(patterns, bashPattern(token))
	}
	return patterns
}

// bashPattern builds the canonical pattern for a single sub-command:
// "Bash(<base>:*)", or "Bash(<base> <sub>:*)" for git and npm.
func bashPattern(token string) string {
	words := strings.Fields(token)
	if len(words) == 0 {
		return "Bash"
	}

	base := words[0]
	if subcommandTools[base] && len(words) > 1 {
		return fmt.Sprintf("Bash(%s %s:*)", base, words[1])
	}
	return fmt.Sprintf("Bash(%s:*)", base)
}

// fetchPattern builds "Tool(domain:<hostname>)", degrading to "Tool(*)"
// when the URL does not parse to a hostname.
func fetchPattern(toolName, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return fmt.Sprintf("%s(*)", toolName)
	}
	return fmt.Sprintf("%s(domain:%s)", toolName, u.Hostname())
}
