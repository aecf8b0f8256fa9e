package policy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matchStrategy is one case of the rule grammar. Strategies are evaluated
// in a fixed priority order; the first one that matches wins. A rule string
// that fits no strategy matches nothing, so malformed rules are inert
// rather than errors.
type matchStrategy struct {
	name string
	eval func(pattern, rule string) bool
}

// strategies, highest priority first.
var strategies = []matchStrategy{
	{"exact", matchExact},
	{"bare-tool", matchBareTool},
	{"tool-authorizes-qualified", matchToolAuthorizesQualified},
	{"tool-wildcard", matchToolWildcard},
	{"subcommand-wildcard", matchSubcommandWildcard},
	{"mcp-wildcard", matchMCPWildcard},
	{"path-wildcard", matchPathWildcard},
	{"extension-wildcard", matchExtensionWildcard},
}

// Matches reports whether the canonical pattern satisfies the configured
// rule. Total over all string pairs; comparisons are case-sensitive and
// byte-for-byte on the original strings.
func Matches(pattern, rule string) bool {
	for _, s := range strategies {
		if s.eval(pattern, rule) {
			return true
		}
	}
	return false
}

// splitQualified splits "Tool(qualifier)" into its parts. ok is false for
// bare tool names and anything that does not end in ")".
func splitQualified(s string) (tool, qualifier string, ok bool) {
	idx := strings.Index(s, "(")
	if idx <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return s[:idx], s[idx+1 : len(s)-1], true
}

// toolName returns the tool-name prefix of a pattern or rule, qualified
// or not.
func toolName(s string) string {
	if idx := strings.Index(s, "("); idx >= 0 {
		return s[:idx]
	}
	return s
}

func matchExact(pattern, rule string) bool {
	return pattern == rule
}

// A bare rule against a bare pattern is plain equality.
func matchBareTool(pattern, rule string) bool {
	if strings.Contains(rule, "(") || strings.Contains(pattern, "(") {
		return false
	}
	return pattern == rule
}

// A tool-level rule ("Read") authorizes every qualified use of that tool
// ("Read(x.txt)").
func matchToolAuthorizesQualified(pattern, rule string) bool {
	if strings.Contains(rule, "(") {
		return false
	}
	tool, _, ok := splitQualified(pattern)
	return ok && tool == rule
}

// "Tool(*)" and "Tool(**)" match any pattern of the same tool.
func matchToolWildcard(pattern, rule string) bool {
	tool, qualifier, ok := splitQualified(rule)
	if !ok || (qualifier != "*" && qualifier != "**") {
		return false
	}
	return toolName(pattern) == tool
}

// A rule ending in ":*)" matches by prefix on everything before the colon:
// "Bash(npm test:*)" matches "Bash(npm test:*)" and any sibling whose
// pre-colon text extends the rule's.
func matchSubcommandWildcard(pattern, rule string) bool {
	if !strings.Contains(rule, ":*)") || !strings.HasSuffix(rule, ":*)") {
		return false
	}
	ruleBase := strings.TrimSuffix(rule, ":*)")

	patternBase := pattern
	if idx := strings.LastIndex(pattern, ":"); idx >= 0 {
		patternBase = pattern[:idx]
	} else {
		patternBase = strings.TrimSuffix(pattern, ")")
	}
	return strings.HasPrefix(patternBase, ruleBase)
}

// The literal rule "mcp__*" matches every MCP-provided tool.
func matchMCPWildcard(pattern, rule string) bool {
	return rule == "mcp__*" && strings.HasPrefix(toolName(pattern), "mcp__")
}

// A qualifier containing "**" is a path glob: "Edit(src/**/*.js)" matches
// "Edit(src/app/main.js)". Only applies when the tool names are equal.
func matchPathWildcard(pattern, rule string) bool {
	ruleTool, ruleQual, ok := splitQualified(rule)
	if !ok || !strings.Contains(ruleQual, "**") {
		return false
	}
	patTool, patQual, ok := splitQualified(pattern)
	if !ok || patTool != ruleTool {
		return false
	}
	matched, err := doublestar.Match(ruleQual, patQual)
	return err == nil && matched
}

// A qualifier of the form "*.ext" matches any qualifier with that suffix.
func matchExtensionWildcard(pattern, rule string) bool {
	_, ruleQual, ok := splitQualified(rule)
	if !ok || !strings.HasPrefix(ruleQual, "*.") || strings.ContainsAny(ruleQual[2:], "*/") {
		return false
	}
	_, patQual, ok := splitQualified(pattern)
	return ok && strings.HasSuffix(patQual, ruleQual[1:])
}
