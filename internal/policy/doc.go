// Package policy implements the permission policy engine: decomposition of
// shell commands into sub-commands, generation of canonical permission
// patterns, hierarchical rule matching, and aggregation of per-sub-command
// decisions into one overall decision.
//
// # Patterns and rules
//
// A proposed tool call is canonicalized into one or more pattern strings of
// the form Tool or Tool(qualifier):
//
//	Bash(npm test:*)
//	Edit(src/app.js)
//	WebFetch(domain:example.com)
//
// Rules are configured pattern strings, possibly wildcarded, grouped into
// allow and deny lists per configuration level. The rule grammar is a small
// closed set of cases (exact, tool-level, tool wildcard, sub-command
// wildcard, mcp__* prefix, ** path glob, *.ext suffix) evaluated in a fixed
// priority order; see matcher.go.
//
// # Resolution
//
// Resolve walks the caller-ordered levels (most specific first), consulting
// deny before allow within each level and stopping at the first match. No
// match means ask: the engine never silently allows an unmatched action.
// Compound shell commands resolve per sub-command and aggregate with deny
// absorbing everything else, then ask, then allow.
//
// Everything in this package is pure and synchronous; it produces decisions
// and never enforces them.
package policy
