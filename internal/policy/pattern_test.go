package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePatternsBash(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		expected []string
	}{
		{
			name:     "simple command",
			command:  "ls -la",
			expected: []string{"Bash(ls:*)"},
		},
		{
			name:     "git keeps subcommand",
			command:  "git status",
			expected: []string{"Bash(git status:*)"},
		},
		{
			name:     "npm keeps subcommand",
			command:  "npm test -- --watch",
			expected: []string{"Bash(npm test:*)"},
		},
		{
			name:     "git without subcommand",
			command:  "git",
			expected: []string{"Bash(git:*)"},
		},
		{
			name:     "compound yields one pattern per sub-command",
			command:  "git status && rm -rf /tmp/x",
			expected: []string{"Bash(git status:*)", "Bash(rm:*)"},
		},
		{
			name:     "pipe chain preserves order",
			command:  "cat log | grep err | wc -l",
			expected: []string{"Bash(cat:*)", "Bash(grep:*)", "Bash(wc:*)"},
		},
		{
			name:     "empty command degrades to bare tool",
			command:  "",
			expected: []string{"Bash"},
		},
		{
			name:     "operator-only command degrades to bare tool",
			command:  ";;",
			expected: []string{"Bash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePatterns("Bash", BashInput{Command: tt.command})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGeneratePatternsWebFetch(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "valid url",
			url:      "https://api.example.com/x",
			expected: "WebFetch(domain:api.example.com)",
		},
		{
			name:     "url with port",
			url:      "http://localhost:8080/health",
			expected: "WebFetch(domain:localhost)",
		},
		{
			name:     "invalid url degrades to wildcard",
			url:      "://not-a-url",
			expected: "WebFetch(*)",
		},
		{
			name:     "missing url degrades to wildcard",
			url:      "",
			expected: "WebFetch(*)",
		},
		{
			name:     "relative url has no host",
			url:      "/just/a/path",
			expected: "WebFetch(*)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePatterns("WebFetch", FetchInput{URL: tt.url})
			assert.Equal(t, []string{tt.expected}, got)
		})
	}
}

func TestGeneratePatternsFileTools(t *testing.T) {
	got := GeneratePatterns("Edit", FileInput{FilePath: "src/app.js"})
	assert.Equal(t, []string{"Edit(src/app.js)"}, got)

	// Path is taken verbatim, never normalized.
	got = GeneratePatterns("Write", FileInput{FilePath: "./a/../b.txt"})
	assert.Equal(t, []string{"Write(./a/../b.txt)"}, got)

	// Missing path degrades to the bare tool name.
	got = GeneratePatterns("Read", FileInput{})
	assert.Equal(t, []string{"Read"}, got)
}

func TestGeneratePatternsGeneric(t *testing.T) {
	got := GeneratePatterns("Glob", GenericInput{Fields: map[string]any{"pattern": "**/*.go"}})
	assert.Equal(t, []string{"Glob"}, got)

	got = GeneratePatterns("mcp__github__create_issue", GenericInput{})
	assert.Equal(t, []string{"mcp__github__create_issue"}, got)
}

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		raw      map[string]any
		expected ToolInput
	}{
		{
			name:     "bash",
			tool:     "Bash",
			raw:      map[string]any{"command": "ls"},
			expected: BashInput{Command: "ls"},
		},
		{
			name:     "bash with wrong type degrades",
			tool:     "Bash",
			raw:      map[string]any{"command": 42},
			expected: BashInput{},
		},
		{
			name:     "webfetch",
			tool:     "WebFetch",
			raw:      map[string]any{"url": "https://x.dev"},
			expected: FetchInput{URL: "https://x.dev"},
		},
		{
			name:     "edit",
			tool:     "Edit",
			raw:      map[string]any{"file_path": "a.go", "old_string": "x", "new_string": "y"},
			expected: FileInput{FilePath: "a.go", OldString: "x", NewString: "y"},
		},
		{
			name:     "nil input never fails",
			tool:     "Edit",
			raw:      nil,
			expected: FileInput{},
		},
		{
			name:     "unknown tool",
			tool:     "TodoWrite",
			raw:      map[string]any{"todos": []any{}},
			expected: GenericInput{Fields: map[string]any{"todos": []any{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeInput(tt.tool, tt.raw))
		})
	}
}
