package policy

import "strings"

// SplitCommand splits a raw shell command into its independent sub-commands
// at top-level &&, ||, |, ; and & operators. Operators inside quotes or
// inside (), [] or {} never split. The operators themselves are discarded,
// and empty or whitespace-only segments are dropped, so a command that is
// nothing but an operator yields no tokens.
func SplitCommand(command string) []string {
	var segments []string
	var current strings.Builder

	inQuote := false
	var quoteChar byte
	depth := 0

	flush := func() {
		seg := strings.TrimSpace(current.String())
		if seg != "" {
			segments = append(segments, seg)
		}
		current.Reset()
	}

	for i := 0; i < len(command); i++ {
		ch := command[i]

		// Escaped quote or backslash passes through without touching
		// quote state.
		if ch == '\\' && i+1 < len(command) {
			next := command[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteByte(ch)
				current.WriteByte(next)
				i++
				continue
			}
		}

		if inQuote {
			if ch == quoteChar {
				inQuote = false
			}
			current.WriteByte(ch)
			continue
		}

		switch ch {
		case '"', '\'', '`':
			inQuote = true
			quoteChar = ch
			current.WriteByte(ch)
			continue
		case '(', '[', '{':
			depth++
			current.WriteByte(ch)
			continue
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			current.WriteByte(ch)
			continue
		}

		if depth > 0 {
			current.WriteByte(ch)
			continue
		}

		switch ch {
		case '&':
			flush()
			if i+1 < len(command) && command[i+1] == '&' {
				i++
			}
			continue
		case '|':
			flush()
			if i+1 < len(command) && command[i+1] == '|' {
				i++
			}
			continue
		case ';':
			flush()
			continue
		}

		current.WriteByte(ch)
	}

	flush()
	return segments
}
