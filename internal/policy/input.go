package policy

// ToolInput is the closed set of tool input shapes the engine understands.
// Raw hook payloads are decoded into one of these exactly once, at the
// pattern-generation boundary; nothing downstream inspects untyped maps.
type ToolInput interface {
	toolInput()
}

// BashInput is the input of a shell-command tool.
type BashInput struct {
	Command string
}

// FetchInput is the input of a URL-fetching tool.
type FetchInput struct {
	URL string
}

// FileInput is the input of a file-path tool (edit, write, read, multi-edit).
type FileInput struct {
	FilePath  string
	OldString string
	NewString string
}

// GenericInput is the input of any other tool.
type GenericInput struct {
	Fields map[string]any
}

func (BashInput) toolInput()    {}
func (FetchInput) toolInput()   {}
func (FileInput) toolInput()    {}
func (GenericInput) toolInput() {}

// fileTools are the tools whose input carries a file path.
var fileTools = map[string]bool{
	"Edit":         true,
	"Write":        true,
	"Read":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// fetchTools are the tools whose input carries a URL.
var fetchTools = map[string]bool{
	"WebFetch": true,
}

// DecodeInput converts a raw tool_input object into the matching typed shape
// for the given tool. Missing or wrong-typed fields are tolerated; decoding
// never fails, it only degrades to emptier shapes.
func DecodeInput(toolName string, raw map[string]any) ToolInput {
	str := func(key string) string {
		if raw == nil {
			return ""
		}
		if v, ok := raw[key].(string); ok {
			return v
		}
		return ""
	}

	switch {
	case toolName == "Bash":
		return BashInput{Command: str("command")}
	case fetchTools[toolName]:
		return FetchInput{URL: str("url")}
	case fileTools[toolName]:
		return FileInput{
			FilePath:  str("file_path"),
			OldString: str("old_string"),
			NewString: str("new_string"),
		}
	default:
		return GenericInput{Fields: raw}
	}
}
