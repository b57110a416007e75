package reviewer

import (
	"encoding/json"
	"strings"
)

// Kind classifies a reviewer run.
type Kind int

const (
	KindSuccess Kind = iota
	KindUnavailable
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindUnavailable:
		return "unavailable"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one reviewer invocation. Output is kept verbatim.
// Reason explains an unavailable reviewer.
type Outcome struct {
	Kind     Kind
	ExitCode int
	Output   string
	Reason   string
}

func Success(output string) Outcome {
	return Outcome{Kind: KindSuccess, Output: output}
}

func Unavailable(reason string) Outcome {
	return Outcome{Kind: KindUnavailable, Reason: reason}
}

func Failed(exitCode int, output string) Outcome {
	return Outcome{Kind: KindError, ExitCode: exitCode, Output: output}
}

// wrapper is the envelope the claude CLI prints with --output-format json.
type wrapper struct {
	IsError bool `json:"is_error"`
}

// hasErrorMarker reports whether output looks like a reviewer failure even
// though the process exited 0.
func hasErrorMarker(output string) bool {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "Error:") || strings.HasPrefix(trimmed, "API Error") {
		return true
	}
	if strings.HasPrefix(trimmed, "{") {
		var w wrapper
		if err := json.Unmarshal([]byte(trimmed), &w); err == nil && w.IsError {
			return true
		}
	}
	return false
}

// classify maps an exit status and captured output to an Outcome.
func classify(exitCode int, output string) Outcome {
	if exitCode != 0 || hasErrorMarker(output) {
		return Failed(exitCode, output)
	}
	return Success(output)
}
