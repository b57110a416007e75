// Package reviewer builds the review prompt, finds the reviewer CLI, and
// classifies what it returned.
package reviewer

import (
	"strings"

	"github.com/aezell/reviewgate/internal/config"
)

// Request is the text sent to the reviewer. It is built once and not modified.
type Request struct {
	Diff   string
	Prompt string
}

// BuildRequest interpolates diffText into template at every {DIFF}. A template
// without the placeholder gets the diff appended after a blank line.
func BuildRequest(template, diffText string) Request {
	if template == "" {
		template = config.DefaultPrompt
	}

	var prompt string
	if strings.Contains(template, config.DiffPlaceholder) {
		prompt = strings.ReplaceAll(template, config.DiffPlaceholder, diffText)
	} else {
		prompt = strings.TrimRight(template, "\n") + "\n\n" + diffText
	}
	return Request{Diff: diffText, Prompt: prompt}
}
