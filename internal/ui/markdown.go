package ui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const maxReadableWidth = 100

// RenderMarkdown renders reviewer output with glamour. Returns the text
// unchanged when color is off or rendering fails.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}

	wrapWidth := 80
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		wrapWidth = w
	}
	if wrapWidth > maxReadableWidth {
		wrapWidth = maxReadableWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
