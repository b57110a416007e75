package tui

import (
	"strings"
)

// renderDiff colors a unified diff line by line for the diff pane.
func renderDiff(raw string, width int) string {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = styleDiffLine(truncate(line, width))
	}
	return strings.Join(out, "\n")
}

func styleDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "diff --git"),
		strings.HasPrefix(line, "+++"),
		strings.HasPrefix(line, "---"):
		return fileHeaderStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return hunkHeaderStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return addedLineStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return deletedLineStyle.Render(line)
	default:
		return line
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
