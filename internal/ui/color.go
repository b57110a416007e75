package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var colorDisabled bool

// DisableColor turns off styling for the rest of the process.
func DisableColor() {
	colorDisabled = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ShouldUseColor reports whether stderr output should be styled. It is false
// after DisableColor, when NO_COLOR is set, or when stderr cannot show color.
func ShouldUseColor() bool {
	if colorDisabled {
		return false
	}
	out := termenv.NewOutput(os.Stderr)
	if out.EnvNoColor() {
		return false
	}
	return out.EnvColorProfile() != termenv.Ascii
}

// SetupColor matches lipgloss to what stderr supports. Hooks write everything
// to stderr, so stdout's profile is the wrong one to trust.
func SetupColor(noColor bool) {
	if noColor || !ShouldUseColor() {
		DisableColor()
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())
}
