// Package ui provides terminal styling and stderr logging for reviewgate output.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
)

const Separator = "──────────────────────────────────────────"

func RenderPass(s string) string   { return PassStyle.Render(s) }
func RenderWarn(s string) string   { return WarnStyle.Render(s) }
func RenderFail(s string) string   { return FailStyle.Render(s) }
func RenderMuted(s string) string  { return MutedStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }
func RenderHeader(s string) string { return HeaderStyle.Render(s) }

// RenderSeparator renders the separator line in muted color.
func RenderSeparator() string {
	return MutedStyle.Render(Separator)
}
