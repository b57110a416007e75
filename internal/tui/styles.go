package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed     = lipgloss.Color("#ff5555")
	colorGreen   = lipgloss.Color("#50fa7b")
	colorYellow  = lipgloss.Color("#f1fa8c")
	colorBlue    = lipgloss.Color("#8be9fd")
	colorPurple  = lipgloss.Color("#bd93f9")
	colorDim     = lipgloss.Color("#6272a4")
	colorBgLight = lipgloss.Color("#343746")
	colorFg      = lipgloss.Color("#f8f8f2")
	colorOrange  = lipgloss.Color("#ffb86c")
	colorBorder  = lipgloss.Color("#44475a")
)

var (
	fileListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fileItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	fileItemNewStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	fileItemDeletedStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	paneErrorStyle = paneStyle.
			BorderForeground(colorRed)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	addedLineStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	deletedLineStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorBgLight).
			Bold(true)

	countdownStyle = lipgloss.NewStyle().
			Foreground(colorOrange).
			Background(colorBgLight).
			Bold(true)

	countdownUrgentStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorBgLight).
				Bold(true)

	// Help
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
