// Package tui implements the full-screen review and decision screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aezell/reviewgate/internal/decision"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
)

// Review is everything the screen shows.
type Review struct {
	Hook     model.HookName
	Files    []*diff.File
	Diff     string
	Outcome  reviewer.Outcome
	Question string
	Timeout  time.Duration
}

type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

// Model is the Bubble Tea model for the review screen. It ends with a
// Decision; closing it any way other than y aborts.
type Model struct {
	review Review

	width  int
	height int

	viewport viewport.Model
	ready    bool

	showDiff bool
	showHelp bool

	remaining time.Duration
	decision  decision.Decision
	done      bool
}

// New creates the model. The countdown starts at r.Timeout.
func New(r Review) Model {
	return Model{review: r, remaining: r.Timeout}
}

// Decision is the operator's answer, Abort until they say otherwise.
func (m Model) Decision() decision.Decision {
	return m.decision
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.paneSize()
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}
		m.refreshContent()
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.remaining -= time.Second
		if m.remaining <= 0 {
			m.remaining = 0
			return m.finish(decision.Abort)
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Proceed):
			return m.finish(decision.Proceed)

		case key.Matches(msg, keys.Abort):
			return m.finish(decision.Abort)

		case key.Matches(msg, keys.Toggle):
			m.showDiff = !m.showDiff
			m.refreshContent()
			m.viewport.GotoTop()
			return m, nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up, keys.Down, keys.PageUp, keys.PageDown):
			// scrolls the viewport below

		case msg.Type == tea.KeyRunes:
			// Any other character is a no, as at the text prompt.
			return m.finish(decision.Abort)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) finish(d decision.Decision) (tea.Model, tea.Cmd) {
	m.decision = d
	m.done = true
	return m, tea.Quit
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	if m.showDiff {
		m.viewport.SetContent(renderDiff(m.review.Diff, m.viewport.Width))
		return
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(m.reviewText()))
}

func (m Model) reviewText() string {
	out := m.review.Outcome
	text := strings.TrimRight(out.Output, "\n")
	if out.Kind == reviewer.KindError {
		header := deletedLineStyle.Render(fmt.Sprintf("Reviewer failed (exit %d)", out.ExitCode))
		return header + "\n\n" + text
	}
	if text == "" {
		return "The reviewer had nothing to say."
	}
	return text
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, f := range m.review.Files {
		if n := len(f.Name()); n > maxLen {
			maxLen = n
		}
	}
	w := maxLen + 12
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

// paneSize is the viewport's inner size: the right pane minus border,
// padding, and title, above the status bar.
func (m Model) paneSize() (int, int) {
	w := m.width - m.fileListWidth() - 1 - 4
	h := m.height - 1 - 2 - 1
	if w < 10 {
		w = 10
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.fileListWidth()
	height := m.height - 1

	fileList := m.renderFileList(listWidth, height)
	pane := m.renderPane(m.width-listWidth-1, height)
	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", pane)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder
	for i, f := range m.review.Files {
		name := f.Name()
		maxName := width - 12
		if maxName > 0 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}
		line := fmt.Sprintf("%s %-*s +%d -%d", f.Status(), maxName, name, f.AddedLines, f.DeletedLines)

		style := fileItemStyle
		switch {
		case f.IsNew:
			style = fileItemNewStyle
		case f.IsDeleted:
			style = fileItemDeletedStyle
		}
		b.WriteString(style.Render(line))
		if i < len(m.review.Files)-1 {
			b.WriteByte('\n')
		}
	}
	return fileListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderPane(width, height int) string {
	title := "AI review"
	if m.showDiff {
		title = "Diff"
	}
	style := paneStyle
	if m.review.Outcome.Kind == reviewer.KindError {
		style = paneErrorStyle
	}
	body := paneTitleStyle.Render(title) + "\n" + m.viewport.View()
	return style.Width(width).Height(height - 2).Render(body)
}

func (m Model) renderStatusBar() string {
	left := " " + m.review.Question + "  " +
		statusKeyStyle.Render("y") + " proceed  " +
		statusKeyStyle.Render("n") + " abort  " +
		statusKeyStyle.Render("tab") + " review/diff"

	secs := int(m.remaining / time.Second)
	cd := countdownStyle
	if secs <= 5 {
		cd = countdownUrgentStyle
	}
	right := cd.Render(fmt.Sprintf("%ds", secs)) + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("reviewgate: keyboard shortcuts"))
	b.WriteString("\n\n")

	for _, binding := range []key.Binding{
		keys.Up, keys.Down, keys.PageUp, keys.PageDown,
		keys.Toggle, keys.Proceed, keys.Abort, keys.Help,
	} {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n", helpKeyStyle.Width(12).Render(h.Key), h.Desc))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help. The countdown keeps running."))
	return b.String()
}

// Run shows the screen on in/out until the operator answers or time runs out.
func Run(ctx context.Context, in io.Reader, out io.Writer, r Review) (decision.Decision, error) {
	p := tea.NewProgram(New(r),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return decision.Abort, err
	}
	m, ok := final.(Model)
	if !ok {
		return decision.Abort, nil
	}
	return m.Decision(), nil
}
