package tui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aezell/reviewgate/internal/decision"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/gate"
	"github.com/aezell/reviewgate/internal/model"
	"github.com/aezell/reviewgate/internal/reviewer"
)

const testDiff = `diff --git a/main.go b/main.go
index abc1234..def5678 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@
 package main

 func main() {
-	println("hello")
+	println("hello world")
+	println("goodbye")
 }
diff --git a/util.go b/util.go
new file mode 100644
--- /dev/null
+++ b/util.go
@@ -0,0 +1,5 @@
+package main
+
+func add(a, b int) int {
+	return a + b
+}
`

func setupModel(t *testing.T, outcome reviewer.Outcome, timeout time.Duration) Model {
	t.Helper()
	ds, err := diff.Parse(testDiff)
	require.NoError(t, err)
	m := New(Review{
		Hook:     model.HookPreCommit,
		Files:    ds.Files,
		Diff:     testDiff,
		Outcome:  outcome,
		Question: "Proceed with commit?",
		Timeout:  timeout,
	})
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	newM, cmd := m.Update(msg)
	return newM.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelDefaultsToAbort(t *testing.T) {
	m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
	assert.Equal(t, decision.Abort, m.Decision())
	assert.True(t, m.ready, "viewport should be ready after resize")
}

func TestProceedKey(t *testing.T) {
	for _, r := range []rune{'y', 'Y'} {
		m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
		m, cmd := press(m, runeKey(r))
		assert.Equal(t, decision.Proceed, m.Decision(), string(r))
		assert.NotNil(t, cmd, "%c should quit", r)
	}
}

func TestAbortKeys(t *testing.T) {
	msgs := []tea.KeyMsg{
		runeKey('n'),
		runeKey('q'),
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, msg := range msgs {
		m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
		m, cmd := press(m, msg)
		assert.True(t, m.done, msg.String())
		assert.Equal(t, decision.Abort, m.Decision(), msg.String())
		assert.NotNil(t, cmd, "%s should quit", msg)
	}
}

func TestUnboundKeyAborts(t *testing.T) {
	for _, r := range []rune{'x', '1', 'z'} {
		m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
		m, cmd := press(m, runeKey(r))
		assert.True(t, m.done, "%c should end the prompt", r)
		assert.Equal(t, decision.Abort, m.Decision(), string(r))
		assert.NotNil(t, cmd, "%c should quit", r)
	}
}

func TestScrollKeysKeepPromptOpen(t *testing.T) {
	msgs := []tea.KeyMsg{
		runeKey('j'),
		runeKey('k'),
		runeKey('f'),
		runeKey('b'),
		{Type: tea.KeyDown},
		{Type: tea.KeyPgDown},
	}
	for _, msg := range msgs {
		m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
		m, _ = press(m, msg)
		assert.False(t, m.done, "%s should only scroll", msg)
	}
}

func TestCountdownAborts(t *testing.T) {
	m := setupModel(t, reviewer.Success("LGTM"), 3*time.Second)

	for i := 0; i < 2; i++ {
		newM, cmd := m.Update(tickMsg{})
		m = newM.(Model)
		require.False(t, m.done, "finished early after %d ticks", i+1)
		require.NotNil(t, cmd, "expected next tick")
	}

	newM, cmd := m.Update(tickMsg{})
	m = newM.(Model)
	assert.True(t, m.done)
	assert.Equal(t, decision.Abort, m.Decision())
	assert.NotNil(t, cmd)
}

func TestToggleDiff(t *testing.T) {
	m := setupModel(t, reviewer.Success("Consider naming."), 30*time.Second)
	assert.Contains(t, m.View(), "Consider naming.")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.showDiff)
	assert.Contains(t, m.View(), `println("goodbye")`)
	assert.False(t, m.done, "toggling must not decide")
}

func TestErrorOutcomeShowsExitCode(t *testing.T) {
	m := setupModel(t, reviewer.Failed(2, "API Error: overloaded"), 30*time.Second)
	view := m.View()
	assert.Contains(t, view, "exit 2")
	assert.Contains(t, view, "API Error: overloaded")
}

func TestViewShowsFilesAndCountdown(t *testing.T) {
	m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
	view := m.View()
	for _, want := range []string{"main.go", "util.go", "+2 -1", "30s", "Proceed with commit?"} {
		assert.Contains(t, view, want)
	}
}

func TestHelpToggle(t *testing.T) {
	m := setupModel(t, reviewer.Success("LGTM"), 30*time.Second)
	m, _ = press(m, runeKey('?'))
	assert.Contains(t, m.View(), "keyboard shortcuts")
	m, _ = press(m, runeKey('?'))
	assert.False(t, m.showHelp)
}

func TestSessionNonInteractiveAborts(t *testing.T) {
	var out bytes.Buffer
	s := &Session{Console: &gate.Console{Out: &out}}
	s.Start(gate.Review{Hook: model.HookPreCommit, Files: []string{"main.go"}, Diff: testDiff})
	s.ShowOutcome(reviewer.Success("LGTM"))

	d := s.Ask(context.Background(), "Proceed with commit?", 30*time.Second, false)
	assert.Equal(t, decision.Abort, d)
	assert.Contains(t, out.String(), "LGTM", "review should print when the screen cannot be shown")
}
