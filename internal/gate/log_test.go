package gate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/model"
)

func TestFileLogAppends(t *testing.T) {
	root := t.TempDir()
	l := NewFileLog(root)
	assert.Equal(t, filepath.Join(root, config.DirName, LogName), l.Path)

	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	require.NoError(t, l.Record(Entry{
		Time:     at,
		Hook:     model.HookPreCommit,
		Files:    []string{"src/a.ts"},
		Summary:  "1 file(s) changed, +1 -1",
		Outcome:  "success",
		Decision: "abort",
		Output:   "Consider a constant.\n",
	}))
	require.NoError(t, l.Record(Entry{Time: at, Hook: model.HookPrePush, Outcome: "unavailable", Decision: "proceed"}))

	data, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	want := strings.Join([]string{
		"[2026-10-18 09:30:00] hook=pre-commit outcome=success exit=0 decision=abort",
		"1 file(s) changed, +1 -1",
		"  src/a.ts",
		"Consider a constant.",
		"",
		"[2026-10-18 09:30:00] hook=pre-push outcome=unavailable exit=0 decision=proceed",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestFileLogUnwritableDirectory(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, config.DirName)
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	assert.Error(t, NewFileLog(root).Record(Entry{Hook: model.HookPreCommit}))
}
