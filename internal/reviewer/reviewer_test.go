package reviewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aezell/reviewgate/internal/config"
)

type fakeRunner struct {
	output   string
	exitCode int
	err      error

	gotName  string
	gotArgs  []string
	gotStdin string
	calls    int
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, stdin string) (string, int, error) {
	f.calls++
	f.gotName, f.gotArgs, f.gotStdin = name, args, stdin
	return f.output, f.exitCode, f.err
}

// fakeHome lays out executables under a temp home dir and returns a Locator
// rooted there. PATH lookups resolve only the names in path.
func fakeHome(t *testing.T, executables []string, path map[string]string) (Locator, string) {
	t.Helper()
	home := t.TempDir()
	for _, rel := range executables {
		p := filepath.Join(home, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))
	}
	return Locator{
		HomeDir: func() (string, error) { return home, nil },
		LookPath: func(name string) (string, error) {
			if p, ok := path[name]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		},
		Stat:    os.Stat,
		ReadDir: os.ReadDir,
	}, home
}

func TestBuildRequestReplacesPlaceholder(t *testing.T) {
	req := BuildRequest("Review:\n{DIFF}\nThanks {DIFF}", "+x")
	assert.Equal(t, "Review:\n+x\nThanks +x", req.Prompt)
	assert.Equal(t, "+x", req.Diff)
}

func TestBuildRequestAppendsWithoutPlaceholder(t *testing.T) {
	req := BuildRequest("Review carefully.\n", "+x")
	assert.Equal(t, "Review carefully.\n\n+x", req.Prompt)
}

func TestBuildRequestEmptyTemplateUsesDefault(t *testing.T) {
	req := BuildRequest("", "+x")
	assert.Contains(t, req.Prompt, "+x")
	assert.NotContains(t, req.Prompt, config.DiffPlaceholder)
}

func TestLocatePriority(t *testing.T) {
	all := []string{
		".claude/local/claude",
		".volta/bin/claude",
		".npm-global/bin/claude",
	}

	loc, home := fakeHome(t, all, map[string]string{"claude": "/usr/bin/claude"})
	got, err := loc.Locate("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude/local/claude"), got)

	loc, home = fakeHome(t, all[1:], map[string]string{"claude": "/usr/bin/claude"})
	got, err = loc.Locate("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".volta/bin/claude"), got)

	loc, _ = fakeHome(t, nil, map[string]string{"claude": "/usr/bin/claude"})
	got, err = loc.Locate("")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/claude", got)
}

func TestLocateNewestNVM(t *testing.T) {
	loc, home := fakeHome(t, []string{
		".nvm/versions/node/v9.11.2/bin/claude",
		".nvm/versions/node/v20.11.0/bin/claude",
		".nvm/versions/node/v18.19.1/bin/claude",
	}, nil)

	got, err := loc.Locate("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".nvm/versions/node/v20.11.0/bin/claude"), got)
}

func TestLocateConfiguredFirst(t *testing.T) {
	loc, home := fakeHome(t, []string{".claude/local/claude", "tools/reviewer"}, map[string]string{
		"my-reviewer": "/opt/bin/my-reviewer",
	})

	got, err := loc.Locate(filepath.Join(home, "tools/reviewer"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tools/reviewer"), got)

	got, err = loc.Locate("~/tools/reviewer")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tools/reviewer"), got)

	got, err = loc.Locate("my-reviewer")
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/my-reviewer", got)
}

func TestLocateConfiguredMissingFallsBack(t *testing.T) {
	loc, home := fakeHome(t, []string{".claude/local/claude"}, nil)
	got, err := loc.Locate("/nonexistent/claude")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude/local/claude"), got)
}

func TestLocateSkipsNonExecutable(t *testing.T) {
	loc, home := fakeHome(t, nil, nil)
	p := filepath.Join(home, ".claude/local/claude")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("not a program"), 0o644))

	_, err := loc.Locate("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvokeUnavailableDoesNotRun(t *testing.T) {
	loc, _ := fakeHome(t, nil, nil)
	runner := &fakeRunner{}
	inv := &Invoker{Locator: loc, Runner: runner}

	out := inv.Invoke(context.Background(), "+x", config.Defaults())
	assert.Equal(t, KindUnavailable, out.Kind)
	assert.NotEmpty(t, out.Reason)
	assert.Zero(t, runner.calls)
}

func TestInvokeSuccessSendsPromptOnStdin(t *testing.T) {
	loc, _ := fakeHome(t, nil, map[string]string{"claude": "/usr/bin/claude"})
	runner := &fakeRunner{output: "Looks good.\n"}
	inv := &Invoker{Locator: loc, Runner: runner}

	cfg := config.Defaults()
	cfg.PromptTemplate = "Check this: {DIFF}"
	out := inv.Invoke(context.Background(), "+x", cfg)

	assert.Equal(t, KindSuccess, out.Kind)
	assert.Equal(t, "Looks good.\n", out.Output)
	assert.Equal(t, "/usr/bin/claude", runner.gotName)
	assert.Equal(t, []string{"-p"}, runner.gotArgs)
	assert.Equal(t, "Check this: +x", runner.gotStdin)
}

func TestInvokeNonzeroExitIsError(t *testing.T) {
	loc, _ := fakeHome(t, nil, map[string]string{"claude": "/usr/bin/claude"})
	inv := &Invoker{Locator: loc, Runner: &fakeRunner{output: "rate limited", exitCode: 2}}

	out := inv.Invoke(context.Background(), "+x", config.Defaults())
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, 2, out.ExitCode)
	assert.Equal(t, "rate limited", out.Output)
}

func TestInvokeStartNotFoundIsUnavailable(t *testing.T) {
	loc, _ := fakeHome(t, nil, map[string]string{"claude": "/usr/bin/claude"})
	err := fmt.Errorf("exec: %w", exec.ErrNotFound)
	inv := &Invoker{Locator: loc, Runner: &fakeRunner{exitCode: -1, err: err}}

	out := inv.Invoke(context.Background(), "+x", config.Defaults())
	assert.Equal(t, KindUnavailable, out.Kind)
}

func TestInvokeOtherStartFailureIsError(t *testing.T) {
	loc, _ := fakeHome(t, nil, map[string]string{"claude": "/usr/bin/claude"})
	inv := &Invoker{Locator: loc, Runner: &fakeRunner{exitCode: -1, err: errors.New("permission denied")}}

	out := inv.Invoke(context.Background(), "+x", config.Defaults())
	assert.Equal(t, KindError, out.Kind)
	assert.Contains(t, out.Output, "permission denied")
}

func TestErrorMarkers(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"Error: invalid API key", true},
		{"  API Error: 529 overloaded", true},
		{`{"type":"result","is_error":true,"result":"boom"}`, true},
		{`{"type":"result","is_error":false,"result":"fine"}`, false},
		{"No issues found. Error: handling looks fine.", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasErrorMarker(tt.output), "%q", tt.output)
	}
}

func TestClassifyMarkerWithZeroExit(t *testing.T) {
	out := classify(0, "API Error: overloaded")
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, 0, out.ExitCode)
}

func TestClassifyEmptyOutputIsSuccess(t *testing.T) {
	assert.Equal(t, KindSuccess, classify(0, "").Kind)
}
