package reviewer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner starts the reviewer process. It returns the combined stdout and
// stderr and the exit code. err is non-nil only when the process could not
// be run at all.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin string) (output string, exitCode int, err error)
}

// ExecRunner runs the reviewer with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin string) (string, int, error) {
	// #nosec G204 -- name is the reviewer the operator configured or installed
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return out.String(), 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out.String(), exitErr.ExitCode(), nil
	}
	return out.String(), -1, err
}
