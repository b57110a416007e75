// Package install writes, inspects, and removes the reviewgate git hook shims.
package install

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/diff"
	"github.com/aezell/reviewgate/internal/model"
)

// Marker is the line that identifies a hook written by reviewgate. Hooks
// without it are never modified unless forced, and never removed.
const Marker = "# reviewgate hook"

// LogPattern is added to .gitignore so reviewer logs stay out of commits.
const LogPattern = config.DirName + "/*.log"

const backupSuffix = ".backup"

var (
	ErrNotGitRepo  = errors.New("not a git repository")
	ErrForeignHook = errors.New("hook exists and was not installed by reviewgate (use --force to replace it)")
)

// State is what a hook slot currently holds.
type State int

const (
	Missing State = iota
	Installed
	Foreign
)

func (s State) String() string {
	switch s {
	case Installed:
		return "installed"
	case Foreign:
		return "foreign"
	default:
		return "missing"
	}
}

// Status describes one hook slot.
type Status struct {
	Hook  model.HookName
	Path  string
	State State
}

// Result describes what Install or Uninstall did to one hook.
type Result struct {
	Hook   model.HookName
	Path   string
	Action string
}

// Installer manages hooks for one repository.
type Installer struct {
	RepoRoot string
	HooksDir string
	// Command is how the shim invokes reviewgate.
	Command string
}

// New finds the repository containing dir and its hooks directory.
func New(ctx context.Context, dir string) (*Installer, error) {
	root, err := diff.RepoRoot(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotGitRepo, err)
	}
	hooksDir, err := HooksDir(ctx, root)
	if err != nil {
		return nil, err
	}
	return &Installer{RepoRoot: root, HooksDir: hooksDir, Command: "reviewgate"}, nil
}

// HooksDir asks git where hooks live. This honors core.hooksPath and
// resolves to the common dir inside worktrees.
func HooksDir(ctx context.Context, repoRoot string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-path", "hooks")
	cmd.Dir = repoRoot
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotGitRepo, err)
	}
	dir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoRoot, dir)
	}
	return dir, nil
}

// Shim returns the hook script for hook. It execs reviewgate so pre-push
// keeps its stdin, and exits 0 when reviewgate is not installed.
func Shim(hook model.HookName, command string) string {
	if command == "" {
		command = "reviewgate"
	}
	q := shellQuote(command)
	return fmt.Sprintf(`#!/bin/sh
%s (%s)
# Remove with: reviewgate uninstall
# Skip once with: git %s --no-verify
if command -v %s >/dev/null 2>&1; then
  exec %s run %s "$@"
fi
echo "reviewgate: %s not found, skipping AI review" >&2
exit 0
`, Marker, hook, hook.Action(), q, q, hook, command)
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (in *Installer) hookPath(hook model.HookName) string {
	return filepath.Join(in.HooksDir, string(hook))
}

// Install writes shims for hooks. Existing reviewgate shims are rewritten.
// A foreign hook is left alone unless force is set, in which case it is
// moved aside to <hook>.backup first.
func (in *Installer) Install(hooks []model.HookName, force bool) ([]Result, error) {
	if err := os.MkdirAll(in.HooksDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating hooks directory: %w", err)
	}

	var results []Result
	var errs []error
	for _, hook := range hooks {
		path := in.hookPath(hook)
		action := "installed"

		switch state := detect(path); state {
		case Installed:
			action = "updated"
		case Foreign:
			if !force {
				errs = append(errs, fmt.Errorf("%s: %w", hook, ErrForeignHook))
				continue
			}
			if err := os.Rename(path, path+backupSuffix); err != nil {
				errs = append(errs, fmt.Errorf("%s: backing up existing hook: %w", hook, err))
				continue
			}
			action = "replaced (previous hook saved as " + filepath.Base(path+backupSuffix) + ")"
		}

		// #nosec G306 -- git hooks must be executable
		if err := os.WriteFile(path, []byte(Shim(hook, in.Command)), 0o755); err != nil {
			errs = append(errs, fmt.Errorf("%s: writing hook: %w", hook, err))
			continue
		}
		if err := os.Chmod(path, 0o755); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hook, err))
			continue
		}
		results = append(results, Result{Hook: hook, Path: path, Action: action})
	}
	return results, errors.Join(errs...)
}

// Uninstall removes reviewgate shims for every supported hook and restores a
// backup left by a forced install. Foreign hooks are not touched.
func (in *Installer) Uninstall() ([]Result, error) {
	var results []Result
	var errs []error
	for _, hook := range model.AllHooks() {
		path := in.hookPath(hook)
		switch detect(path) {
		case Missing:
			continue
		case Foreign:
			results = append(results, Result{Hook: hook, Path: path, Action: "left alone (not a reviewgate hook)"})
			continue
		}

		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hook, err))
			continue
		}
		action := "removed"
		if _, err := os.Stat(path + backupSuffix); err == nil {
			if err := os.Rename(path+backupSuffix, path); err != nil {
				errs = append(errs, fmt.Errorf("%s: restoring backup: %w", hook, err))
			} else {
				action = "removed (previous hook restored)"
			}
		}
		results = append(results, Result{Hook: hook, Path: path, Action: action})
	}
	return results, errors.Join(errs...)
}

// Status reports every supported hook slot.
func (in *Installer) Status() []Status {
	hooks := model.AllHooks()
	statuses := make([]Status, 0, len(hooks))
	for _, hook := range hooks {
		path := in.hookPath(hook)
		statuses = append(statuses, Status{Hook: hook, Path: path, State: detect(path)})
	}
	return statuses
}

func detect(path string) State {
	// #nosec G304 -- path is inside the repository's hooks directory
	f, err := os.Open(path)
	if err != nil {
		return Missing
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for i := 0; i < 5 && sc.Scan(); i++ {
		if strings.HasPrefix(sc.Text(), Marker) {
			return Installed
		}
	}
	return Foreign
}

// ConfigPath is the repository's default config location.
func (in *Installer) ConfigPath() string {
	return filepath.Join(in.RepoRoot, config.DirName, config.FileName)
}

// WriteDefaultConfig writes the default config unless one exists.
func (in *Installer) WriteDefaultConfig() (bool, error) {
	return config.WriteDefault(in.ConfigPath())
}

// EnsureGitignore appends LogPattern to the repository's .gitignore when it
// is not already listed. Reports whether the file changed.
func (in *Installer) EnsureGitignore() (bool, error) {
	path := filepath.Join(in.RepoRoot, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == LogPattern {
			return false, nil
		}
	}

	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("# reviewgate\n" + LogPattern + "\n")

	// #nosec G306 -- .gitignore is a regular tracked file
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return false, fmt.Errorf("updating .gitignore: %w", err)
	}
	return true, nil
}

// Purge deletes the repository's .reviewgate directory.
func (in *Installer) Purge() error {
	return os.RemoveAll(filepath.Join(in.RepoRoot, config.DirName))
}
