package reviewer

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// DefaultCommand is the reviewer binary searched for when none is configured.
const DefaultCommand = "claude"

// ErrNotFound is returned by Locate when no reviewer executable resolves.
var ErrNotFound = errors.New("reviewer executable not found")

// Locator finds the reviewer executable. The filesystem hooks exist so tests
// can lay out a fake home directory.
type Locator struct {
	HomeDir  func() (string, error)
	LookPath func(string) (string, error)
	Stat     func(string) (os.FileInfo, error)
	ReadDir  func(string) ([]os.DirEntry, error)
}

// DefaultLocator searches the real filesystem and PATH.
func DefaultLocator() Locator {
	return Locator{
		HomeDir:  os.UserHomeDir,
		LookPath: exec.LookPath,
		Stat:     os.Stat,
		ReadDir:  os.ReadDir,
	}
}

// Locate resolves the reviewer. It tries, in order:
//  1. the configured command (a bare name goes through PATH)
//  2. ~/.claude/local/claude
//  3. version-manager bins: volta, the newest nvm node, fnm's default alias, npm-global
//  4. PATH lookup of DefaultCommand
func (l Locator) Locate(configured string) (string, error) {
	if configured != "" {
		if p := l.resolve(configured); p != "" {
			return p, nil
		}
	}

	for _, candidate := range l.knownLocations() {
		if l.executable(candidate) {
			return candidate, nil
		}
	}

	if p, err := l.LookPath(DefaultCommand); err == nil {
		return p, nil
	}
	return "", ErrNotFound
}

func (l Locator) resolve(command string) string {
	if strings.HasPrefix(command, "~/") {
		home, err := l.HomeDir()
		if err != nil {
			return ""
		}
		command = filepath.Join(home, command[2:])
	}
	if !strings.ContainsRune(command, filepath.Separator) {
		p, err := l.LookPath(command)
		if err != nil {
			return ""
		}
		return p
	}
	if l.executable(command) {
		return command
	}
	return ""
}

func (l Locator) knownLocations() []string {
	home, err := l.HomeDir()
	if err != nil || home == "" {
		return nil
	}

	locations := []string{
		filepath.Join(home, ".claude", "local", DefaultCommand),
		filepath.Join(home, ".volta", "bin", DefaultCommand),
	}
	if nvm := l.newestNodeBin(filepath.Join(home, ".nvm", "versions", "node")); nvm != "" {
		locations = append(locations, filepath.Join(nvm, DefaultCommand))
	}
	return append(locations,
		filepath.Join(home, ".local", "share", "fnm", "aliases", "default", "bin", DefaultCommand),
		filepath.Join(home, ".npm-global", "bin", DefaultCommand),
	)
}

// newestNodeBin returns the bin dir of the highest node version installed
// under an nvm versions directory.
func (l Locator) newestNodeBin(versionsDir string) string {
	entries, err := l.ReadDir(versionsDir)
	if err != nil {
		return ""
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() && semver.IsValid(e.Name()) {
			versions = append(versions, e.Name())
		}
	}
	if len(versions) == 0 {
		return ""
	}
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare(versions[i], versions[j]) > 0
	})
	return filepath.Join(versionsDir, versions[0], "bin")
}

func (l Locator) executable(path string) bool {
	info, err := l.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
