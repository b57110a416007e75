package diff

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// emptyTree is git's well-known hash of the empty tree, used as the base for
// root commits.
const emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Range selects what a diff covers: the staged index, or From..To.
// With MergeBase set the range is From...To.
type Range struct {
	Staged    bool
	From      string
	To        string
	MergeBase bool
}

// Staged is the range for pre-commit review.
func Staged() Range {
	return Range{Staged: true}
}

func (r Range) String() string {
	switch {
	case r.Staged:
		return "staged changes"
	case r.MergeBase:
		return r.From + "..." + r.To
	default:
		return r.From + ".." + r.To
	}
}

func (r Range) args() []string {
	switch {
	case r.Staged:
		return []string{"--cached"}
	case r.MergeBase:
		return []string{r.From + "..." + r.To}
	default:
		return []string{r.From, r.To}
	}
}

type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Git answers the two questions the review gate asks of version control:
// which files changed, and what the diff text is.
type Git struct {
	Dir string
	run runFunc
}

// NewGit returns a Git rooted at dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir, run: runGit}
}

// ChangedFiles lists added, copied, modified, and renamed paths across the
// ranges in git's order, without duplicates.
func (g *Git) ChangedFiles(ctx context.Context, ranges ...Range) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, r := range ranges {
		args := append([]string{"diff", "--name-only", "-z", "--diff-filter=ACMR"}, r.args()...)
		out, err := g.run(ctx, g.Dir, args...)
		if err != nil {
			return nil, fmt.Errorf("listing changes in %s: %w", r, err)
		}
		for _, name := range strings.Split(out, "\x00") {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			files = append(files, name)
		}
	}
	return files, nil
}

// Diff returns the unified diff for paths across the ranges.
func (g *Git) Diff(ctx context.Context, paths []string, ranges ...Range) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, r := range ranges {
		args := append([]string{"diff", "--no-color", "--no-ext-diff"}, r.args()...)
		args = append(args, "--")
		args = append(args, paths...)
		out, err := g.run(ctx, g.Dir, args...)
		if err != nil {
			return "", fmt.Errorf("diffing %s: %w", r, err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// PushRanges turns the pre-push hook's stdin into ranges. Each line reads
// "<local ref> <local sha> <remote ref> <remote sha>". With no lines (a manual
// run) the range is the upstream of HEAD.
func (g *Git) PushRanges(ctx context.Context, remote string, r io.Reader) ([]Range, error) {
	var ranges []Range
	sawLine := false

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 4 {
			continue
		}
		sawLine = true
		localSHA, remoteSHA := fields[1], fields[3]

		if isZeroSHA(localSHA) {
			// branch deletion, nothing to review
			continue
		}
		if !isZeroSHA(remoteSHA) && g.verify(ctx, remoteSHA) {
			ranges = append(ranges, Range{From: remoteSHA, To: localSHA})
			continue
		}
		ranges = append(ranges, g.newBranchRange(ctx, remote, localSHA))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading push refs: %w", err)
	}

	if !sawLine {
		if g.verify(ctx, "@{upstream}") {
			return []Range{{From: "@{upstream}", To: "HEAD"}}, nil
		}
		return []Range{g.newBranchRange(ctx, remote, "HEAD")}, nil
	}
	return ranges, nil
}

func (g *Git) newBranchRange(ctx context.Context, remote, head string) Range {
	if remote != "" && g.verify(ctx, remote+"/HEAD") {
		return Range{From: remote + "/HEAD", To: head, MergeBase: true}
	}
	if g.verify(ctx, head+"~1") {
		return Range{From: head + "~1", To: head}
	}
	return Range{From: emptyTree, To: head}
}

func (g *Git) verify(ctx context.Context, rev string) bool {
	_, err := g.run(ctx, g.Dir, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	return err == nil
}

func isZeroSHA(sha string) bool {
	return strings.Trim(sha, "0") == ""
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}
