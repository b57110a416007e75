package diff

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit answers git invocations from a table keyed by the joined args.
// Missing keys fail, which is how rev-parse --verify reports unknown revs.
type fakeGit struct {
	out   map[string]string
	calls []string
}

func (f *fakeGit) run(_ context.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if out, ok := f.out[key]; ok {
		return out, nil
	}
	return "", errors.New("exit status 1")
}

func newFakeGit(out map[string]string) (*Git, *fakeGit) {
	f := &fakeGit{out: out}
	return &Git{Dir: "/repo", run: f.run}, f
}

const (
	localSHA  = "1111111111111111111111111111111111111111"
	remoteSHA = "2222222222222222222222222222222222222222"
	zeroSHA   = "0000000000000000000000000000000000000000"
)

func verifyKey(rev string) string {
	return "rev-parse --verify --quiet " + rev + "^{commit}"
}

func pushLine(localRef, local, remoteRef, remote string) string {
	return localRef + " " + local + " " + remoteRef + " " + remote + "\n"
}

func TestChangedFilesStaged(t *testing.T) {
	g, f := newFakeGit(map[string]string{
		"diff --name-only -z --diff-filter=ACMR --cached": "src/a.ts\x00dist/b.ts\x00README.md\x00",
	})

	files, err := g.ChangedFiles(context.Background(), Staged())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "dist/b.ts", "README.md"}, files)
	assert.Len(t, f.calls, 1)
}

func TestChangedFilesKeepsSurroundingSpaces(t *testing.T) {
	g, _ := newFakeGit(map[string]string{
		"diff --name-only -z --diff-filter=ACMR --cached": " notes.md\x00draft .txt \x00",
	})

	files, err := g.ChangedFiles(context.Background(), Staged())
	require.NoError(t, err)
	assert.Equal(t, []string{" notes.md", "draft .txt "}, files)
}

func TestChangedFilesDeduplicatesAcrossRanges(t *testing.T) {
	g, _ := newFakeGit(map[string]string{
		"diff --name-only -z --diff-filter=ACMR a b": "x.go\x00y.go\x00",
		"diff --name-only -z --diff-filter=ACMR c d": "y.go\x00z.go\x00",
	})

	files, err := g.ChangedFiles(context.Background(), Range{From: "a", To: "b"}, Range{From: "c", To: "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.go", "y.go", "z.go"}, files)
}

func TestChangedFilesGitFailure(t *testing.T) {
	g, _ := newFakeGit(nil)
	_, err := g.ChangedFiles(context.Background(), Staged())
	assert.Error(t, err)
}

func TestDiffLimitsToPaths(t *testing.T) {
	g, f := newFakeGit(map[string]string{
		"diff --no-color --no-ext-diff --cached -- src/a.ts": "diff --git a/src/a.ts b/src/a.ts\n",
	})

	out, err := g.Diff(context.Background(), []string{"src/a.ts"}, Staged())
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/src/a.ts b/src/a.ts\n", out)
	assert.Len(t, f.calls, 1)
}

func TestDiffNoPathsSkipsGit(t *testing.T) {
	g, f := newFakeGit(nil)
	out, err := g.Diff(context.Background(), nil, Staged())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, f.calls)
}

func TestPushRangesExistingBranch(t *testing.T) {
	g, _ := newFakeGit(map[string]string{verifyKey(remoteSHA): ""})
	stdin := pushLine("refs/heads/main", localSHA, "refs/heads/main", remoteSHA)

	ranges, err := g.PushRanges(context.Background(), "origin", strings.NewReader(stdin))
	require.NoError(t, err)
	assert.Equal(t, []Range{{From: remoteSHA, To: localSHA}}, ranges)
}

func TestPushRangesNewBranchUsesRemoteHead(t *testing.T) {
	g, _ := newFakeGit(map[string]string{verifyKey("origin/HEAD"): ""})
	stdin := pushLine("refs/heads/feature", localSHA, "refs/heads/feature", zeroSHA)

	ranges, err := g.PushRanges(context.Background(), "origin", strings.NewReader(stdin))
	require.NoError(t, err)
	require.Equal(t, []Range{{From: "origin/HEAD", To: localSHA, MergeBase: true}}, ranges)
	assert.Equal(t, "origin/HEAD..."+localSHA, ranges[0].String())
}

func TestPushRangesNewBranchFallsBackToParent(t *testing.T) {
	g, _ := newFakeGit(map[string]string{verifyKey(localSHA + "~1"): ""})
	stdin := pushLine("refs/heads/feature", localSHA, "refs/heads/feature", zeroSHA)

	ranges, err := g.PushRanges(context.Background(), "origin", strings.NewReader(stdin))
	require.NoError(t, err)
	assert.Equal(t, []Range{{From: localSHA + "~1", To: localSHA}}, ranges)
}

func TestPushRangesRootCommitUsesEmptyTree(t *testing.T) {
	g, _ := newFakeGit(nil)
	stdin := pushLine("refs/heads/main", localSHA, "refs/heads/main", zeroSHA)

	ranges, err := g.PushRanges(context.Background(), "", strings.NewReader(stdin))
	require.NoError(t, err)
	assert.Equal(t, []Range{{From: emptyTree, To: localSHA}}, ranges)
}

func TestPushRangesSkipsDeletions(t *testing.T) {
	g, _ := newFakeGit(nil)
	stdin := pushLine("(delete)", zeroSHA, "refs/heads/old", remoteSHA)

	ranges, err := g.PushRanges(context.Background(), "origin", strings.NewReader(stdin))
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestPushRangesNoInputUsesUpstream(t *testing.T) {
	g, _ := newFakeGit(map[string]string{verifyKey("@{upstream}"): ""})

	ranges, err := g.PushRanges(context.Background(), "origin", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, []Range{{From: "@{upstream}", To: "HEAD"}}, ranges)
}

func TestRangeArgs(t *testing.T) {
	tests := []struct {
		r    Range
		want []string
	}{
		{Staged(), []string{"--cached"}},
		{Range{From: "a", To: "b"}, []string{"a", "b"}},
		{Range{From: "a", To: "b", MergeBase: true}, []string{"a...b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.r.args(), tt.r.String())
	}
}

func TestIsZeroSHA(t *testing.T) {
	assert.True(t, isZeroSHA(zeroSHA))
	assert.False(t, isZeroSHA(localSHA))
}
