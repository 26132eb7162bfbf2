//go:build !integration

package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gittracker/git-tracker/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T) (*Repo, *testutil.GitFixture) {
	t.Helper()
	fx := testutil.NewGitFixture(t)
	repo, err := Open(context.Background(), fx.Work)
	require.NoError(t, err)
	return repo, fx
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOpenNotInRepo(t *testing.T) {
	dir := testutil.TempDir(t, "not-a-repo-*")
	_, err := Open(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNotARepo)
}

func TestCurrentBranch(t *testing.T) {
	repo, _ := openFixture(t)

	branch, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestHasStagedChanges(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)
	svg := filepath.Join(fx.Work, "tracker-light.svg")

	changed, err := repo.HasStagedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "fresh clone should have a clean index")

	writeFile(t, svg, "<svg/>\n")
	require.NoError(t, repo.Stage(ctx, svg))

	changed, err = repo.HasStagedChanges(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	files, err := repo.StagedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tracker-light.svg"}, files)
}

func TestStageOnlyNamedFiles(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)

	writeFile(t, filepath.Join(fx.Work, "tracker-dark.svg"), "<svg/>\n")
	writeFile(t, filepath.Join(fx.Work, "scratch.txt"), "not staged\n")

	require.NoError(t, repo.Stage(ctx, "tracker-dark.svg"))

	files, err := repo.StagedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tracker-dark.svg"}, files)
}

func TestStageMissingFile(t *testing.T) {
	repo, _ := openFixture(t)
	err := repo.Stage(context.Background(), "does-not-exist.svg")
	assert.ErrorIs(t, err, ErrStageFailed)
}

func TestCommitAndPush(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)

	writeFile(t, filepath.Join(fx.Work, "tracker-light.svg"), "<svg/>\n")
	require.NoError(t, repo.Stage(ctx, "tracker-light.svg"))

	sha, err := repo.Commit(ctx, "🔄 Update tracker SVGs", BotIdentity)
	require.NoError(t, err)
	assert.Len(t, sha, 40)

	author := testutil.RunGit(t, fx.Work, "log", "-1", "--format=%an <%ae>|%cn|%s")
	assert.Equal(t, "github-actions[bot] <41898282+github-actions[bot]@users.noreply.github.com>|github-actions[bot]|🔄 Update tracker SVGs", author)

	require.NoError(t, repo.Push(ctx))
	assert.Equal(t, sha, testutil.RunGit(t, fx.Remote, "rev-parse", "main"))
}

func TestCommitWithNothingStaged(t *testing.T) {
	repo, _ := openFixture(t)
	_, err := repo.Commit(context.Background(), "🔄 Update tracker SVGs", BotIdentity)
	assert.ErrorIs(t, err, ErrCommitFailed)
}

func TestPushRejectedNonFastForward(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)

	// A concurrent run pushes first from another clone
	other := filepath.Join(filepath.Dir(fx.Work), "other")
	testutil.RunGit(t, filepath.Dir(fx.Work), "clone", fx.Remote, other)
	writeFile(t, filepath.Join(other, "tracker-dark.svg"), "<svg>other</svg>\n")
	testutil.RunGit(t, other, "add", "tracker-dark.svg")
	testutil.RunGit(t, other, "-c", "user.name=Other", "-c", "user.email=other@example.com", "commit", "-m", "other run")
	testutil.RunGit(t, other, "push", "origin", "HEAD:main")

	writeFile(t, filepath.Join(fx.Work, "tracker-dark.svg"), "<svg>mine</svg>\n")
	require.NoError(t, repo.Stage(ctx, "tracker-dark.svg"))
	_, err := repo.Commit(ctx, "🔄 Update tracker SVGs", BotIdentity)
	require.NoError(t, err)

	err = repo.Push(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPushFailed)
	assert.Contains(t, err.Error(), "non-fast-forward")
}

func TestUnstage(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)
	svg := filepath.Join(fx.Work, "tracker-light.svg")
	writeFile(t, svg, "<svg/>\n")
	require.NoError(t, repo.Stage(ctx, svg))

	require.NoError(t, repo.Unstage(ctx, svg))

	changed, err := repo.HasStagedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.FileExists(t, svg, "unstaging must keep the work tree file")
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)

	// Relative paths are taken against the repository, not the process cwd
	t.Chdir(testutil.TempDir(t, "elsewhere-*"))

	got, err := repo.Resolve(ctx, ".")
	require.NoError(t, err)
	assert.Equal(t, fx.Work, got)

	got, err = repo.Resolve(ctx, "assets")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fx.Work, "assets"), got)

	_, err = repo.Resolve(ctx, "..")
	assert.ErrorIs(t, err, ErrOutsideWorkTree)

	_, err = repo.Resolve(ctx, fx.Remote)
	assert.ErrorIs(t, err, ErrOutsideWorkTree)
}

func TestPushExplicitRemoteAndBranch(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)
	repo.Remote, repo.Branch = "origin", "tracker"

	writeFile(t, filepath.Join(fx.Work, "tracker-light.svg"), "<svg/>\n")
	require.NoError(t, repo.Stage(ctx, "tracker-light.svg"))
	sha, err := repo.Commit(ctx, "🔄 Update tracker SVGs", BotIdentity)
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx))
	assert.Equal(t, sha, testutil.RunGit(t, fx.Remote, "rev-parse", "tracker"))
	assert.NotEqual(t, sha, testutil.RunGit(t, fx.Remote, "rev-parse", "main"), "main must not move")
}

func TestPushExplicitRemoteDefaultsToCurrentBranch(t *testing.T) {
	ctx := context.Background()
	repo, fx := openFixture(t)
	repo.Remote = "origin"

	writeFile(t, filepath.Join(fx.Work, "tracker-dark.svg"), "<svg/>\n")
	require.NoError(t, repo.Stage(ctx, "tracker-dark.svg"))
	sha, err := repo.Commit(ctx, "🔄 Update tracker SVGs", BotIdentity)
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx))
	assert.Equal(t, sha, testutil.RunGit(t, fx.Remote, "rev-parse", "main"))
}
