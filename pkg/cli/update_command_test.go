//go:build !integration

package cli

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gittracker/git-tracker/pkg/gitrepo"
	"github.com/gittracker/git-tracker/pkg/testutil"
	"github.com/gittracker/git-tracker/pkg/tracker"
)

func TestRunUpdatePushesOnlyWhenChanged(t *testing.T) {
	fx := testutil.NewGitFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/events/public", eventsHandler(t, "PushEvent", "WatchEvent"))
	stubGitHub(t, mux)

	cfg := testConfig(fx.Work)
	opts := UpdateOptions{RepoDir: fx.Work}

	res, err := RunUpdate(context.Background(), cfg, opts)
	require.NoError(t, err)
	assert.True(t, res.Pushed)
	assert.Equal(t, "2", testutil.CommitCount(t, fx.Remote, "main"))
	assert.Equal(t, tracker.CommitMessage, testutil.RunGit(t, fx.Remote, "log", "-1", "--format=%s", "main"))
	assert.Equal(t, gitrepo.BotIdentity.Name, testutil.RunGit(t, fx.Remote, "log", "-1", "--format=%an", "main"))

	res, err = RunUpdate(context.Background(), cfg, opts)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "2", testutil.CommitCount(t, fx.Remote, "main"), "unchanged trackers must not create a commit")
}

func TestRunUpdateDryRun(t *testing.T) {
	fx := testutil.NewGitFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/events/public", eventsHandler(t, "ForkEvent"))
	stubGitHub(t, mux)

	res, err := RunUpdate(context.Background(), testConfig(fx.Work), UpdateOptions{RepoDir: fx.Work, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Committed)
	assert.Equal(t, "1", testutil.CommitCount(t, fx.Work, "HEAD"))
}

func TestRunUpdateOutsideRepo(t *testing.T) {
	dir := testutil.TempDir(t, "not-a-repo-*")
	_, err := RunUpdate(context.Background(), testConfig(dir), UpdateOptions{RepoDir: dir})
	assert.ErrorIs(t, err, gitrepo.ErrNotARepo)
}

func TestRunUpdateResolvesOutputDirAgainstRepo(t *testing.T) {
	fx := testutil.NewGitFixture(t)
	cwd := testutil.TempDir(t, "elsewhere-*")
	t.Chdir(cwd)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/events/public", eventsHandler(t, "PushEvent"))
	stubGitHub(t, mux)

	res, err := RunUpdate(context.Background(), testConfig("."), UpdateOptions{RepoDir: fx.Work})
	require.NoError(t, err)
	assert.True(t, res.Pushed)
	assert.FileExists(t, filepath.Join(fx.Work, "tracker-light.svg"))
	assert.FileExists(t, filepath.Join(fx.Work, "tracker-dark.svg"))
	assert.NoFileExists(t, filepath.Join(cwd, "tracker-light.svg"), "trackers must not land in the caller's cwd")
	assert.Equal(t, "2", testutil.CommitCount(t, fx.Remote, "main"))
}

func TestRunUpdateRejectsOutputDirOutsideRepo(t *testing.T) {
	fx := testutil.NewGitFixture(t)
	outside := testutil.TempDir(t, "outside-*")
	stubGitHub(t, http.NewServeMux())

	_, err := RunUpdate(context.Background(), testConfig(outside), UpdateOptions{RepoDir: fx.Work})
	require.ErrorIs(t, err, gitrepo.ErrOutsideWorkTree)
	assert.NoFileExists(t, filepath.Join(outside, "tracker-light.svg"))
	assert.Equal(t, "1", testutil.CommitCount(t, fx.Work, "HEAD"))
}

func TestRunUpdatePushesToExplicitBranch(t *testing.T) {
	fx := testutil.NewGitFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/events/public", eventsHandler(t, "ReleaseEvent"))
	stubGitHub(t, mux)

	res, err := RunUpdate(context.Background(), testConfig(fx.Work), UpdateOptions{RepoDir: fx.Work, Remote: "origin", Branch: "tracker"})
	require.NoError(t, err)
	assert.True(t, res.Pushed)
	assert.Equal(t, testutil.RunGit(t, fx.Work, "rev-parse", "HEAD"), testutil.RunGit(t, fx.Remote, "rev-parse", "tracker"))
	assert.Equal(t, "1", testutil.CommitCount(t, fx.Remote, "main"), "main must not move")
}

func TestRunUpdateBranchRequiresRemote(t *testing.T) {
	fx := testutil.NewGitFixture(t)
	_, err := RunUpdate(context.Background(), testConfig(fx.Work), UpdateOptions{RepoDir: fx.Work, Branch: "tracker"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --remote")
}

func TestUpdateCommandFlags(t *testing.T) {
	cmd := NewUpdateCommand()
	for _, name := range []string{"repo-dir", "remote", "branch", "dry-run", "no-push", "pages", "output-dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s", name)
	}
}
