package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitFixture is a working repository cloned from a local bare remote.
type GitFixture struct {
	Work   string
	Remote string
}

// NewGitFixture creates a bare remote and a clone of it with one initial
// commit pushed to main. The test is skipped when git is unavailable.
func NewGitFixture(t testing.TB) *GitFixture {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("Git not available")
	}

	root := TempDir(t, "git-fixture-*")
	remote := filepath.Join(root, "remote.git")
	work := filepath.Join(root, "work")

	RunGit(t, root, "init", "--bare", "--initial-branch=main", remote)
	RunGit(t, root, "clone", remote, work)
	RunGit(t, work, "config", "user.name", "Test User")
	RunGit(t, work, "config", "user.email", "test@example.com")
	RunGit(t, work, "symbolic-ref", "HEAD", "refs/heads/main")

	if err := os.WriteFile(filepath.Join(work, "README.md"), []byte("# tracker\n"), 0o644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	RunGit(t, work, "add", "README.md")
	RunGit(t, work, "commit", "-m", "Initial commit")
	RunGit(t, work, "push", "-u", "origin", "main")

	return &GitFixture{Work: work, Remote: remote}
}

// RunGit runs git in dir and fails the test on error. It returns trimmed stdout.
func RunGit(t testing.TB, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// CommitCount returns the number of commits reachable from ref in dir.
func CommitCount(t testing.TB, dir, ref string) string {
	t.Helper()
	return RunGit(t, dir, "rev-list", "--count", ref)
}
