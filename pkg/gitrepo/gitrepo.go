// Package gitrepo runs the git operations of the diff-gated commit: stage
// named files, test the staged tree against HEAD, commit, and push.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gittracker/git-tracker/pkg/gitutil"
	"github.com/gittracker/git-tracker/pkg/logger"
)

var gitLog = logger.New("gitrepo:gitrepo")

var (
	ErrNotARepo     = errors.New("not a git repository")
	ErrStageFailed  = errors.New("git add failed")
	ErrCommitFailed = errors.New("git commit failed")
	ErrPushFailed   = errors.New("git push failed")

	// ErrOutsideWorkTree is returned by Resolve for paths that git would
	// refuse to stage.
	ErrOutsideWorkTree = errors.New("path is outside the work tree")
)

// Identity is the author and committer recorded on commits.
type Identity struct {
	Name  string
	Email string
}

// BotIdentity is the identity GitHub Actions uses for its own commits.
var BotIdentity = Identity{
	Name:  "github-actions[bot]",
	Email: "41898282+github-actions[bot]@users.noreply.github.com",
}

// Repo is a git working tree.
type Repo struct {
	// Dir is the working directory git runs in.
	Dir string
	// Remote, when set, makes Push target HEAD:Branch on it instead of
	// relying on the branch's upstream. Branch defaults to the checked-out
	// branch.
	Remote string
	Branch string
}

// Open returns a Repo for dir after checking dir is inside a work tree.
func Open(ctx context.Context, dir string) (*Repo, error) {
	r := &Repo{Dir: dir}
	out, _, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		gitLog.Printf("Not a git work tree: %s", dir)
		return nil, fmt.Errorf("%w: %s", ErrNotARepo, dir)
	}
	return r, nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, string, error) {
	gitLog.Printf("git %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, stderr, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %s: %w", strings.TrimSpace(stderr), err)
	}
	return strings.TrimSpace(out), nil
}

// Stage adds exactly the named paths to the index.
func (r *Repo) Stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, stderr, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("%w: %s", ErrStageFailed, strings.TrimSpace(stderr))
	}
	return nil
}

// Unstage resets the named paths in the index to HEAD, leaving the work
// tree untouched.
func (r *Repo) Unstage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"reset", "-q", "--"}, paths...)
	if _, stderr, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("git reset failed: %s: %w", strings.TrimSpace(stderr), err)
	}
	return nil
}

// Resolve makes path absolute, interpreting a relative path against Dir
// rather than the process working directory, and checks that it lies inside
// the work tree.
func (r *Repo) Resolve(ctx context.Context, path string) (string, error) {
	out, stderr, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to locate work tree root: %s: %w", strings.TrimSpace(stderr), err)
	}
	root := realPath(strings.TrimSpace(out))

	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	rel, err := filepath.Rel(root, realPath(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not inside %s", ErrOutsideWorkTree, abs, root)
	}
	gitLog.Printf("Resolved %s to %s", path, abs)
	return abs, nil
}

// realPath resolves symlinks in the longest existing prefix of path, so
// that paths not created yet compare correctly against git's toplevel.
func realPath(path string) string {
	path = filepath.Clean(path)
	var rest []string
	for {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		parent := filepath.Dir(path)
		if parent == path {
			return filepath.Join(append([]string{path}, rest...)...)
		}
		rest = append([]string{filepath.Base(path)}, rest...)
		path = parent
	}
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	_, stderr, err := r.run(ctx, "diff", "--staged", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff --staged failed: %s: %w", strings.TrimSpace(stderr), err)
}

// StagedFiles lists paths in the index that differ from HEAD.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, stderr, err := r.run(ctx, "diff", "--staged", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git diff --staged failed: %s: %w", strings.TrimSpace(stderr), err)
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Commit records the index with message as id and returns the new HEAD.
func (r *Repo) Commit(ctx context.Context, message string, id Identity) (string, error) {
	_, stderr, err := r.run(ctx,
		"-c", "user.name="+id.Name,
		"-c", "user.email="+id.Email,
		"commit", "-m", message,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCommitFailed, strings.TrimSpace(stderr))
	}

	out, stderr, err := r.run(ctx, "rev-parse", "HEAD")
	sha := strings.TrimSpace(out)
	if err != nil || !gitutil.IsHexString(sha) {
		return "", fmt.Errorf("%w: could not resolve new HEAD: %s", ErrCommitFailed, strings.TrimSpace(stderr))
	}
	gitLog.Printf("Created commit %s", sha)
	return sha, nil
}

// Push publishes the current branch. Rejections are not retried.
func (r *Repo) Push(ctx context.Context) error {
	args := []string{"push"}
	if r.Remote != "" {
		branch := r.Branch
		if branch == "" {
			current, err := r.CurrentBranch(ctx)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPushFailed, err)
			}
			branch = current
		}
		args = append(args, r.Remote, "HEAD:"+branch)
	}

	_, stderr, err := r.run(ctx, args...)
	if err == nil {
		return nil
	}
	msg := strings.TrimSpace(stderr)
	switch {
	case gitutil.IsNonFastForward(msg):
		return fmt.Errorf("%w: remote branch moved ahead (non-fast-forward): %s", ErrPushFailed, msg)
	case gitutil.IsAuthError(msg):
		return fmt.Errorf("%w: credentials rejected: %s", ErrPushFailed, msg)
	default:
		return fmt.Errorf("%w: %s", ErrPushFailed, msg)
	}
}
