//go:build !integration

package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gittracker/git-tracker/pkg/testutil"
)

func TestGetTestRunDir(t *testing.T) {
	dir := testutil.GetTestRunDir()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("test run directory does not exist: %s", dir)
	}
	if !strings.Contains(dir, "git-tracker-test-runs") {
		t.Errorf("test run directory should contain 'git-tracker-test-runs', got: %s", dir)
	}
	if dir2 := testutil.GetTestRunDir(); dir != dir2 {
		t.Errorf("GetTestRunDir should return same directory, got %s and %s", dir, dir2)
	}
}

func TestTempDir(t *testing.T) {
	tempDir := testutil.TempDir(t, "test-pattern-*")

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Errorf("temp directory does not exist: %s", tempDir)
	}
	if !strings.HasPrefix(tempDir, testutil.GetTestRunDir()) {
		t.Errorf("temp directory should be under test run directory, got: %s", tempDir)
	}
	if !strings.Contains(filepath.Base(tempDir), "test-pattern-") {
		t.Errorf("temp directory should contain pattern, got: %s", tempDir)
	}

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		t.Errorf("failed to write to temp directory: %v", err)
	}
}

func TestTempDirCleanup(t *testing.T) {
	var tempDir string

	t.Run("subtest", func(t *testing.T) {
		tempDir = testutil.TempDir(t, "cleanup-test-*")
	})

	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Errorf("temp directory should be removed after the subtest: %s", tempDir)
	}
}

func TestNewGitFixture(t *testing.T) {
	fx := testutil.NewGitFixture(t)

	if got := testutil.CommitCount(t, fx.Work, "HEAD"); got != "1" {
		t.Errorf("expected 1 commit in work repo, got %s", got)
	}
	if got := testutil.CommitCount(t, fx.Remote, "main"); got != "1" {
		t.Errorf("expected 1 commit on remote main, got %s", got)
	}
}
