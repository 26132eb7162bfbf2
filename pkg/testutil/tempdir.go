// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var (
	testRunDir     string
	testRunDirOnce sync.Once
)

// GetTestRunDir returns a per-process directory under the system temp dir
// that groups every temp directory created through TempDir.
func GetTestRunDir() string {
	testRunDirOnce.Do(func() {
		base := filepath.Join(os.TempDir(), "git-tracker-test-runs")
		if err := os.MkdirAll(base, 0o755); err != nil {
			panic("failed to create test run base dir: " + err.Error())
		}
		dir, err := os.MkdirTemp(base, "run-*")
		if err != nil {
			panic("failed to create test run dir: " + err.Error())
		}
		testRunDir = dir
	})
	return testRunDir
}

// TempDir creates a directory matching pattern under the test run directory
// and removes it when the test finishes.
func TempDir(t testing.TB, pattern string) string {
	t.Helper()
	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return dir
}
