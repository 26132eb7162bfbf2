//go:build !integration

package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gittracker/git-tracker/pkg/github"
	"github.com/gittracker/git-tracker/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	events []github.Event
	err    error

	username string
	pages    int
}

func (f *fakeSource) ListPublicEvents(_ context.Context, username string, pages int) ([]github.Event, error) {
	f.username, f.pages = username, pages
	return f.events, f.err
}

func TestGeneratorWritesBothThemes(t *testing.T) {
	dir := testutil.TempDir(t, "generate-*")
	src := &fakeSource{events: sampleEvents()}
	g := &Generator{Source: src, Username: "octocat", Pages: 2, OutputDir: dir}

	artifacts, summary, err := g.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "octocat", src.username)
	assert.Equal(t, 2, src.pages)
	assert.Equal(t, 7, summary.Total())
	require.Len(t, artifacts, 2)

	for _, a := range artifacts {
		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, Render(summary, a.Theme), data)
	}
	assert.FileExists(t, filepath.Join(dir, "tracker-light.svg"))
	assert.FileExists(t, filepath.Join(dir, "tracker-dark.svg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files should be left behind")
}

func TestGeneratorSourceErrorWritesNothing(t *testing.T) {
	dir := testutil.TempDir(t, "generate-*")
	g := &Generator{Source: &fakeSource{err: errors.New("HTTP 500")}, Username: "octocat", OutputDir: dir}

	_, _, err := g.Generate(context.Background())
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(testutil.TempDir(t, "generate-*"), "nested", "out")
	g := &Generator{Source: &fakeSource{}, Username: "octocat", OutputDir: dir}

	_, _, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "tracker-dark.svg"))
}
