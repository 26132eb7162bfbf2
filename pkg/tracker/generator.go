package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gittracker/git-tracker/pkg/github"
	"github.com/gittracker/git-tracker/pkg/logger"
)

var generatorLog = logger.New("tracker:generator")

// EventSource supplies a user's public events.
type EventSource interface {
	ListPublicEvents(ctx context.Context, username string, pages int) ([]github.Event, error)
}

// Artifact is one rendered tracker file.
type Artifact struct {
	Path  string
	Theme Theme
}

// Artifacts returns the fixed artifact set for outputDir.
func Artifacts(outputDir string) []Artifact {
	themes := Themes()
	artifacts := make([]Artifact, len(themes))
	for i, theme := range themes {
		artifacts[i] = Artifact{Path: filepath.Join(outputDir, theme.FileName), Theme: theme}
	}
	return artifacts
}

// Paths returns the file paths of artifacts.
func Paths(artifacts []Artifact) []string {
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.Path
	}
	return paths
}

// Generator fetches events and writes both themed SVGs.
type Generator struct {
	Source    EventSource
	Username  string
	Pages     int
	OutputDir string
}

// Generate renders and writes every artifact. Files are replaced atomically,
// so a failure leaves any previous version in place.
func (g *Generator) Generate(ctx context.Context) ([]Artifact, Summary, error) {
	generatorLog.Printf("Generating trackers for %s into %s", g.Username, g.OutputDir)
	events, err := g.Source.ListPublicEvents(ctx, g.Username, g.Pages)
	if err != nil {
		return nil, nil, err
	}

	summary := Summarize(events)
	generatorLog.Printf("Summarized %d events into %d types", summary.Total(), len(summary))

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := Artifacts(g.OutputDir)
	for _, a := range artifacts {
		if err := writeFileAtomic(a.Path, Render(summary, a.Theme)); err != nil {
			return nil, nil, fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
		generatorLog.Printf("Wrote %s", a.Path)
	}
	return artifacts, summary, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
