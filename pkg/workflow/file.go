package workflow

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/parser"
)

var fileLog = logger.New("workflow:file")

// ErrOutOfDate is returned by Check when the file on disk differs from the
// generated workflow.
var ErrOutOfDate = errors.New("workflow is out of date")

// Write lints the generated workflow and writes it to path, creating parent
// directories. It reports whether the file changed.
func Write(path string, opts Options) (bool, error) {
	content := Generate(opts)
	if err := Lint(path, content); err != nil {
		return false, err
	}

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		fileLog.Printf("Workflow %s already up to date", path)
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create workflow directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	fileLog.Printf("Wrote workflow %s (%d bytes)", path, len(content))
	return true, nil
}

// Check compares the file at path with the generated workflow. A missing
// file or any difference yields ErrOutOfDate; a file that is not valid YAML
// is reported with its position.
func Check(path string, opts Options) error {
	existing, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s does not exist: %w", path, ErrOutOfDate)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if bytes.Equal(existing, Generate(opts)) {
		return nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(existing, &doc); err != nil {
		line, column, message := parser.ExtractYAMLError(err)
		return fmt.Errorf("%s:%d:%d: invalid YAML: %s: %w", path, line, column, message, ErrOutOfDate)
	}
	if _, ok := doc["jobs"]; !ok {
		return fmt.Errorf("%s has no jobs section: %w", path, ErrOutOfDate)
	}
	return fmt.Errorf("%s differs from the generated workflow: %w", path, ErrOutOfDate)
}
