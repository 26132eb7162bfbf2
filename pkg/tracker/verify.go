package tracker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gittracker/git-tracker/pkg/console"
)

// ErrMissingArtifacts means generation finished without producing every file.
var ErrMissingArtifacts = errors.New("expected tracker files are missing")

// previewLines is how many lines of each artifact are echoed for diagnostics.
const previewLines = 5

// VerifyArtifacts checks that every artifact exists and echoes the first
// lines of each to out. Nothing is echoed when a file is missing.
func VerifyArtifacts(artifacts []Artifact, out io.Writer) error {
	var missing []string
	for _, a := range artifacts {
		info, err := os.Stat(a.Path)
		if err != nil || info.IsDir() {
			missing = append(missing, a.Path)
			fmt.Fprintln(out, console.FormatErrorMessage(fmt.Sprintf("ERROR: %s not found", a.Path)))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingArtifacts, strings.Join(missing, ", "))
	}

	for _, a := range artifacts {
		fmt.Fprintf(out, "==> %s <==\n", filepath.Base(a.Path))
		if err := head(a.Path, previewLines, out); err != nil {
			return fmt.Errorf("failed to read %s: %w", a.Path, err)
		}
	}
	return nil
}

func head(path string, n int, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < n && scanner.Scan(); i++ {
		fmt.Fprintln(out, scanner.Text())
	}
	return scanner.Err()
}
