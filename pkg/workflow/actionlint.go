package workflow

import (
	"fmt"
	"io"
	"strings"

	"github.com/rhysd/actionlint"

	"github.com/gittracker/git-tracker/pkg/logger"
)

var actionlintLog = logger.New("workflow:actionlint")

// LintError carries every problem actionlint found in one file.
type LintError struct {
	Path   string
	Errors []*actionlint.Error
}

func (e *LintError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "actionlint found %d issue(s) in %s", len(e.Errors), e.Path)
	for _, le := range e.Errors {
		fmt.Fprintf(&b, "\n  %d:%d: %s [%s]", le.Line, le.Column, le.Message, le.Kind)
		fmt.Fprintf(&b, "\n    see %s", actionlintDocsURL(le.Kind))
	}
	return b.String()
}

// Lint runs actionlint over content. Shellcheck and pyflakes integration
// stay disabled so the result does not depend on tools installed on PATH.
func Lint(path string, content []byte) error {
	linter, err := actionlint.NewLinter(io.Discard, &actionlint.LinterOptions{})
	if err != nil {
		return fmt.Errorf("failed to create actionlint linter: %w", err)
	}
	errs, err := linter.Lint(path, content, nil)
	if err != nil {
		return fmt.Errorf("actionlint failed on %s: %w", path, err)
	}
	actionlintLog.Printf("Linted %s: %d issue(s)", path, len(errs))
	if len(errs) > 0 {
		return &LintError{Path: path, Errors: errs}
	}
	return nil
}

// actionlintDocsURL maps an actionlint error kind to its documentation anchor.
func actionlintDocsURL(kind string) string {
	const base = "https://github.com/rhysd/actionlint/blob/main/docs/checks.md"
	if kind == "" {
		return base
	}
	anchor := kind
	switch kind {
	case "runner-label":
		anchor = "check-runner-labels"
	case "expression", "syntax-check":
		anchor = "check-syntax-expression"
	default:
		if !strings.HasPrefix(anchor, "check-") {
			anchor = "check-" + anchor
		}
	}
	return base + "#" + anchor
}
