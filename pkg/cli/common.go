package cli

import (
	"errors"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/github"
	"github.com/gittracker/git-tracker/pkg/gitrepo"
	"github.com/gittracker/git-tracker/pkg/gitutil"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/workflow"
)

var commonLog = logger.New("cli:common")

// newClient builds the GitHub client for cfg. Tests replace it to point the
// client at a local server.
var newClient = func(cfg *config.Config) (*github.Client, error) {
	return github.NewClient(github.Options{Token: cfg.Token, Host: cfg.Host})
}

// isInteractive reports whether prompts can be shown.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// authedClient checks that a token is configured and builds a client.
func authedClient(cfg *config.Config) (*github.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	commonLog.Printf("Using token from %s for %s", cfg.TokenSource, cfg.Host)
	return newClient(cfg)
}

// withSpinner runs fn while a spinner shows message on stderr.
func withSpinner[T any](message string, fn func() (T, error)) (T, error) {
	s := console.NewSpinner(message)
	s.Start()
	defer s.Stop()
	return fn()
}

// FormatError renders err for the terminal with hints for the failures
// users can fix themselves.
func FormatError(err error) string {
	return console.FormatErrorWithSuggestions(err.Error(), suggestionsFor(err))
}

func suggestionsFor(err error) []string {
	msg := err.Error()
	switch {
	case errors.Is(err, config.ErrMissingToken):
		return []string{
			"Set GH_PAT to a personal access token with repo scope",
			"Or authenticate the GitHub CLI with: " + console.FormatCommandMessage("gh auth login"),
		}
	case errors.Is(err, config.ErrMissingUsername):
		return []string{"Set USERNAME to the GitHub login whose activity should be tracked"}
	case errors.Is(err, config.ErrMissingTrackerRepo):
		return []string{"Set TRACKER_REPO to the repository that hosts the tracker SVGs (name or owner/name)"}
	case errors.Is(err, gitrepo.ErrNotARepo):
		return []string{"Run the command from a clone of the tracker repository"}
	case errors.Is(err, gitrepo.ErrPushFailed) && gitutil.IsNonFastForward(msg):
		return []string{"The remote branch has new commits; pull them and run the update again"}
	case errors.Is(err, workflow.ErrOutOfDate):
		return []string{"Regenerate it with: " + console.FormatCommandMessage("git-tracker workflow --output "+workflow.DefaultPath)}
	case errors.Is(err, gitrepo.ErrOutsideWorkTree):
		return []string{"Point GIT_TRACKER_OUTPUT_DIR or --output-dir at a directory inside --repo-dir"}
	case github.StatusCode(err) == http.StatusUnauthorized || gitutil.IsAuthError(msg):
		return []string{
			"Check that the token has not expired",
			"Make sure the token has the repo and admin:repo_hook scopes",
		}
	case github.StatusCode(err) == http.StatusNotFound:
		return []string{"Check the repository name and that the token can access it"}
	}
	return nil
}
