// Package hooks installs the tracker webhook on every repository the
// authenticated user owns.
package hooks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/github"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/parser"
	"github.com/gittracker/git-tracker/pkg/webhook"
)

var installerLog = logger.New("hooks:installer")

// DefaultConcurrency is how many repositories are processed at once.
const DefaultConcurrency = 4

// API is the part of the GitHub client the installer uses.
type API interface {
	CurrentUser(ctx context.Context) (github.User, error)
	ListOwnedRepos(ctx context.Context) ([]github.Repository, error)
	ListHooks(ctx context.Context, owner, repo string) ([]github.Hook, error)
	CreateHook(ctx context.Context, owner, repo string, hook github.Hook) (github.Hook, error)
}

// Status is the outcome for one repository.
type Status string

const (
	StatusAdded         Status = "added"
	StatusAlreadyHooked Status = "already-hooked"
	StatusSkipped       Status = "skipped"
	StatusFailed        Status = "failed"
)

// RepoResult is what happened to one repository.
type RepoResult struct {
	Repo   string
	Status Status
	Reason string
	Err    error
}

// Report summarizes an installation run.
type Report struct {
	Login   string
	Results []RepoResult
}

// Count returns how many results have status.
func (r Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Installer adds the tracker webhook where it is missing.
type Installer struct {
	API        API
	WebhookURL string
	Secret     string
	// Tracker is excluded from installation.
	Tracker     parser.RepoRef
	Concurrency int
	// FailFast aborts the batch on the first per-repository error.
	FailFast bool
	Out      io.Writer
}

// Install authenticates, lists owned repositories, and hooks each one.
// Per-repository failures are recorded in the report and only returned as
// an error when FailFast is set.
func (in *Installer) Install(ctx context.Context) (Report, error) {
	user, err := in.API.CurrentUser(ctx)
	if err != nil {
		return Report{}, err
	}
	fmt.Fprintln(in.Out, console.FormatInfoMessage("Authenticated as: "+user.Login))

	repos, err := in.API.ListOwnedRepos(ctx)
	if err != nil {
		return Report{Login: user.Login}, err
	}
	fmt.Fprintln(in.Out, console.FormatInfoMessage(fmt.Sprintf("Checking %d user-owned repositories (excluding %s)", len(repos), in.Tracker)))

	concurrency := in.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	p := pool.NewWithResults[RepoResult]().
		WithContext(ctx).
		WithMaxGoroutines(concurrency).
		WithCollectErrored()
	if in.FailFast {
		p = p.WithCancelOnError()
	}

	for _, repo := range repos {
		p.Go(func(ctx context.Context) (RepoResult, error) {
			res := in.installOne(ctx, repo)
			if in.FailFast && res.Err != nil {
				return res, res.Err
			}
			return res, nil
		})
	}
	results, err := p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Repo < results[j].Repo })
	report := Report{Login: user.Login, Results: results}
	in.print(report)
	return report, err
}

func (in *Installer) installOne(ctx context.Context, repo github.Repository) RepoResult {
	owner := repo.Owner.Login
	name := repo.Name
	res := RepoResult{Repo: name}
	if repo.FullName != "" {
		res.Repo = repo.FullName
	}

	if in.isTracker(owner, name) {
		res.Status, res.Reason = StatusSkipped, "tracker repository"
		return res
	}
	if repo.Archived {
		res.Status, res.Reason = StatusSkipped, "archived"
		return res
	}

	hooks, err := in.API.ListHooks(ctx, owner, name)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	for _, h := range hooks {
		if h.Config.URL == in.WebhookURL {
			res.Status = StatusAlreadyHooked
			return res
		}
	}

	installerLog.Printf("Adding hook to %s", res.Repo)
	_, err = in.API.CreateHook(ctx, owner, name, github.Hook{
		Name:   "web",
		Active: true,
		Events: webhook.TrackedEvents,
		Config: github.HookConfig{
			URL:         in.WebhookURL,
			ContentType: "json",
			Secret:      in.Secret,
		},
	})
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	res.Status = StatusAdded
	return res
}

func (in *Installer) isTracker(owner, name string) bool {
	if !strings.EqualFold(name, in.Tracker.Name) {
		return false
	}
	return owner == "" || in.Tracker.Owner == "" || strings.EqualFold(owner, in.Tracker.Owner)
}

func (in *Installer) print(report Report) {
	for _, res := range report.Results {
		switch res.Status {
		case StatusAdded:
			fmt.Fprintln(in.Out, console.FormatSuccessMessage(fmt.Sprintf("Hook added to %s", res.Repo)))
		case StatusAlreadyHooked:
			fmt.Fprintln(in.Out, console.FormatSuccessMessage(fmt.Sprintf("%s already hooked with %s", res.Repo, in.WebhookURL)))
		case StatusSkipped:
			fmt.Fprintln(in.Out, console.FormatInfoMessage(fmt.Sprintf("Skipped %s (%s)", res.Repo, res.Reason)))
		case StatusFailed:
			fmt.Fprintln(in.Out, console.FormatErrorMessage(fmt.Sprintf("Failed to process hooks for %s: %v", res.Repo, res.Err)))
		}
	}
	fmt.Fprintln(in.Out, console.FormatInfoMessage(fmt.Sprintf(
		"Webhook setup complete: %d added, %d already hooked, %d skipped, %d failed",
		report.Count(StatusAdded), report.Count(StatusAlreadyHooked), report.Count(StatusSkipped), report.Count(StatusFailed),
	)))
}
