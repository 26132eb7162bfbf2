package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/gitrepo"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/tracker"
)

var updateLog = logger.New("cli:update_command")

// UpdateOptions controls which pipeline steps run.
type UpdateOptions struct {
	GenerateOptions
	// RepoDir is the tracker repository work tree.
	RepoDir string
	// Remote and Branch override the push target; empty uses the upstream.
	Remote string
	Branch string
	DryRun bool
	NoPush bool
}

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	var opts UpdateOptions
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Regenerate the tracker SVGs and push them when they changed",
		Long: `Regenerate the tracker SVGs, verify both files exist, then stage, commit and
push them as github-actions[bot]. When the regenerated files match what is
already committed the command succeeds without creating a commit.

This is the command the update-tracker workflow runs on every dispatch event.

Examples:
  git-tracker update              # Generate, commit and push
  git-tracker update --dry-run    # Report whether the SVGs changed, commit nothing
  git-tracker update --no-push    # Commit locally without pushing
  git-tracker update --remote origin --branch tracker   # Push HEAD to origin/tracker`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := applyGenerateFlags(cmd, cfg, opts.GenerateOptions); err != nil {
				return err
			}
			_, err = RunUpdate(cmd.Context(), cfg, opts)
			return err
		},
	}
	addGenerateFlags(cmd, &opts.GenerateOptions)
	cmd.Flags().StringVar(&opts.RepoDir, "repo-dir", ".", "Tracker repository work tree")
	cmd.Flags().StringVar(&opts.Remote, "remote", "", "Remote to push to (default the branch's upstream)")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Remote branch to push HEAD to (requires --remote, default the current branch)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Stop after checking for changes and list what would be committed")
	cmd.Flags().BoolVar(&opts.NoPush, "no-push", false, "Commit without pushing")
	return cmd
}

// RunUpdate runs the generate, verify, commit and push pipeline.
func RunUpdate(ctx context.Context, cfg *config.Config, opts UpdateOptions) (tracker.Result, error) {
	updateLog.Printf("Running update: repo_dir=%s, output_dir=%s, dry_run=%v, no_push=%v", opts.RepoDir, cfg.OutputDir, opts.DryRun, opts.NoPush)

	repoDir := opts.RepoDir
	if repoDir == "" {
		repoDir = "."
	}
	if opts.Branch != "" && opts.Remote == "" {
		return tracker.Result{}, fmt.Errorf("--branch %q requires --remote", opts.Branch)
	}
	repo, err := gitrepo.Open(ctx, repoDir)
	if err != nil {
		return tracker.Result{}, err
	}
	repo.Remote, repo.Branch = opts.Remote, opts.Branch

	// The SVGs must be written where git stages them: a relative output
	// directory belongs to the repository, not to the caller's cwd.
	outputDir, err := repo.Resolve(ctx, cfg.OutputDir)
	if err != nil {
		return tracker.Result{}, fmt.Errorf("invalid output directory: %w", err)
	}
	updateLog.Printf("Writing trackers to %s", outputDir)

	gen, err := newGenerator(cfg)
	if err != nil {
		return tracker.Result{}, err
	}
	gen.OutputDir = outputDir

	p := &tracker.Pipeline{
		Generator: spinnerGenerator{inner: gen},
		Repo:      repo,
		OutputDir: outputDir,
		Out:       os.Stderr,
		DryRun:    opts.DryRun,
		NoPush:    opts.NoPush,
	}
	res, err := p.Run(ctx)
	if err != nil {
		return res, err
	}

	if res.Changed {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Tracker updated from %d events", res.Summary.Total())))
	}
	return res, nil
}
