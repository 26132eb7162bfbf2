package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/hooks"
	"github.com/gittracker/git-tracker/pkg/logger"
)

var hooksCommandLog = logger.New("cli:hooks_command")

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("aborted by user")

// confirm asks a yes/no question. Tests replace it.
var confirm = func(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithAccessible(console.IsAccessibleMode())
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// HooksSetupOptions are the flags of hooks setup.
type HooksSetupOptions struct {
	Yes         bool
	Concurrency int
	FailFast    bool
}

// NewHooksCommand creates the hooks command with subcommands
func NewHooksCommand() *cobra.Command {
	hooksCommandLog.Print("Creating hooks command with subcommands")
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage the activity webhooks on your repositories",
		Long: `Manage the webhooks that report repository activity to the webhook server.

Available subcommands:
  • setup - Add the webhook to every repository you own

Examples:
  git-tracker hooks setup          # Add missing webhooks after confirming
  git-tracker hooks setup --yes    # Add them without asking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newHooksSetupSubcommand())
	return cmd
}

func newHooksSetupSubcommand() *cobra.Command {
	var opts HooksSetupOptions
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Add the tracker webhook to every repository you own",
		Long: `Add a webhook pointing at WEBHOOK_URL to every repository owned by the
authenticated user. Repositories that already deliver to WEBHOOK_URL, archived
repositories and the tracker repository itself are skipped.

A failure on one repository is reported and the rest are still processed,
unless --fail-fast is given.

Examples:
  git-tracker hooks setup                   # Confirm, then install
  git-tracker hooks setup --yes --fail-fast # Install non-interactively, stop on the first error
  git-tracker hooks setup --concurrency 8   # Process eight repositories at a time`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			_, err = RunHooksSetup(cmd.Context(), cfg, opts)
			return err
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", hooks.DefaultConcurrency, "Repositories processed in parallel")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop at the first repository that fails")
	return cmd
}

// RunHooksSetup installs the webhook on every owned repository.
func RunHooksSetup(ctx context.Context, cfg *config.Config, opts HooksSetupOptions) (hooks.Report, error) {
	ref, err := cfg.TrackerRef()
	if err != nil {
		return hooks.Report{}, err
	}
	client, err := authedClient(cfg)
	if err != nil {
		return hooks.Report{}, err
	}

	if cfg.WebhookSecret == "" {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("WEBHOOK_SECRET is not set; hooks will be created without a secret"))
	}

	if !opts.Yes && isInteractive() {
		ok, err := confirm(
			"Install the activity webhook on all your repositories?",
			fmt.Sprintf("Deliveries go to %s", cfg.WebhookURL),
		)
		if err != nil {
			return hooks.Report{}, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return hooks.Report{}, ErrAborted
		}
	}

	hooksCommandLog.Printf("Installing hooks: url=%s, concurrency=%d, fail_fast=%v", cfg.WebhookURL, opts.Concurrency, opts.FailFast)
	installer := &hooks.Installer{
		API:         client,
		WebhookURL:  cfg.WebhookURL,
		Secret:      cfg.WebhookSecret,
		Tracker:     ref,
		Concurrency: opts.Concurrency,
		FailFast:    opts.FailFast,
		Out:         os.Stderr,
	}
	report, err := installer.Install(ctx)
	if err != nil {
		return report, fmt.Errorf("webhook setup failed: %w", err)
	}
	return report, nil
}
