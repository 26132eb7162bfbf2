package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/github"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/webhook"
)

var dispatchLog = logger.New("cli:dispatch_command")

// NewDispatchCommand creates the dispatch command
func NewDispatchCommand() *cobra.Command {
	var repoFlag string
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Trigger the tracker workflow with a repository_dispatch event",
		Long: `Send an update-tracker repository_dispatch event to the tracker repository,
the same event the webhook server sends when activity arrives.

The target defaults to TRACKER_REPO, resolved against USERNAME when it has no owner.

Examples:
  git-tracker dispatch                        # Dispatch to TRACKER_REPO
  git-tracker dispatch --repo octocat/stats   # Dispatch to another repository`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if repoFlag != "" {
				cfg.TrackerRepo = repoFlag
			}
			return RunDispatch(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&repoFlag, "repo", "r", "", "Target repository (name or owner/name)")
	return cmd
}

// RunDispatch posts one dispatch event to the tracker repository.
func RunDispatch(ctx context.Context, cfg *config.Config) error {
	ref, err := cfg.TrackerRef()
	if err != nil {
		return err
	}
	client, err := authedClient(cfg)
	if err != nil {
		return err
	}

	dispatchLog.Printf("Dispatching %s to %s", webhook.DispatchEventType, ref)
	_, err = withSpinner("Sending dispatch event...", func() (struct{}, error) {
		return struct{}{}, client.Dispatch(ctx, ref.Owner, ref.Name, github.DispatchRequest{
			EventType:     webhook.DispatchEventType,
			ClientPayload: map[string]any{"source_event": "manual"},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to dispatch to %s: %w", ref, err)
	}
	fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Dispatched %s to %s", webhook.DispatchEventType, ref)))
	return nil
}
