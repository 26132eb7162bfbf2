package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/cli"
	"github.com/gittracker/git-tracker/pkg/logger"
)

var mainLog = logger.New("main:main")

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "git-tracker",
	Short: "Render GitHub activity as SVG trackers and keep them up to date",
	Long: `git-tracker summarizes a user's public GitHub activity into light and dark SVG
trackers and publishes them to a tracker repository.

Updates are driven by repository_dispatch events: a webhook server turns
activity on your repositories into dispatches, and a workflow in the tracker
repository runs 'git-tracker update' for each one.

Common tasks:
  git-tracker generate       # Render the SVGs locally
  git-tracker update         # Render, commit and push when they changed
  git-tracker serve          # Run the webhook listener
  git-tracker hooks setup    # Install webhooks on your repositories
  git-tracker workflow       # Write the update-tracker workflow

Set DEBUG=* to see debug logs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show git-tracker version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "git-tracker version %s\n", version)
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("git-tracker version {{.Version}}\n")

	rootCmd.AddCommand(cli.NewGenerateCommand())
	rootCmd.AddCommand(cli.NewUpdateCommand())
	rootCmd.AddCommand(cli.NewDispatchCommand())
	rootCmd.AddCommand(cli.NewServeCommand())
	rootCmd.AddCommand(cli.NewHooksCommand())
	rootCmd.AddCommand(cli.NewWorkflowCommand())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainLog.Printf("Starting git-tracker %s with args %v", version, os.Args[1:])
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		stop()
		os.Exit(1)
	}
}
