package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/workflow"
)

var workflowCommandLog = logger.New("cli:workflow_command")

// NewWorkflowCommand creates the workflow command
func NewWorkflowCommand() *cobra.Command {
	var output string
	var check bool
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Write the GitHub Actions workflow that runs tracker updates",
		Long: `Write the update-tracker workflow. It runs 'git-tracker update' on every
update-tracker repository_dispatch event and on manual workflow_dispatch runs.

The generated file is checked with actionlint before it is written.
With --check nothing is written and the command fails when the file on disk
differs from what would be generated.

Examples:
  git-tracker workflow           # Write .github/workflows/update-tracker.yml
  git-tracker workflow --check   # Fail if the committed workflow is stale`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunWorkflow(output, check)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", workflow.DefaultPath, "Workflow file path")
	cmd.Flags().BoolVar(&check, "check", false, "Verify the file is up to date instead of writing it")
	return cmd
}

// RunWorkflow writes or checks the workflow file at path.
func RunWorkflow(path string, check bool) error {
	workflowCommandLog.Printf("Running workflow command: path=%s, check=%v", path, check)
	if check {
		if err := workflow.Check(path, workflow.Options{}); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(path+" is up to date"))
		return nil
	}

	changed, err := workflow.Write(path, workflow.Options{})
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Wrote "+path))
	} else {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage(path+" is already up to date"))
	}
	return nil
}
