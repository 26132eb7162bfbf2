// Package workflow emits the GitHub Actions workflow that refreshes the
// tracker SVGs when a dispatch event arrives.
package workflow

import (
	"fmt"
	"strings"

	"github.com/gittracker/git-tracker/pkg/logger"
)

var workflowLog = logger.New("workflow:workflow")

// DefaultPath is where the workflow lives inside the tracker repository.
const DefaultPath = ".github/workflows/update-tracker.yml"

// actionPins are the action references used by generated steps.
var actionPins = map[string]string{
	"actions/checkout": "actions/checkout@v5",
	"actions/setup-go": "actions/setup-go@v6",
}

// Options controls the generated workflow. Zero values take defaults.
type Options struct {
	// EventType is the repository_dispatch type that triggers a run.
	EventType string
	RunsOn    string
	// Command is the shell line that regenerates and pushes the SVGs.
	Command string
}

func (o Options) withDefaults() Options {
	if o.EventType == "" {
		o.EventType = "update-tracker"
	}
	if o.RunsOn == "" {
		o.RunsOn = "ubuntu-latest"
	}
	if o.Command == "" {
		o.Command = "go run ./cmd/git-tracker update"
	}
	return o
}

// Generate renders the workflow YAML. Output is deterministic so that it can
// be compared byte for byte against the committed file.
func Generate(opts Options) []byte {
	opts = opts.withDefaults()
	workflowLog.Printf("Generating workflow: event_type=%s, runs_on=%s", opts.EventType, opts.RunsOn)

	var yaml strings.Builder
	yaml.WriteString("# Code generated by git-tracker workflow. DO NOT EDIT.\n")
	yaml.WriteString("# Regenerate with: git-tracker workflow\n")
	yaml.WriteString("name: Update tracker\n\n")

	yaml.WriteString("on:\n")
	yaml.WriteString("  repository_dispatch:\n")
	fmt.Fprintf(&yaml, "    types: [%s]\n", opts.EventType)
	yaml.WriteString("  workflow_dispatch:\n\n")

	yaml.WriteString("permissions:\n")
	yaml.WriteString("  contents: write\n\n")

	// Runs for the same tracker queue up instead of racing each other's push.
	yaml.WriteString("concurrency:\n")
	fmt.Fprintf(&yaml, "  group: %s\n", opts.EventType)
	yaml.WriteString("  cancel-in-progress: false\n\n")

	yaml.WriteString("jobs:\n")
	yaml.WriteString("  update:\n")
	fmt.Fprintf(&yaml, "    runs-on: %s\n", opts.RunsOn)
	yaml.WriteString("    steps:\n")
	generateCheckoutStep(&yaml)
	generateSetupGoStep(&yaml)
	generateUpdateStep(&yaml, opts.Command)

	return []byte(yaml.String())
}

func generateCheckoutStep(yaml *strings.Builder) {
	yaml.WriteString("      - name: Checkout\n")
	fmt.Fprintf(yaml, "        uses: %s\n", actionPins["actions/checkout"])
}

func generateSetupGoStep(yaml *strings.Builder) {
	yaml.WriteString("      - name: Set up Go\n")
	fmt.Fprintf(yaml, "        uses: %s\n", actionPins["actions/setup-go"])
	yaml.WriteString("        with:\n")
	yaml.WriteString("          go-version-file: go.mod\n")
}

func generateUpdateStep(yaml *strings.Builder, command string) {
	yaml.WriteString("      - name: Update tracker SVGs\n")
	fmt.Fprintf(yaml, "        run: %s\n", command)
	yaml.WriteString("        env:\n")
	yaml.WriteString("          GH_PAT: ${{ secrets.GH_PAT }}\n")
	yaml.WriteString("          USERNAME: ${{ github.repository_owner }}\n")
}
