package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/tracker"
)

var generateLog = logger.New("cli:generate_command")

// GenerateOptions are the flags shared by generate and update.
type GenerateOptions struct {
	OutputDir string
	Pages     int
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var opts GenerateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the light and dark activity tracker SVGs",
		Long: `Fetch the public events of USERNAME and render tracker-light.svg and
tracker-dark.svg, one line per event type ordered by count.

Nothing is committed. Use 'git-tracker update' to regenerate and publish.

Examples:
  git-tracker generate                       # Write both SVGs to the current directory
  git-tracker generate --output-dir assets   # Write them to ./assets
  git-tracker generate --pages 3             # Summarize up to 300 recent events`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := applyGenerateFlags(cmd, cfg, opts); err != nil {
				return err
			}
			return RunGenerate(cmd.Context(), cfg)
		},
	}
	addGenerateFlags(cmd, &opts)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *GenerateOptions) {
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "Directory the SVGs are written to (default GIT_TRACKER_OUTPUT_DIR or .)")
	cmd.Flags().IntVar(&opts.Pages, "pages", 0, "Pages of 100 public events to fetch, 1-3 (default GIT_TRACKER_EVENT_PAGES or 1)")
}

const (
	minEventPages = 1
	maxEventPages = 3
)

// applyGenerateFlags lets explicitly set flags override the environment.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config, opts GenerateOptions) error {
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = opts.OutputDir
	}
	if cmd.Flags().Changed("pages") {
		if opts.Pages < minEventPages || opts.Pages > maxEventPages {
			return fmt.Errorf("--pages value %d is out of bounds (must be %d-%d)", opts.Pages, minEventPages, maxEventPages)
		}
		cfg.EventPages = opts.Pages
	}
	return nil
}

// newGenerator builds the tracker generator for cfg.
func newGenerator(cfg *config.Config) (*tracker.Generator, error) {
	if err := cfg.RequireUsername(); err != nil {
		return nil, err
	}
	client, err := authedClient(cfg)
	if err != nil {
		return nil, err
	}
	return &tracker.Generator{
		Source:    client,
		Username:  cfg.Username,
		Pages:     cfg.EventPages,
		OutputDir: cfg.OutputDir,
	}, nil
}

// spinnerGenerator shows progress while the events are fetched and rendered.
type spinnerGenerator struct {
	inner tracker.ArtifactGenerator
}

func (g spinnerGenerator) Generate(ctx context.Context) ([]tracker.Artifact, tracker.Summary, error) {
	type output struct {
		artifacts []tracker.Artifact
		summary   tracker.Summary
	}
	out, err := withSpinner("Fetching public events...", func() (output, error) {
		artifacts, summary, err := g.inner.Generate(ctx)
		return output{artifacts, summary}, err
	})
	return out.artifacts, out.summary, err
}

// RunGenerate renders both SVGs without touching git.
func RunGenerate(ctx context.Context, cfg *config.Config) error {
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	artifacts, summary, err := spinnerGenerator{inner: gen}.Generate(ctx)
	if err != nil {
		return fmt.Errorf("tracker generation failed: %w", err)
	}
	generateLog.Printf("Generated %d artifacts from %d events", len(artifacts), summary.Total())

	fmt.Fprintln(os.Stderr, console.FormatInfoMessage(fmt.Sprintf("Summarized %d events across %d types for %s", summary.Total(), len(summary), cfg.Username)))
	for _, a := range artifacts {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Wrote "+a.Path))
	}
	return nil
}
