package tracker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/gitrepo"
	"github.com/gittracker/git-tracker/pkg/logger"
)

var pipelineLog = logger.New("tracker:pipeline")

// CommitMessage is the message of every tracker update commit.
const CommitMessage = "🔄 Update tracker SVGs"

// ArtifactGenerator produces the tracker files.
type ArtifactGenerator interface {
	Generate(ctx context.Context) ([]Artifact, Summary, error)
}

// Committer is the slice of git the pipeline needs.
type Committer interface {
	Stage(ctx context.Context, paths ...string) error
	HasStagedChanges(ctx context.Context) (bool, error)
	StagedFiles(ctx context.Context) ([]string, error)
	Unstage(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string, id gitrepo.Identity) (string, error)
	Push(ctx context.Context) error
}

// Result describes what a pipeline run did.
type Result struct {
	Summary   Summary
	Changed   bool
	Committed bool
	Pushed    bool
	SHA       string
}

// Pipeline regenerates the trackers and commits them only if they changed.
type Pipeline struct {
	Generator ArtifactGenerator
	Repo      Committer
	// OutputDir locates the artifacts checked after generation.
	OutputDir string
	Out       io.Writer

	// DryRun stops after the diff check, lists what would be committed and
	// restores the index.
	DryRun bool
	// NoPush commits without pushing.
	NoPush bool
}

// Run executes generate, verify, stage, diff, commit, push in order and
// stops at the first failure. No staged difference is a successful no-op.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	var res Result

	pipelineLog.Print("Running generation step")
	_, summary, err := p.Generator.Generate(ctx)
	if err != nil {
		fmt.Fprintln(p.Out, console.FormatErrorMessage(fmt.Sprintf("ERROR: tracker generation failed: %v", err)))
		// Report which files are absent; the generation error stays the cause.
		_ = VerifyArtifacts(Artifacts(p.OutputDir), p.Out)
		return res, fmt.Errorf("generation failed: %w", err)
	}
	res.Summary = summary

	// Check the fixed paths rather than what the generator reported.
	artifacts := Artifacts(p.OutputDir)
	if err := VerifyArtifacts(artifacts, p.Out); err != nil {
		return res, err
	}

	paths := Paths(artifacts)
	pipelineLog.Printf("Staging %s", strings.Join(paths, ", "))
	if err := p.Repo.Stage(ctx, paths...); err != nil {
		return res, err
	}

	changed, err := p.Repo.HasStagedChanges(ctx)
	if err != nil {
		return res, err
	}
	if !changed {
		fmt.Fprintln(p.Out, console.FormatInfoMessage("No changes to commit"))
		return res, nil
	}
	res.Changed = true

	if p.DryRun {
		return res, p.reportDryRun(ctx, paths)
	}

	sha, err := p.Repo.Commit(ctx, CommitMessage, gitrepo.BotIdentity)
	if err != nil {
		return res, err
	}
	res.Committed, res.SHA = true, sha
	fmt.Fprintln(p.Out, console.FormatSuccessMessage(fmt.Sprintf("Committed %s (%s)", CommitMessage, shortSHA(sha))))

	if p.NoPush {
		fmt.Fprintln(p.Out, console.FormatInfoMessage("Skipping push"))
		return res, nil
	}
	if err := p.Repo.Push(ctx); err != nil {
		return res, err
	}
	res.Pushed = true
	fmt.Fprintln(p.Out, console.FormatSuccessMessage("Pushed tracker update"))
	return res, nil
}

// reportDryRun prints the files a real run would commit, then unstages them
// so the caller's index is left as it was.
func (p *Pipeline) reportDryRun(ctx context.Context, paths []string) error {
	files, err := p.Repo.StagedFiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.Out, console.FormatInfoMessage("Dry run: would commit "+CommitMessage+" with:"))
	for _, f := range files {
		fmt.Fprintln(p.Out, console.FormatListItem(f))
	}
	pipelineLog.Printf("Dry run: unstaging %s", strings.Join(paths, ", "))
	return p.Repo.Unstage(ctx, paths...)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
