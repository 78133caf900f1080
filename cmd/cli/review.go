package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/jobs"
	"github.com/sevigo/warden-judge/internal/pipeline"
)

var (
	dryRun  bool
	verbose bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [change-url]",
	Short: "Run the review pipeline for a pull request or merge request now",
	Long: `Run the review pipeline for a GitHub pull request or GitLab merge request.

The diff is fetched from the platform, reviewed by both reviewer models,
synthesized by the judge and posted as a comment. The final review is stored
so that later comments can be answered.

Examples:
  warden-cli review https://github.com/owner/repo/pull/123
  warden-cli review --dry-run https://gitlab.com/group/project/-/merge_requests/7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			return runReview(cmd.Context(), rt, args[0])
		})
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the review instead of posting or storing it")
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print both reviewer outputs")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(ctx context.Context, rt *app.Runtime, url string) error {
	if rt.Models == nil {
		return fmt.Errorf("no model backend available\n\nTip: set GEMINI_API_KEY or LLM_PROVIDER=ollama")
	}

	titleColor.Println("Warden Judge - Review")
	dimColor.Printf("   Target: %s\n\n", url)

	ref, connector, err := resolveTarget(ctx, rt, url)
	if err != nil {
		return err
	}

	store := rt.Services.Store
	if dryRun {
		connector = printingConnector{Connector: connector, out: os.Stdout}
		store = nil
	}
	connectors := map[core.Platform]core.Connector{ref.Platform: connector}
	engine := pipeline.NewEngine(*rt.Models, rt.Prompts, connectors, rt.Logger,
		pipeline.WithConcurrentReviewers(rt.Cfg.Pipeline.ConcurrentReviewers))

	start := time.Now()
	state, err := jobs.NewReviewJob(connectors, engine, store, rt.Logger).Review(ctx, ref)
	if state == nil && err == nil {
		warnColor.Println("Nothing to review: the change has no file patches.")
		return nil
	}
	if state != nil {
		if verbose {
			printSection("REVIEWER A", core.Text(state.ReviewA))
			printSection("REVIEWER B", core.Text(state.ReviewB))
		}
		printSection("FINAL REVIEW", core.Text(state.JudgeOutput))
		printErrors(state)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	switch {
	case dryRun:
		successColor.Printf("Dry run finished in %s\n", time.Since(start).Round(time.Millisecond))
	case state.Posted:
		successColor.Printf("Posted comment %d on %s in %s\n", state.CommentID, ref, time.Since(start).Round(time.Millisecond))
	default:
		warnColor.Printf("Review stored but not posted on %s\n", ref)
	}
	return nil
}
