package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/jobs"
	"github.com/sevigo/warden-judge/internal/pipeline"
)

var justifyCmd = &cobra.Command{
	Use:   "justify [change-url] [comment...]",
	Short: "Answer a comment on a reviewed change from its stored review",
	Long: `Run the justification pipeline as if the given comment had been posted on the change.

Examples:
  warden-cli justify https://github.com/owner/repo/pull/123 "Why is this a problem?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			return runJustify(cmd.Context(), rt, args[0], strings.Join(args[1:], " "))
		})
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	justifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the justification instead of posting it")
	rootCmd.AddCommand(justifyCmd)
}

func runJustify(ctx context.Context, rt *app.Runtime, url, comment string) error {
	if rt.Models == nil {
		return fmt.Errorf("no model backend available\n\nTip: set GEMINI_API_KEY or LLM_PROVIDER=ollama")
	}

	ref, connector, err := resolveTarget(ctx, rt, url)
	if err != nil {
		return err
	}
	if dryRun {
		connector = printingConnector{Connector: connector, out: os.Stdout}
	}
	engine := pipeline.NewEngine(*rt.Models, rt.Prompts, map[core.Platform]core.Connector{ref.Platform: connector}, rt.Logger)

	state, err := jobs.NewJustifyJob(engine, rt.Services.Store, rt.Logger).Justify(ctx, ref, comment)
	if errors.Is(err, core.ErrNoContext) {
		warnColor.Printf("No stored review for %s. Run 'warden-cli review %s' first.\n", ref, url)
		return nil
	}
	if state != nil {
		printSection("JUSTIFICATION", core.Text(state.JustifiedReview))
		printErrors(state)
	}
	return err
}
