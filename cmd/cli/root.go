package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/wire"
)

var githubToken string

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "warden-cli",
	Short: "warden-cli is the command-line interface for Warden Judge.",
	Long: `A CLI for running Warden Judge reviews outside the webhook server, inspecting
stored review contexts and checking the health of the configured services.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if githubToken != "" {
			return os.Setenv("GITHUB_TOKEN", githubToken)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (overrides GITHUB_TOKEN)")
}

// withRuntime builds the collaborators, runs fn and releases them.
func withRuntime(ctx context.Context, fn func(rt *app.Runtime) error) error {
	rt, cleanup, err := wire.InitializeRuntime(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w\n\nTip: check your .env file and environment variables", err)
	}
	defer cleanup()
	return fn(rt)
}
