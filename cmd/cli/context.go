package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/warden-judge/internal/app"
)

var (
	outputJSON bool
	listLimit  int
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Inspect stored review contexts",
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recently updated review contexts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			if rt.Services.Store == nil {
				return fmt.Errorf("database is not configured")
			}
			contexts, err := rt.Services.Store.List(cmd.Context(), listLimit)
			if err != nil {
				return fmt.Errorf("failed to retrieve review contexts: %w", err)
			}

			if outputJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(contexts)
			}
			if len(contexts) == 0 {
				dimColor.Println("No review contexts stored yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PROJECT\tCHANGE\tDIFF\tREVIEW\tCOMMENT\tUPDATED")
			for _, rc := range contexts {
				comment := "-"
				if rc.CommentID != nil {
					comment = strconv.FormatInt(*rc.CommentID, 10)
				}
				fmt.Fprintf(w, "%d\t%d\t%d chars\t%d chars\t%s\t%s\n",
					rc.ProjectID, rc.ChangeID, len(rc.DiffText), len(rc.FinalReview), comment,
					rc.UpdatedAt.Format(time.RFC822))
			}
			return w.Flush()
		})
	},
}

var contextShowCmd = &cobra.Command{
	Use:   "show [project-id] [change-id]",
	Short: "Print the stored diff and final review of one change",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project ID %q: %w", args[0], err)
		}
		changeID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid change ID %q: %w", args[1], err)
		}

		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			if rt.Services.Store == nil {
				return fmt.Errorf("database is not configured")
			}
			rc, err := rt.Services.Store.Load(cmd.Context(), projectID, changeID)
			if err != nil {
				return err
			}
			if outputJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(rc)
			}

			boldColor.Printf("Project %d, change %d\n", rc.ProjectID, rc.ChangeID)
			dimColor.Printf("Created %s, updated %s\n", rc.CreatedAt.Format(time.RFC822), rc.UpdatedAt.Format(time.RFC822))
			printSection("FINAL REVIEW", rc.FinalReview)
			printSection("DIFF", "```diff\n"+rc.DiffText+"\n```")
			return nil
		})
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	contextCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	contextListCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of contexts to list")
	contextCmd.AddCommand(contextListCmd, contextShowCmd)
	rootCmd.AddCommand(contextCmd)
}
