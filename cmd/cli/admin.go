package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/server/handler"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			if rt.DB == nil {
				return fmt.Errorf("database is not configured or unreachable")
			}
			if err := rt.DB.RunMigrations(); err != nil {
				return err
			}
			version, dirty, err := rt.DB.MigrationVersion()
			if err != nil {
				return err
			}
			successColor.Printf("Schema at version %d (driver %s, dirty=%t)\n", version, rt.DB.Driver(), dirty)
			return nil
		})
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report which collaborators are available",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *app.Runtime) error {
			r := rt.Services.Readiness(cmd.Context())
			titleColor.Println(handler.ServiceName)
			printCheck("github_service", r.GitHub)
			printCheck("gitlab_service", r.GitLab)
			printCheck("review_workflow", r.Workflow)
			printCheck("memory_service", r.Memory)
			printCheck("database_connection", r.Database)
			if !r.OK() {
				warnColor.Println("\nstatus: partial")
				return nil
			}
			successColor.Println("\nstatus: ok")
			return nil
		})
	},
}

func printCheck(name string, ok bool) {
	if ok {
		successColor.Printf("  ✓ %s\n", name)
		return
	}
	errorColor.Printf("  ✗ %s\n", name)
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(migrateCmd, healthCmd)
}
