// Package app initializes and orchestrates the main components of the Warden Judge application.
// It wires together the configuration, server, and other services.
package app

import (
	"log/slog"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/server"
)

// App holds the main application components.
type App struct {
	cfg      *config.Config
	services *core.Services
	server   *server.Server
	logger   *slog.Logger
}

// NewApp creates the application and logs which collaborators came up.
func NewApp(cfg *config.Config, services *core.Services, srv *server.Server, logger *slog.Logger) *App {
	logger.Info("Warden Judge initialized",
		"github", services.GitHub != nil,
		"gitlab", services.GitLab != nil,
		"review_workflow", services.Engine != nil,
		"memory", services.Store != nil,
		"reviewer_a_model", cfg.AI.ReviewerAModel,
		"reviewer_b_model", cfg.AI.ReviewerBModel,
		"judge_model", cfg.AI.JudgeModel,
		"justify_model", cfg.AI.JustifyModel,
	)
	return &App{cfg: cfg, services: services, server: srv, logger: logger}
}

// Services exposes the composition root.
func (a *App) Services() *core.Services { return a.services }

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting Warden Judge", "server_port", a.cfg.Server.Port)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly. The database connection is closed
// by the cleanup function returned alongside the App.
func (a *App) Stop() error {
	a.logger.Info("shutting down Warden Judge services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	// Let in-flight runs finish.
	if a.services.Dispatcher != nil {
		a.services.Dispatcher.Stop()
	}

	if serverErr != nil {
		a.logger.Error("Warden Judge stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("Warden Judge stopped successfully")
	return nil
}
