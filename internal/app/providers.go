package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/db"
	"github.com/sevigo/warden-judge/internal/github"
	"github.com/sevigo/warden-judge/internal/gitlab"
	"github.com/sevigo/warden-judge/internal/jobs"
	"github.com/sevigo/warden-judge/internal/llm"
	"github.com/sevigo/warden-judge/internal/logger"
	"github.com/sevigo/warden-judge/internal/pipeline"
	"github.com/sevigo/warden-judge/internal/storage"
)

// The providers below never fail on missing credentials or unreachable
// backends: the collaborator is returned as nil and the failure is logged, so
// the process keeps serving what it can.

// NewGitHubConnector returns nil when GitHub is not configured.
func NewGitHubConnector(ctx context.Context, cfg *config.Config, log *slog.Logger) *github.Connector {
	if !cfg.GitHub.HasCredentials() {
		log.Warn("GitHub credentials not configured, GitHub flavor disabled")
		return nil
	}
	client, err := github.NewClientFromConfig(ctx, cfg.GitHub, cfg.Server.HTTPTimeout, log)
	if err != nil {
		log.Error("failed to initialize GitHub service", "error", err)
		return nil
	}
	connector := github.NewConnector(client, log)
	connector.ResolveIdentity(ctx, cfg.GitHub.BotLogin)
	return connector
}

// NewGitLabConnector returns nil when GitLab is not configured.
func NewGitLabConnector(ctx context.Context, cfg *config.Config, log *slog.Logger) *gitlab.Connector {
	if !cfg.GitLab.HasCredentials() {
		log.Warn("GitLab credentials not configured, GitLab flavor disabled")
		return nil
	}
	log.Info("GitLab token configured", "url", cfg.GitLab.URL, "token_preview", logger.MaskSecret(cfg.GitLab.Token))
	client, err := gitlab.NewClient(cfg.GitLab.URL, cfg.GitLab.Token, cfg.Server.HTTPTimeout, log)
	if err != nil {
		log.Error("failed to initialize GitLab service", "error", err)
		return nil
	}
	connector := gitlab.NewConnector(client, cfg.GitLab.AllowedProjectID, log)
	connector.ResolveIdentity(ctx, cfg.GitLab.BotUsername)
	return connector
}

// Connectors indexes the available connectors by platform.
func Connectors(gh *github.Connector, gl *gitlab.Connector) map[core.Platform]core.Connector {
	connectors := make(map[core.Platform]core.Connector, 2)
	if gh != nil {
		connectors[core.PlatformGitHub] = gh
	}
	if gl != nil {
		connectors[core.PlatformGitLab] = gl
	}
	return connectors
}

// NewDatabase opens the configured database with bounded retries. It returns a
// nil connection when storage is not configured or never became reachable.
func NewDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) (*db.DB, func()) {
	if !cfg.Database.Configured() {
		log.Warn("database not configured, review contexts will not be persisted")
		return nil, func() {}
	}
	conn, err := db.OpenWithRetry(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		return nil, func() {}
	}
	return conn, func() {
		if err := conn.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}
}

// NewContextStore returns nil when storage is not configured. A configured store
// whose initialization failed is returned uninitialized so that it reports
// itself unhealthy instead of disappearing.
func NewContextStore(cfg *config.Config, conn *db.DB) core.ContextStore {
	if conn != nil {
		return storage.NewStore(conn.DB, cfg.Database.QueryTimeout)
	}
	if cfg.Database.Configured() {
		return storage.NewStore(nil, cfg.Database.QueryTimeout)
	}
	return nil
}

// NewModels returns nil when the model backend cannot be reached.
func NewModels(ctx context.Context, cfg *config.Config, log *slog.Logger) *llm.Models {
	if !cfg.AI.HasCredentials() {
		log.Warn("model backend not configured", "provider", cfg.AI.Provider)
		return nil
	}
	if cfg.AI.Provider == config.ProviderGemini {
		log.Info("Gemini API key configured", "api_key_preview", logger.MaskSecret(cfg.AI.GeminiAPIKey))
	}
	models, err := llm.NewModels(ctx, cfg.AI, log)
	if err != nil {
		log.Error("failed to initialize review models", "error", err)
		return nil
	}
	return models
}

// NewPromptSet loads the embedded prompts and the optional override file.
func NewPromptSet(cfg *config.Config) (*llm.PromptSet, error) {
	return llm.LoadPromptSet(cfg.AI.PromptsFile)
}

// NewEngine returns nil when no models are available.
func NewEngine(cfg *config.Config, models *llm.Models, prompts *llm.PromptSet, connectors map[core.Platform]core.Connector, log *slog.Logger) *pipeline.Engine {
	if models == nil {
		log.Warn("review workflow disabled: no models available")
		return nil
	}
	return pipeline.NewEngine(*models, prompts, connectors, log,
		pipeline.WithConcurrentReviewers(cfg.Pipeline.ConcurrentReviewers))
}

// NewDispatcher returns nil when there is no engine to run jobs on.
func NewDispatcher(cfg *config.Config, connectors map[core.Platform]core.Connector, engine *pipeline.Engine, store core.ContextStore, log *slog.Logger) core.JobDispatcher {
	if engine == nil {
		return nil
	}
	return jobs.NewDispatcher(
		jobs.NewReviewJob(connectors, engine, store, log),
		jobs.NewJustifyJob(engine, store, log),
		cfg.Pipeline.MaxConcurrentRuns,
		log,
	)
}

// NewServices assembles the composition root. Nil collaborators stay nil
// interface values.
func NewServices(gh *github.Connector, gl *gitlab.Connector, engine *pipeline.Engine, store core.ContextStore, dispatcher core.JobDispatcher) *core.Services {
	s := &core.Services{Store: store, Dispatcher: dispatcher}
	if gh != nil {
		s.GitHub = gh
	}
	if gl != nil {
		s.GitLab = gl
	}
	if engine != nil {
		s.Engine = engine
	}
	return s
}
