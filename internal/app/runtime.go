package app

import (
	"log/slog"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/db"
	"github.com/sevigo/warden-judge/internal/github"
	"github.com/sevigo/warden-judge/internal/gitlab"
	"github.com/sevigo/warden-judge/internal/llm"
)

// Runtime exposes the collaborators to the command-line tools, which drive them
// directly instead of through the HTTP server.
type Runtime struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	GitHub   *github.Connector
	GitLab   *gitlab.Connector
	Models   *llm.Models
	Prompts  *llm.PromptSet
	DB       *db.DB
	Services *core.Services
}

// NewRuntime bundles the collaborators built for the command-line tools.
func NewRuntime(cfg *config.Config, logger *slog.Logger, gh *github.Connector, gl *gitlab.Connector,
	models *llm.Models, prompts *llm.PromptSet, conn *db.DB, services *core.Services,
) *Runtime {
	return &Runtime{
		Cfg:      cfg,
		Logger:   logger,
		GitHub:   gh,
		GitLab:   gl,
		Models:   models,
		Prompts:  prompts,
		DB:       conn,
		Services: services,
	}
}
