//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/server"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		app.NewGitHubConnector,
		app.NewGitLabConnector,
		app.Connectors,
		app.NewDatabase,
		app.NewContextStore,
		app.NewModels,
		app.NewPromptSet,
		app.NewEngine,
		app.NewDispatcher,
		app.NewServices,
		provideLoggerConfig,
		provideLogWriter,
		provideSlogLogger,
	)
	return &app.App{}, nil, nil
}

func InitializeRuntime(ctx context.Context) (*app.Runtime, func(), error) {
	wire.Build(
		app.NewRuntime,
		config.LoadConfig,
		app.NewGitHubConnector,
		app.NewGitLabConnector,
		app.Connectors,
		app.NewDatabase,
		app.NewContextStore,
		app.NewModels,
		app.NewPromptSet,
		app.NewEngine,
		app.NewDispatcher,
		app.NewServices,
		provideLoggerConfig,
		provideLogWriter,
		provideSlogLogger,
	)
	return &app.Runtime{}, nil, nil
}
