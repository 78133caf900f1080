package wire

import (
	"io"
	"log/slog"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/logger"
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logger
}

// provideLogWriter returns nil so that the logger opens cfg.Logger.Output itself.
func provideLogWriter() io.Writer {
	return nil
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}
