package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/logger"
)

// NewPATClient creates a GitHub client authenticated with a Personal Access Token (PAT).
// Every request made through it is bounded by timeout.
func NewPATClient(ctx context.Context, token string, timeout time.Duration, log *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout
	return NewGitHubClient(github.NewClient(tc), log)
}

// NewInstallationClient creates a GitHub client authenticated as a GitHub App
// installation. ghinstallation refreshes the installation token as it expires.
func NewInstallationClient(cfg config.GitHubConfig, timeout time.Duration, log *slog.Logger) (Client, error) {
	tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App installation transport: %w", err)
	}
	return NewGitHubClient(github.NewClient(&http.Client{Transport: tr, Timeout: timeout}), log), nil
}

// NewClientFromConfig picks the configured authentication method. A personal access
// token takes precedence over App credentials.
func NewClientFromConfig(ctx context.Context, cfg config.GitHubConfig, timeout time.Duration, log *slog.Logger) (Client, error) {
	switch {
	case cfg.HasToken():
		log.Info("GitHub token configured", "token_preview", logger.MaskSecret(cfg.Token))
		return NewPATClient(ctx, cfg.Token, timeout, log), nil
	case cfg.HasApp():
		log.Info("GitHub App configured", "app_id", cfg.AppID, "installation_id", cfg.InstallationID)
		return NewInstallationClient(cfg, timeout, log)
	default:
		return nil, fmt.Errorf("GITHUB_TOKEN or GITHUB_APP_ID, GITHUB_INSTALLATION_ID and GITHUB_PRIVATE_KEY_PATH must be set")
	}
}
