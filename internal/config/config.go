package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/warden-judge/internal/logger"
)

const (
	DefaultModel    = "gemini-2.0-flash-exp"
	ProviderGemini  = "gemini"
	ProviderOllama  = "ollama"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	defaultEnvFile  = ".env"
	defaultDBName   = "reviewbot"
	defaultAppTitle = "Warden Judge"
)

// Config holds the application's configuration values.
type Config struct {
	AppName  string
	Server   ServerConfig
	Logger   logger.Config
	GitHub   GitHubConfig
	GitLab   GitLabConfig
	AI       AIConfig
	Database DBConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP ingress settings.
type ServerConfig struct {
	Port        string
	HTTPTimeout time.Duration
}

// GitHubConfig holds the GitHub flavor credentials and allow-list.
type GitHubConfig struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
	Owner          string
	Repo           string
	WebhookSecret  string
	BotLogin       string
}

// HasToken reports whether a personal access token is configured.
func (c GitHubConfig) HasToken() bool { return c.Token != "" }

// HasApp reports whether GitHub App installation credentials are configured.
func (c GitHubConfig) HasApp() bool {
	return c.AppID > 0 && c.InstallationID > 0 && c.PrivateKeyPath != ""
}

// HasCredentials reports whether any GitHub credential is configured.
func (c GitHubConfig) HasCredentials() bool { return c.HasToken() || c.HasApp() }

// Allowed reports whether owner/repo is the allow-listed repository.
func (c GitHubConfig) Allowed(owner, repo string) bool {
	return strings.EqualFold(owner, c.Owner) && strings.EqualFold(repo, c.Repo)
}

// GitLabConfig holds the GitLab flavor credentials and allow-list.
type GitLabConfig struct {
	URL              string
	Token            string
	AllowedProjectID int64
	WebhookSecret    string
	BotUsername      string
}

// HasCredentials reports whether a GitLab token is configured.
func (c GitLabConfig) HasCredentials() bool { return c.Token != "" }

// Allowed reports whether projectID is the allow-listed project.
func (c GitLabConfig) Allowed(projectID int64) bool {
	return c.AllowedProjectID > 0 && projectID == c.AllowedProjectID
}

// AIConfig holds model backend settings. Each stage may run on its own model.
type AIConfig struct {
	Provider       string
	GeminiAPIKey   string
	OllamaHost     string
	ReviewerAModel string
	ReviewerBModel string
	JudgeModel     string
	JustifyModel   string
	Timeout        time.Duration
	PromptsFile    string
}

// HasCredentials reports whether the configured provider can be reached.
func (c AIConfig) HasCredentials() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	case ProviderOllama:
		return c.OllamaHost != ""
	default:
		return false
	}
}

// DBConfig holds context store settings.
type DBConfig struct {
	Driver       string
	URL          string
	Host         string
	Port         int
	Name         string
	User         string
	Password     string
	SSLMode      string
	Path         string
	InitAttempts int
	InitDelay    time.Duration
	QueryTimeout time.Duration
}

// Configured reports whether any storage was configured. Without it the
// service runs without feedback-loop support.
func (c DBConfig) Configured() bool {
	if c.Driver == DriverSQLite {
		return c.Path != ""
	}
	return c.URL != "" || c.Host != ""
}

// DSN returns the driver-specific data source name.
func (c DBConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// PipelineConfig holds run scheduling settings.
type PipelineConfig struct {
	ConcurrentReviewers bool
	MaxConcurrentRuns   int
}

// LoadConfig reads configuration from environment variables and an optional .env
// file and applies defaults. Missing credentials never fail loading; they leave
// the matching collaborator unavailable.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(defaultEnvFile); err == nil {
		v.SetConfigFile(defaultEnvFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			slog.Error("failed to read config file", "file", defaultEnvFile, "error", err)
		}
	}
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("GITHUB_OWNER", "sfdnas-adm")
	v.SetDefault("GITHUB_REPO", "-Agentic-AI_Multi-User")

	v.SetDefault("GITLAB_URL", "https://gitlab.com")
	v.SetDefault("ALLOWED_PROJECT_ID", 0)

	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("REVIEWER_A_MODEL", DefaultModel)
	v.SetDefault("REVIEWER_B_MODEL", DefaultModel)
	v.SetDefault("JUDGE_MODEL", DefaultModel)
	v.SetDefault("LLM_TIMEOUT", "3m")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", defaultDBName)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_INIT_ATTEMPTS", 5)
	v.SetDefault("DB_INIT_DELAY", "3s")
	v.SetDefault("DB_QUERY_TIMEOUT", "10s")

	v.SetDefault("REVIEWERS_CONCURRENT", false)
	v.SetDefault("MAX_CONCURRENT_RUNS", 0)
}

func fromViper(v *viper.Viper) *Config {
	port := v.GetString("SERVER_PORT")
	if p := v.GetString("PORT"); p != "" {
		port = p
	}

	judgeModel := v.GetString("JUDGE_MODEL")
	justifyModel := v.GetString("JUSTIFY_MODEL")
	if justifyModel == "" {
		justifyModel = judgeModel
	}

	return &Config{
		AppName: defaultAppTitle,
		Server: ServerConfig{
			Port:        port,
			HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),
		},
		Logger: logger.Config{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		GitHub: GitHubConfig{
			Token:          v.GetString("GITHUB_TOKEN"),
			AppID:          v.GetInt64("GITHUB_APP_ID"),
			InstallationID: v.GetInt64("GITHUB_INSTALLATION_ID"),
			PrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
			Owner:          v.GetString("GITHUB_OWNER"),
			Repo:           v.GetString("GITHUB_REPO"),
			WebhookSecret:  v.GetString("GITHUB_WEBHOOK_SECRET"),
			BotLogin:       v.GetString("GITHUB_BOT_LOGIN"),
		},
		GitLab: GitLabConfig{
			URL:              v.GetString("GITLAB_URL"),
			Token:            v.GetString("GITLAB_TOKEN"),
			AllowedProjectID: v.GetInt64("ALLOWED_PROJECT_ID"),
			WebhookSecret:    v.GetString("GITLAB_WEBHOOK_SECRET"),
			BotUsername:      v.GetString("GITLAB_BOT_USERNAME"),
		},
		AI: AIConfig{
			Provider:       strings.ToLower(v.GetString("LLM_PROVIDER")),
			GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
			OllamaHost:     v.GetString("OLLAMA_HOST"),
			ReviewerAModel: v.GetString("REVIEWER_A_MODEL"),
			ReviewerBModel: v.GetString("REVIEWER_B_MODEL"),
			JudgeModel:     judgeModel,
			JustifyModel:   justifyModel,
			Timeout:        v.GetDuration("LLM_TIMEOUT"),
			PromptsFile:    v.GetString("PROMPTS_FILE"),
		},
		Database: DBConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			URL:          v.GetString("DATABASE_URL"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			Path:         v.GetString("DB_PATH"),
			InitAttempts: v.GetInt("DB_INIT_ATTEMPTS"),
			InitDelay:    v.GetDuration("DB_INIT_DELAY"),
			QueryTimeout: v.GetDuration("DB_QUERY_TIMEOUT"),
		},
		Pipeline: PipelineConfig{
			ConcurrentReviewers: v.GetBool("REVIEWERS_CONCURRENT"),
			MaxConcurrentRuns:   v.GetInt("MAX_CONCURRENT_RUNS"),
		},
	}
}

// Validate rejects values that cannot be interpreted at all. Credentials are
// not checked here.
func (c *Config) Validate() error {
	var errs []error
	switch c.AI.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q", c.AI.Provider))
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Database.InitAttempts < 1 {
		errs = append(errs, fmt.Errorf("DB_INIT_ATTEMPTS must be at least 1, got %d", c.Database.InitAttempts))
	}
	if c.Pipeline.MaxConcurrentRuns < 0 {
		errs = append(errs, fmt.Errorf("MAX_CONCURRENT_RUNS must not be negative, got %d", c.Pipeline.MaxConcurrentRuns))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT must not be empty"))
	}
	return errors.Join(errs...)
}
