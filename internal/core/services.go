package core

import "context"

// Services is the composition root built once at startup. Any handle may be
// nil when its collaborator failed to initialize; callers check before use.
type Services struct {
	GitHub     Connector
	GitLab     Connector
	Engine     ReviewEngine
	Store      ContextStore
	Dispatcher JobDispatcher
}

// Connector returns the connector for platform, or nil when it is unavailable.
func (s *Services) Connector(platform Platform) Connector {
	if s == nil {
		return nil
	}
	switch platform {
	case PlatformGitHub:
		return s.GitHub
	case PlatformGitLab:
		return s.GitLab
	default:
		return nil
	}
}

// Identified is implemented by connectors that know the account they post as.
type Identified interface {
	BotLogin() string
}

// BotLogin returns the account the platform's connector posts as, or "" when
// it is unknown or the connector is unavailable.
func (s *Services) BotLogin(platform Platform) string {
	if id, ok := s.Connector(platform).(Identified); ok {
		return id.BotLogin()
	}
	return ""
}

// ReadyFor reports whether every collaborator needed to run a review for platform is present.
func (s *Services) ReadyFor(platform Platform) bool {
	return s != nil && s.Connector(platform) != nil && s.Engine != nil && s.Dispatcher != nil
}

// Readiness reports the availability of each collaborator.
type Readiness struct {
	GitHub   bool `json:"github_service"`
	GitLab   bool `json:"gitlab_service"`
	Workflow bool `json:"review_workflow"`
	Memory   bool `json:"memory_service"`
	Database bool `json:"database_connection"`
}

// OK reports whether the service can run reviews and keep context for at least one platform.
func (r Readiness) OK() bool {
	return (r.GitHub || r.GitLab) && r.Workflow && r.Memory && r.Database
}

// Readiness probes every collaborator. The store health check is the only one that does I/O.
func (s *Services) Readiness(ctx context.Context) Readiness {
	if s == nil {
		return Readiness{}
	}
	r := Readiness{
		GitHub:   s.GitHub != nil,
		GitLab:   s.GitLab != nil,
		Workflow: s.Engine != nil,
		Memory:   s.Store != nil,
	}
	if s.Store != nil {
		r.Database = s.Store.Healthy(ctx)
	}
	return r
}
