package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/mocks"
)

type stubEngine struct{}

func (stubEngine) RunReview(context.Context, core.ReviewRequest) *core.ReviewState { return nil }
func (stubEngine) RunJustification(context.Context, core.JustificationRequest) *core.ReviewState {
	return nil
}

func TestServicesReadiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	gl := mocks.NewMockConnector(ctrl)
	store := mocks.NewMockContextStore(ctrl)
	store.EXPECT().Healthy(gomock.Any()).Return(true)

	s := &core.Services{
		GitLab:     gl,
		Engine:     stubEngine{},
		Store:      store,
		Dispatcher: mocks.NewMockJobDispatcher(ctrl),
	}

	r := s.Readiness(context.Background())
	assert.Equal(t, core.Readiness{GitLab: true, Workflow: true, Memory: true, Database: true}, r)
	assert.True(t, r.OK())

	assert.True(t, s.ReadyFor(core.PlatformGitLab))
	assert.False(t, s.ReadyFor(core.PlatformGitHub))
	assert.Nil(t, s.Connector("bitbucket"))
}

func TestServicesNil(t *testing.T) {
	var s *core.Services
	assert.Nil(t, s.Connector(core.PlatformGitHub))
	assert.False(t, s.ReadyFor(core.PlatformGitHub))
	assert.False(t, s.Readiness(context.Background()).OK())
}

func TestReadinessWithoutStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &core.Services{GitHub: mocks.NewMockConnector(ctrl), Engine: stubEngine{}}
	r := s.Readiness(context.Background())
	assert.False(t, r.Memory)
	assert.False(t, r.Database)
	assert.False(t, r.OK())
}

type namedConnector struct {
	core.Connector
	login string
}

func (c namedConnector) BotLogin() string { return c.login }

func TestServicesBotLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &core.Services{
		GitHub: namedConnector{Connector: mocks.NewMockConnector(ctrl), login: "review-bot-account"},
		GitLab: mocks.NewMockConnector(ctrl),
	}

	assert.Equal(t, "review-bot-account", s.BotLogin(core.PlatformGitHub))
	assert.Empty(t, s.BotLogin(core.PlatformGitLab))

	var missing *core.Services
	assert.Empty(t, missing.BotLogin(core.PlatformGitHub))
}
