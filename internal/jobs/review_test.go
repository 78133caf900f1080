package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEngine records the requests it receives and returns canned states.
type fakeEngine struct {
	reviews        []core.ReviewRequest
	justifications []core.JustificationRequest
	reviewFn       func(core.ReviewRequest) *core.ReviewState
	justifyFn      func(core.JustificationRequest) *core.ReviewState
}

func (f *fakeEngine) RunReview(_ context.Context, req core.ReviewRequest) *core.ReviewState {
	f.reviews = append(f.reviews, req)
	if f.reviewFn != nil {
		return f.reviewFn(req)
	}
	state := core.NewReviewState(req)
	state.ReviewA, state.ReviewB, state.JudgeOutput = core.Ptr("a"), core.Ptr("b"), core.Ptr("verdict")
	state.CommentID, state.Posted = 11, true
	return state
}

func (f *fakeEngine) RunJustification(_ context.Context, req core.JustificationRequest) *core.ReviewState {
	f.justifications = append(f.justifications, req)
	if f.justifyFn != nil {
		return f.justifyFn(req)
	}
	state := core.NewJustificationState(req)
	state.JustifiedReview = core.Ptr("justified")
	state.Posted = true
	return state
}

var reviewEvent = &core.ChangeEvent{
	Kind:   core.EventReview,
	Change: core.ChangeRef{Platform: core.PlatformGitHub, ProjectID: 99, Owner: "sfdnas-adm", Repo: "warden-judge", ChangeID: 42},
	Action: "opened",
}

func TestReviewJob_PersistsFinalReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	store := mocks.NewMockContextStore(ctrl)
	engine := &fakeEngine{}

	connector.EXPECT().FetchDiff(gomock.Any(), reviewEvent.Change).Return("--- File: a.go ---\n+x\n", nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rc *core.PersistedContext) error {
		assert.Equal(t, int64(99), rc.ProjectID)
		assert.Equal(t, 42, rc.ChangeID)
		assert.Equal(t, "--- File: a.go ---\n+x\n", rc.DiffText)
		assert.Equal(t, "verdict", rc.FinalReview)
		require.NotNil(t, rc.CommentID)
		assert.Equal(t, int64(11), *rc.CommentID)
		return nil
	})

	job := NewReviewJob(map[core.Platform]core.Connector{core.PlatformGitHub: connector}, engine, store, discardLogger())
	require.NoError(t, job.Run(context.Background(), reviewEvent))
	require.Len(t, engine.reviews, 1)
	assert.Equal(t, reviewEvent.Change, engine.reviews[0].Change())
}

func TestReviewJob_DiffFailureSkipsEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	store := mocks.NewMockContextStore(ctrl)
	engine := &fakeEngine{}

	connector.EXPECT().FetchDiff(gomock.Any(), gomock.Any()).
		Return("", errors.Join(core.ErrDiffUnavailable, errors.New("502 bad gateway")))

	job := NewReviewJob(map[core.Platform]core.Connector{core.PlatformGitHub: connector}, engine, store, discardLogger())
	err := job.Run(context.Background(), reviewEvent)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDiffUnavailable)
	assert.Empty(t, engine.reviews)
}

func TestReviewJob_EmptyDiffSkipsEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	engine := &fakeEngine{}

	connector.EXPECT().FetchDiff(gomock.Any(), gomock.Any()).Return("", nil)

	job := NewReviewJob(map[core.Platform]core.Connector{core.PlatformGitHub: connector}, engine, nil, discardLogger())
	require.NoError(t, job.Run(context.Background(), reviewEvent))
	assert.Empty(t, engine.reviews)
}

func TestReviewJob_JudgeFailureIsNotPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	store := mocks.NewMockContextStore(ctrl)
	engine := &fakeEngine{reviewFn: func(req core.ReviewRequest) *core.ReviewState {
		state := core.NewReviewState(req)
		state.ReviewA, state.ReviewB, state.JudgeOutput = core.Ptr("a"), core.Ptr("b"), core.Ptr("Error: timeout")
		state.AddError(core.StageJudge, errors.New("timeout"))
		return state
	}}

	connector.EXPECT().FetchDiff(gomock.Any(), gomock.Any()).Return("diff", nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	job := NewReviewJob(map[core.Platform]core.Connector{core.PlatformGitHub: connector}, engine, store, discardLogger())
	err := job.Run(context.Background(), reviewEvent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "judge: timeout")
}

func TestReviewJob_PostFailureStillPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	store := mocks.NewMockContextStore(ctrl)
	engine := &fakeEngine{reviewFn: func(req core.ReviewRequest) *core.ReviewState {
		state := core.NewReviewState(req)
		state.ReviewA, state.ReviewB, state.JudgeOutput = core.Ptr("a"), core.Ptr("b"), core.Ptr("verdict")
		state.AddError(core.StagePost, core.ErrCommentNotPosted)
		return state
	}}

	connector.EXPECT().FetchDiff(gomock.Any(), gomock.Any()).Return("diff", nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rc *core.PersistedContext) error {
		assert.Equal(t, "verdict", rc.FinalReview)
		assert.Nil(t, rc.CommentID)
		return nil
	})

	job := NewReviewJob(map[core.Platform]core.Connector{core.PlatformGitHub: connector}, engine, store, discardLogger())
	require.NoError(t, job.Run(context.Background(), reviewEvent))
}

func TestReviewJob_RejectsInvalidEvents(t *testing.T) {
	job := NewReviewJob(nil, &fakeEngine{}, nil, discardLogger())

	tests := []struct {
		name  string
		event *core.ChangeEvent
	}{
		{name: "nil event", event: nil},
		{name: "wrong kind", event: &core.ChangeEvent{Kind: core.EventFeedback, Change: reviewEvent.Change}},
		{name: "zero change", event: &core.ChangeEvent{Kind: core.EventReview, Change: core.ChangeRef{Platform: core.PlatformGitHub, Owner: "o", Repo: "r"}}},
		{name: "gitlab without project", event: &core.ChangeEvent{Kind: core.EventReview, Change: core.ChangeRef{Platform: core.PlatformGitLab, ChangeID: 3}}},
		{name: "no connector", event: reviewEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, job.Run(context.Background(), tt.event))
		})
	}
}
