package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/llm"
	"github.com/sevigo/warden-judge/internal/mocks"
)

const sampleDiff = "--- File: main.go ---\n@@ -1 +1 @@\n-a\n+b\n"

var sampleChange = core.ChangeRef{Platform: core.PlatformGitLab, ProjectID: 8462, ChangeID: 42}

type fixture struct {
	reviewerA *mocks.MockLLMClient
	reviewerB *mocks.MockLLMClient
	judge     *mocks.MockLLMClient
	justify   *mocks.MockLLMClient
	connector *mocks.MockConnector
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	return &fixture{
		reviewerA: mocks.NewMockLLMClient(ctrl),
		reviewerB: mocks.NewMockLLMClient(ctrl),
		judge:     mocks.NewMockLLMClient(ctrl),
		justify:   mocks.NewMockLLMClient(ctrl),
		connector: mocks.NewMockConnector(ctrl),
	}
}

func (f *fixture) engine(opts ...Option) *Engine {
	models := llm.Models{ReviewerA: f.reviewerA, ReviewerB: f.reviewerB, Judge: f.judge, Justify: f.justify}
	prompts := llm.NewPromptSet(map[llm.PromptKey]string{
		llm.ReviewerAPrompt: "SYS_A",
		llm.ReviewerBPrompt: "SYS_B",
		llm.JudgePrompt:     "SYS_JUDGE",
		llm.JustifyPrompt:   "SYS_JUSTIFY",
	})
	connectors := map[core.Platform]core.Connector{core.PlatformGitLab: f.connector}
	return NewEngine(models, prompts, connectors, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

func text(s string) llm.Response { return llm.Response{Kind: llm.KindText, Raw: s} }

func TestRunReview_HappyPath(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.reviewerA.EXPECT().Complete(gomock.Any(), "SYS_A", llm.ReviewerInput(sampleDiff)).Return(text("A: no injection risk")),
		f.reviewerB.EXPECT().Complete(gomock.Any(), "SYS_B", llm.ReviewerInput(sampleDiff)).Return(text("B: naming is fine")),
		f.judge.EXPECT().Complete(gomock.Any(), "SYS_JUDGE", gomock.Any()).DoAndReturn(
			func(_ context.Context, _, input string) llm.Response {
				assert.Contains(t, input, "A: no injection risk")
				assert.Contains(t, input, "B: naming is fine")
				assert.Contains(t, input, sampleDiff)
				return text("Final: approve")
			}),
		f.connector.EXPECT().PostComment(gomock.Any(), sampleChange, "Final: approve").Return(int64(1001), nil),
	)

	state := f.engine().RunReview(context.Background(), core.NewReviewRequest(sampleChange, sampleDiff))

	require.NotNil(t, state.ReviewA)
	require.NotNil(t, state.ReviewB)
	require.NotNil(t, state.JudgeOutput)
	assert.Equal(t, "A: no injection risk", *state.ReviewA)
	assert.Equal(t, "B: naming is fine", *state.ReviewB)
	assert.Equal(t, "Final: approve", *state.JudgeOutput)
	assert.True(t, state.Posted)
	assert.Equal(t, int64(1001), state.CommentID)
	assert.Empty(t, state.Errors)
}

func TestRunReview_EmptyDiffMakesNoModelCalls(t *testing.T) {
	for _, diff := range []string{"", "   \n\t"} {
		f := newFixture(t)
		state := f.engine().RunReview(context.Background(), core.NewReviewRequest(sampleChange, diff))

		assert.Nil(t, state.ReviewA)
		assert.Nil(t, state.ReviewB)
		assert.Nil(t, state.JudgeOutput)
		assert.False(t, state.Posted)
		require.Len(t, state.Errors, 1)
		assert.Equal(t, core.StagePrecondition, state.Errors[0].Stage)
	}
}

func TestRunReview_ReviewerFailureStillReachesJudge(t *testing.T) {
	f := newFixture(t)
	f.reviewerA.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(llm.Failed(errors.New("quota exceeded")))
	f.reviewerB.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("B ok"))
	f.judge.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _, input string) llm.Response {
			assert.Contains(t, input, "Error: quota exceeded")
			return text("judged")
		})
	f.connector.EXPECT().PostComment(gomock.Any(), sampleChange, "judged").Return(int64(7), nil)

	state := f.engine().RunReview(context.Background(), core.NewReviewRequest(sampleChange, sampleDiff))

	assert.Equal(t, "Error: quota exceeded", core.Text(state.ReviewA))
	assert.Equal(t, []string{"reviewer_a: quota exceeded"}, state.ErrorMessages())
	assert.True(t, state.Posted)
}

func TestRunReview_JudgeFailureDoesNotPost(t *testing.T) {
	f := newFixture(t)
	f.reviewerA.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("A"))
	f.reviewerB.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("B"))
	f.judge.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(llm.Failed(errors.New("timeout")))
	f.connector.EXPECT().PostComment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	state := f.engine().RunReview(context.Background(), core.NewReviewRequest(sampleChange, sampleDiff))

	assert.Equal(t, "Error: timeout", core.Text(state.JudgeOutput))
	assert.True(t, state.StageFailed(core.StageJudge))
	assert.False(t, state.Posted)
	assert.Zero(t, state.CommentID)
}

func TestRunReview_PostFailureKeepsJudgeOutput(t *testing.T) {
	f := newFixture(t)
	f.reviewerA.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("A"))
	f.reviewerB.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("B"))
	f.judge.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("verdict"))
	f.connector.EXPECT().PostComment(gomock.Any(), sampleChange, "verdict").
		Return(int64(0), core.ErrCommentNotPosted)

	state := f.engine().RunReview(context.Background(), core.NewReviewRequest(sampleChange, sampleDiff))

	assert.Equal(t, "verdict", core.Text(state.JudgeOutput))
	assert.False(t, state.StageFailed(core.StageJudge))
	assert.True(t, state.StageFailed(core.StagePost))
	assert.False(t, state.Posted)
}

func TestRunReview_MissingConnector(t *testing.T) {
	f := newFixture(t)
	f.reviewerA.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("A"))
	f.reviewerB.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("B"))
	f.judge.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("verdict"))

	github := core.ChangeRef{Platform: core.PlatformGitHub, Owner: "sfdnas-adm", Repo: "warden-judge", ChangeID: 3}
	state := f.engine().RunReview(context.Background(), core.NewReviewRequest(github, sampleDiff))

	require.Len(t, state.Errors, 1)
	assert.Equal(t, core.StagePost, state.Errors[0].Stage)
	assert.Contains(t, state.Errors[0].Message, "no connector")
}

func TestRunReview_PanickingStageIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.reviewerA.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, string) llm.Response { panic("boom") })
	f.reviewerB.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("B"))
	f.judge.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("verdict"))
	f.connector.EXPECT().PostComment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(5), nil)

	state := f.engine().RunReview(context.Background(), core.NewReviewRequest(sampleChange, sampleDiff))

	assert.True(t, state.StageFailed(core.StageReviewerA))
	assert.True(t, strings.HasPrefix(core.Text(state.ReviewA), "Error: stage panicked"))
	assert.True(t, state.Posted)
}

func TestRunReview_ConcurrentReviewers(t *testing.T) {
	f := newFixture(t)
	f.reviewerA.EXPECT().Complete(gomock.Any(), "SYS_A", gomock.Any()).Return(llm.Failed(errors.New("a down")))
	f.reviewerB.EXPECT().Complete(gomock.Any(), "SYS_B", gomock.Any()).Return(llm.Failed(errors.New("b down")))
	f.judge.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("verdict"))
	f.connector.EXPECT().PostComment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(9), nil)

	state := f.engine(WithConcurrentReviewers(true)).RunReview(context.Background(), core.NewReviewRequest(sampleChange, sampleDiff))

	assert.Equal(t, []string{"reviewer_a: a down", "reviewer_b: b down"}, state.ErrorMessages())
	assert.Equal(t, "Error: a down", core.Text(state.ReviewA))
	assert.Equal(t, "Error: b down", core.Text(state.ReviewB))
	assert.Equal(t, "verdict", core.Text(state.JudgeOutput))
}

func TestRunJustification(t *testing.T) {
	req := core.JustificationRequest{
		Change:         sampleChange,
		DiffText:       sampleDiff,
		OriginalReview: "Use a constant here.",
		HumanComment:   "Why?",
	}

	t.Run("success posts the justification", func(t *testing.T) {
		f := newFixture(t)
		f.justify.EXPECT().Complete(gomock.Any(), "SYS_JUSTIFY", llm.JustifyInput(sampleDiff, "Use a constant here.", "Why?")).
			Return(text("Because magic numbers hide intent."))
		f.connector.EXPECT().PostComment(gomock.Any(), sampleChange, "Because magic numbers hide intent.").Return(int64(77), nil)

		state := f.engine().RunJustification(context.Background(), req)

		assert.Equal(t, "Because magic numbers hide intent.", core.Text(state.JustifiedReview))
		assert.True(t, state.Posted)
		assert.Empty(t, state.Errors)
		assert.Nil(t, state.ReviewA)
		assert.Nil(t, state.JudgeOutput)
	})

	t.Run("model failure records one error and posts nothing", func(t *testing.T) {
		f := newFixture(t)
		f.justify.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(llm.Failed(errors.New("unavailable")))

		state := f.engine().RunJustification(context.Background(), req)

		assert.Nil(t, state.JustifiedReview)
		require.Len(t, state.Errors, 1)
		assert.Equal(t, core.StageJustify, state.Errors[0].Stage)
		assert.False(t, state.Posted)
	})

	t.Run("post failure records one error", func(t *testing.T) {
		f := newFixture(t)
		f.justify.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(text("justified"))
		f.connector.EXPECT().PostComment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), core.ErrCommentNotPosted)

		state := f.engine().RunJustification(context.Background(), req)

		assert.Equal(t, "justified", core.Text(state.JustifiedReview))
		require.Len(t, state.Errors, 1)
		assert.Equal(t, core.StageJustify, state.Errors[0].Stage)
	})

	t.Run("panic records one error", func(t *testing.T) {
		f := newFixture(t)
		f.justify.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, string, string) llm.Response { panic("kaboom") })

		state := f.engine().RunJustification(context.Background(), req)

		require.Len(t, state.Errors, 1)
		assert.Contains(t, state.Errors[0].Message, "kaboom")
	})
}
