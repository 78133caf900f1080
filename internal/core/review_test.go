package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/warden-judge/internal/core"
)

func TestReviewStateErrors(t *testing.T) {
	ref := core.ChangeRef{Platform: core.PlatformGitLab, ProjectID: 1, ChangeID: 2}
	state := core.NewReviewState(core.NewReviewRequest(ref, "diff"))

	assert.Equal(t, "diff", state.DiffText)
	assert.Nil(t, state.ReviewA)
	assert.Empty(t, state.ErrorSummary())

	state.AddError(core.StageReviewerA, errors.New("timeout"))
	state.AddError(core.StagePost, errors.New("forbidden"))

	assert.True(t, state.StageFailed(core.StageReviewerA))
	assert.True(t, state.StageFailed(core.StagePost))
	assert.False(t, state.StageFailed(core.StageJudge))
	assert.Equal(t, []string{"reviewer_a: timeout", "post: forbidden"}, state.ErrorMessages())
	assert.Equal(t, "reviewer_a: timeout; post: forbidden", state.ErrorSummary())
}

func TestNewJustificationState(t *testing.T) {
	state := core.NewJustificationState(core.JustificationRequest{
		DiffText:       "d",
		OriginalReview: "",
		HumanComment:   "why?",
	})
	// An empty stored review is still present.
	assert.NotNil(t, state.OriginalReview)
	assert.Equal(t, "", core.Text(state.OriginalReview))
	assert.Equal(t, "why?", core.Text(state.HumanComment))
	assert.Nil(t, state.JustifiedReview)
	assert.Equal(t, "", core.Text(nil))
	assert.Equal(t, "x", *core.Ptr("x"))
}
