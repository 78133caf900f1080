package core

import (
	"fmt"
	"strings"
)

// Stage identifies one unit of pipeline work.
type Stage string

const (
	StagePrecondition Stage = "precondition"
	StageReviewerA    Stage = "reviewer_a"
	StageReviewerB    Stage = "reviewer_b"
	StageJudge        Stage = "judge"
	StageJustify      Stage = "justify"
	StageTerminal     Stage = "terminal"

	// StagePost attributes comment-post failures of the judge stage. It is not a
	// node of the stage graph.
	StagePost Stage = "post"
)

// ReviewRequest identifies one change together with its diff.
type ReviewRequest struct {
	change   ChangeRef
	diffText string
}

// NewReviewRequest builds an immutable review request.
func NewReviewRequest(change ChangeRef, diffText string) ReviewRequest {
	return ReviewRequest{change: change, diffText: diffText}
}

func (r ReviewRequest) Change() ChangeRef { return r.change }
func (r ReviewRequest) DiffText() string  { return r.diffText }

// JustificationRequest carries everything a justification run needs.
type JustificationRequest struct {
	Change         ChangeRef
	DiffText       string
	OriginalReview string
	HumanComment   string
}

// StageError is one entry of a run's ordered error list.
type StageError struct {
	Stage   Stage
	Message string
}

func (e StageError) String() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// ReviewState is the record threaded through one pipeline run. A nil pointer
// field means the stage that owns it has not produced output.
type ReviewState struct {
	Change   ChangeRef
	DiffText string

	ReviewA     *string
	ReviewB     *string
	JudgeOutput *string

	OriginalReview  *string
	HumanComment    *string
	JustifiedReview *string

	// CommentID is the ID of the comment posted by the run, zero when nothing was posted.
	CommentID int64
	Posted    bool

	Errors []StageError
}

// NewReviewState creates the initial state for a review run.
func NewReviewState(req ReviewRequest) *ReviewState {
	return &ReviewState{Change: req.Change(), DiffText: req.DiffText()}
}

// NewJustificationState creates the initial state for a justification run.
func NewJustificationState(req JustificationRequest) *ReviewState {
	return &ReviewState{
		Change:         req.Change,
		DiffText:       req.DiffText,
		OriginalReview: &req.OriginalReview,
		HumanComment:   &req.HumanComment,
	}
}

// AddError appends an error entry for stage.
func (s *ReviewState) AddError(stage Stage, err error) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Message: err.Error()})
}

// StageFailed reports whether stage recorded at least one error.
func (s *ReviewState) StageFailed(stage Stage) bool {
	for _, e := range s.Errors {
		if e.Stage == stage {
			return true
		}
	}
	return false
}

// ErrorMessages renders the error list in order.
func (s *ReviewState) ErrorMessages() []string {
	msgs := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		msgs = append(msgs, e.String())
	}
	return msgs
}

// ErrorSummary joins all error messages into one line for logging.
func (s *ReviewState) ErrorSummary() string {
	return strings.Join(s.ErrorMessages(), "; ")
}

// Text returns the value of an optional field, or "" when it is absent.
func Text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
