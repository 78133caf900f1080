package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/warden-judge/internal/core"
)

// ReviewJob fetches a change's diff, runs the review pipeline over it and
// persists the final review for later justification runs.
type ReviewJob struct {
	connectors map[core.Platform]core.Connector
	engine     core.ReviewEngine
	store      core.ContextStore
	logger     *slog.Logger
}

// NewReviewJob creates a review job. store may be nil, in which case nothing is persisted.
func NewReviewJob(connectors map[core.Platform]core.Connector, engine core.ReviewEngine, store core.ContextStore, logger *slog.Logger) *ReviewJob {
	if engine == nil {
		panic("review engine cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{connectors: connectors, engine: engine, store: store, logger: logger.With("job", "review")}
}

// Run executes one review for event.
func (j *ReviewJob) Run(ctx context.Context, event *core.ChangeEvent) error {
	if err := validateEvent(event, core.EventReview); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	_, err := j.Review(ctx, event.Change)
	return err
}

// Review fetches the diff of ref, runs the pipeline and persists the result. It
// returns a nil state when the change has nothing to review.
func (j *ReviewJob) Review(ctx context.Context, ref core.ChangeRef) (*core.ReviewState, error) {
	logger := j.logger.With("change", ref.String())

	connector := j.connectors[ref.Platform]
	if connector == nil {
		return nil, fmt.Errorf("no connector available for platform %q", ref.Platform)
	}

	logger.Info("fetching diff")
	diff, err := connector.FetchDiff(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch diff for %s: %w", ref, err)
	}
	if strings.TrimSpace(diff) == "" {
		logger.Info("change has no file patches, skipping review")
		return nil, nil
	}

	state := j.engine.RunReview(ctx, core.NewReviewRequest(ref, diff))
	if len(state.Errors) > 0 {
		logger.Warn("review finished with errors", "errors", state.ErrorSummary())
	}

	if !shouldPersist(state) {
		return state, fmt.Errorf("review for %s produced no final review: %s", ref, state.ErrorSummary())
	}
	if j.store == nil {
		logger.Warn("context store unavailable, review will not be persisted")
		return state, nil
	}

	rc := &core.PersistedContext{
		ProjectID:   ref.ProjectID,
		ChangeID:    ref.ChangeID,
		DiffText:    state.DiffText,
		FinalReview: core.Text(state.JudgeOutput),
	}
	if state.Posted {
		rc.CommentID = core.Ptr(state.CommentID)
	}
	if err := j.store.Save(ctx, rc); err != nil {
		return state, fmt.Errorf("failed to persist review context for %s: %w", ref, err)
	}

	logger.Info("review completed", "posted", state.Posted, "comment_id", state.CommentID)
	return state, nil
}

// shouldPersist reports whether the run produced a judge verdict worth keeping.
// A failed post still persists; a failed judge does not.
func shouldPersist(state *core.ReviewState) bool {
	return state.JudgeOutput != nil && !state.StageFailed(core.StageJudge) && !state.StageFailed(core.StagePrecondition)
}

func validateEvent(event *core.ChangeEvent, kind core.EventKind) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Kind != kind {
		return fmt.Errorf("unexpected event kind %q, want %q", event.Kind, kind)
	}
	if event.Change.ChangeID <= 0 {
		return fmt.Errorf("change number must be positive, got: %d", event.Change.ChangeID)
	}
	switch event.Change.Platform {
	case core.PlatformGitHub:
		if event.Change.Owner == "" || event.Change.Repo == "" {
			return fmt.Errorf("repository owner and name cannot be empty")
		}
	case core.PlatformGitLab:
		if event.Change.ProjectID <= 0 {
			return fmt.Errorf("project ID must be positive, got: %d", event.Change.ProjectID)
		}
	default:
		return fmt.Errorf("unknown platform %q", event.Change.Platform)
	}
	return nil
}
