package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/warden-judge/internal/core"
)

// JustifyJob answers a human comment on a reviewed change by justifying or
// revising the stored review.
type JustifyJob struct {
	engine core.ReviewEngine
	store  core.ContextStore
	logger *slog.Logger
}

// NewJustifyJob creates a justification job.
func NewJustifyJob(engine core.ReviewEngine, store core.ContextStore, logger *slog.Logger) *JustifyJob {
	if engine == nil {
		panic("review engine cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &JustifyJob{engine: engine, store: store, logger: logger.With("job", "justify")}
}

// Run executes one justification for a feedback event. Without a stored context
// it returns core.ErrNoContext and never calls the model.
func (j *JustifyJob) Run(ctx context.Context, event *core.ChangeEvent) error {
	if err := validateEvent(event, core.EventFeedback); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	_, err := j.Justify(ctx, event.Change, event.Comment)
	if err == nil {
		j.logger.Info("justification posted", "change", event.Change.String(), "author", event.Author)
	}
	return err
}

// Justify answers comment using the stored context of ref.
func (j *JustifyJob) Justify(ctx context.Context, ref core.ChangeRef, comment string) (*core.ReviewState, error) {
	if j.store == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrNoContext, core.ErrStoreNotInitialized)
	}

	rc, err := j.store.Load(ctx, ref.ProjectID, ref.ChangeID)
	if errors.Is(err, core.ErrContextNotFound) {
		j.logger.Info("no stored review for change, ignoring comment", "change", ref.String())
		return nil, fmt.Errorf("%w: %s", core.ErrNoContext, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load review context for %s: %w", ref, err)
	}

	state := j.engine.RunJustification(ctx, core.JustificationRequest{
		Change:         ref,
		DiffText:       rc.DiffText,
		OriginalReview: rc.FinalReview,
		HumanComment:   comment,
	})
	if len(state.Errors) > 0 {
		return state, fmt.Errorf("justification for %s failed: %s", ref, state.ErrorSummary())
	}
	return state, nil
}
