// Package pipeline runs the review and justification stage graphs over one
// core.ReviewState per run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/llm"
)

var (
	errEmptyDiff          = errors.New("diff is empty, nothing to review")
	errModelNotConfigured = errors.New("model client not configured")
)

// reviewTransitions is the review graph: ReviewerA -> ReviewerB -> Judge -> Terminal.
var reviewTransitions = map[core.Stage]core.Stage{
	core.StageReviewerA: core.StageReviewerB,
	core.StageReviewerB: core.StageJudge,
	core.StageJudge:     core.StageTerminal,
}

// justifyTransitions is the justification graph. It shares no node with the review graph.
var justifyTransitions = map[core.Stage]core.Stage{
	core.StageJustify: core.StageTerminal,
}

type stageFunc func(ctx context.Context, state *core.ReviewState)

// Engine owns stage ordering, state threading and side-effect sequencing.
// It is safe for concurrent use; each run owns its own state.
type Engine struct {
	models              llm.Models
	prompts             *llm.PromptSet
	connectors          map[core.Platform]core.Connector
	concurrentReviewers bool
	stages              map[core.Stage]stageFunc
	logger              *slog.Logger
}

var _ core.ReviewEngine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrentReviewers runs ReviewerA and ReviewerB concurrently. Each writes
// only its own field and the judge always runs after both.
func WithConcurrentReviewers(enabled bool) Option {
	return func(e *Engine) { e.concurrentReviewers = enabled }
}

// NewEngine creates a pipeline engine. Comments are posted through the connector
// registered for the change's platform.
func NewEngine(models llm.Models, prompts *llm.PromptSet, connectors map[core.Platform]core.Connector, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		models:     models,
		prompts:    prompts,
		connectors: make(map[core.Platform]core.Connector, len(connectors)),
		logger:     logger.With("component", "pipeline"),
	}
	for p, c := range connectors {
		if c != nil {
			e.connectors[p] = c
		}
	}
	e.stages = map[core.Stage]stageFunc{
		core.StageReviewerA: e.reviewerA,
		core.StageReviewerB: e.reviewerB,
		core.StageJudge:     e.judge,
		core.StageJustify:   e.justify,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunReview runs the review graph. An empty diff short-circuits before any model call.
func (e *Engine) RunReview(ctx context.Context, req core.ReviewRequest) *core.ReviewState {
	state := core.NewReviewState(req)
	logger := e.logger.With("change", state.Change.String())

	if strings.TrimSpace(state.DiffText) == "" {
		state.AddError(core.StagePrecondition, errEmptyDiff)
		logger.Warn("review skipped", "reason", errEmptyDiff)
		return state
	}

	start := time.Now()
	logger.Info("starting review run", "diff_chars", len(state.DiffText), "concurrent_reviewers", e.concurrentReviewers)
	e.drive(ctx, state, core.StageReviewerA, reviewTransitions)
	logger.Info("review run finished", "duration", time.Since(start), "posted", state.Posted, "errors", len(state.Errors))
	return state
}

// RunJustification runs the single-stage justification graph.
func (e *Engine) RunJustification(ctx context.Context, req core.JustificationRequest) *core.ReviewState {
	state := core.NewJustificationState(req)
	logger := e.logger.With("change", state.Change.String())

	start := time.Now()
	logger.Info("starting justification run", "comment_chars", len(req.HumanComment))
	e.drive(ctx, state, core.StageJustify, justifyTransitions)
	logger.Info("justification run finished", "duration", time.Since(start), "posted", state.Posted, "errors", len(state.Errors))
	return state
}

// drive walks transitions from start until the terminal stage.
func (e *Engine) drive(ctx context.Context, state *core.ReviewState, start core.Stage, transitions map[core.Stage]core.Stage) {
	stage := start
	for stage != core.StageTerminal {
		next, ok := transitions[stage]
		if !ok {
			state.AddError(stage, fmt.Errorf("no transition defined from stage %s", stage))
			return
		}

		if e.concurrentReviewers && stage == core.StageReviewerA && next == core.StageReviewerB {
			e.reviewersConcurrently(ctx, state)
			stage = transitions[next]
			continue
		}

		e.execute(ctx, stage, state)
		stage = next
	}
}

// execute runs one stage. A panicking stage is recorded like any other stage
// failure and its output field gets a placeholder.
func (e *Engine) execute(ctx context.Context, stage core.Stage, state *core.ReviewState) {
	fn, ok := e.stages[stage]
	if !ok {
		state.AddError(stage, fmt.Errorf("unknown stage %s", stage))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("stage panicked: %v", r)
			e.logger.Error("stage failed", "stage", stage, "error", err)
			state.AddError(stage, err)
			if field := outputOf(state, stage); field != nil && *field == nil && stage != core.StageJustify {
				*field = core.Ptr(llm.Failed(err).Text())
			}
		}
	}()

	fn(ctx, state)
}

// outputOf returns the state field owned by stage.
func outputOf(state *core.ReviewState, stage core.Stage) **string {
	switch stage {
	case core.StageReviewerA:
		return &state.ReviewA
	case core.StageReviewerB:
		return &state.ReviewB
	case core.StageJudge:
		return &state.JudgeOutput
	case core.StageJustify:
		return &state.JustifiedReview
	default:
		return nil
	}
}

func (e *Engine) complete(ctx context.Context, client llm.Client, key llm.PromptKey, input string) llm.Response {
	if client == nil {
		return llm.Failed(errModelNotConfigured)
	}
	return client.Complete(ctx, e.prompts.System(key), input)
}

// review invokes one reviewer. The returned text is the reduced reply or an
// "Error: ..." placeholder; err is set only for the placeholder.
func (e *Engine) review(ctx context.Context, client llm.Client, key llm.PromptKey, diff string) (string, error) {
	resp := e.complete(ctx, client, key, llm.ReviewerInput(diff))
	if resp.Kind == llm.KindError {
		return resp.Text(), resp.Err
	}
	return resp.Text(), nil
}

func (e *Engine) reviewerA(ctx context.Context, state *core.ReviewState) {
	text, err := e.review(ctx, e.models.ReviewerA, llm.ReviewerAPrompt, state.DiffText)
	e.recordReview(state, core.StageReviewerA, text, err)
}

func (e *Engine) reviewerB(ctx context.Context, state *core.ReviewState) {
	text, err := e.review(ctx, e.models.ReviewerB, llm.ReviewerBPrompt, state.DiffText)
	e.recordReview(state, core.StageReviewerB, text, err)
}

func (e *Engine) recordReview(state *core.ReviewState, stage core.Stage, text string, err error) {
	*outputOf(state, stage) = core.Ptr(text)
	if err != nil {
		state.AddError(stage, err)
		e.logger.Warn("reviewer failed, continuing with placeholder", "stage", stage, "error", err)
		return
	}
	e.logger.Info("reviewer finished", "stage", stage, "output_chars", len(text))
}

// reviewersConcurrently runs both reviewers at once. Results are written to the
// state after both return, in A then B order, so error ordering matches the
// sequential run.
func (e *Engine) reviewersConcurrently(ctx context.Context, state *core.ReviewState) {
	type outcome struct {
		text string
		err  error
	}
	var a, b outcome

	run := func(dst *outcome, client llm.Client, key llm.PromptKey) func() error {
		return func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr := fmt.Errorf("stage panicked: %v", r)
					*dst = outcome{text: llm.Failed(perr).Text(), err: perr}
				}
			}()
			text, rerr := e.review(ctx, client, key, state.DiffText)
			*dst = outcome{text: text, err: rerr}
			return nil
		}
	}

	var g errgroup.Group
	g.Go(run(&a, e.models.ReviewerA, llm.ReviewerAPrompt))
	g.Go(run(&b, e.models.ReviewerB, llm.ReviewerBPrompt))
	_ = g.Wait()

	e.recordReview(state, core.StageReviewerA, a.text, a.err)
	e.recordReview(state, core.StageReviewerB, b.text, b.err)
}

// judge synthesizes both reviews and posts the result. A model failure stores
// the placeholder and posts nothing; a post failure keeps the judge output.
func (e *Engine) judge(ctx context.Context, state *core.ReviewState) {
	input := llm.JudgeInput(state.DiffText, state.ReviewA, state.ReviewB)
	resp := e.complete(ctx, e.models.Judge, llm.JudgePrompt, input)

	text := resp.Text()
	state.JudgeOutput = &text
	if resp.Kind == llm.KindError {
		state.AddError(core.StageJudge, resp.Err)
		e.logger.Error("judge failed, nothing will be posted", "error", resp.Err)
		return
	}
	e.logger.Info("judge finished", "output_chars", len(text))

	id, err := e.post(ctx, state.Change, text)
	if err != nil {
		state.AddError(core.StagePost, err)
		e.logger.Error("failed to post review comment", "error", err)
		return
	}
	state.CommentID = id
	state.Posted = true
}

// justify is the only justification stage. Any failure, including a panic, is
// converted into exactly one error entry.
func (e *Engine) justify(ctx context.Context, state *core.ReviewState) {
	if err := e.justifyOnce(ctx, state); err != nil {
		state.AddError(core.StageJustify, err)
		e.logger.Error("justification failed", "error", err)
	}
}

func (e *Engine) justifyOnce(ctx context.Context, state *core.ReviewState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("justification panicked: %v", r)
		}
	}()

	input := llm.JustifyInput(state.DiffText, core.Text(state.OriginalReview), core.Text(state.HumanComment))
	resp := e.complete(ctx, e.models.Justify, llm.JustifyPrompt, input)
	if resp.Kind == llm.KindError {
		return fmt.Errorf("model call failed: %w", resp.Err)
	}

	text := resp.Text()
	state.JustifiedReview = &text

	id, err := e.post(ctx, state.Change, text)
	if err != nil {
		return err
	}
	state.CommentID = id
	state.Posted = true
	return nil
}

func (e *Engine) post(ctx context.Context, ref core.ChangeRef, body string) (int64, error) {
	c, ok := e.connectors[ref.Platform]
	if !ok {
		return 0, fmt.Errorf("%w: no connector for platform %q", core.ErrCommentNotPosted, ref.Platform)
	}
	return c.PostComment(ctx, ref, body)
}
