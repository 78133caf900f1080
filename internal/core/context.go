package core

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrContextNotFound is returned by a ContextStore when no row exists for a key.
	ErrContextNotFound = errors.New("review context not found")
	// ErrStoreNotInitialized is returned by every store operation when schema
	// initialization never succeeded.
	ErrStoreNotInitialized = errors.New("context store not initialized")
	// ErrNoContext is returned by a justification job when there is no stored review to defend.
	ErrNoContext = errors.New("no stored review context for change")
)

// PersistedContext is the durable (diff, final review) pair for one change.
type PersistedContext struct {
	ProjectID   int64     `db:"project_id"`
	ChangeID    int       `db:"change_id"`
	DiffText    string    `db:"diff_text"`
	FinalReview string    `db:"final_review_text"`
	CommentID   *int64    `db:"review_comment_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ContextStore persists review contexts keyed by (project, change).
//
//go:generate mockgen -destination=../mocks/mock_context_store.go -package=mocks . ContextStore
type ContextStore interface {
	// Save inserts or overwrites the context for its (ProjectID, ChangeID) key.
	Save(ctx context.Context, rc *PersistedContext) error
	// Load returns ErrContextNotFound when no context exists for the key.
	Load(ctx context.Context, projectID int64, changeID int) (*PersistedContext, error)
	// List returns up to limit contexts, most recently updated first.
	List(ctx context.Context, limit int) ([]*PersistedContext, error)
	Healthy(ctx context.Context) bool
}

// ReviewEngine runs the review and justification stage graphs.
type ReviewEngine interface {
	RunReview(ctx context.Context, req ReviewRequest) *ReviewState
	RunJustification(ctx context.Context, req JustificationRequest) *ReviewState
}
