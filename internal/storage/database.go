// Package storage persists review contexts so that a later justification run
// can reference the review it defends.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/warden-judge/internal/core"
)

const defaultQueryTimeout = 10 * time.Second

// contextStore implements core.ContextStore on top of sqlx. A nil db means
// schema initialization never succeeded.
type contextStore struct {
	db           *sqlx.DB
	queryTimeout time.Duration
	now          func() time.Time
}

var _ core.ContextStore = (*contextStore)(nil)

// NewStore creates a context store. db may be nil, in which case every
// operation fails with core.ErrStoreNotInitialized.
func NewStore(db *sqlx.DB, queryTimeout time.Duration) core.ContextStore {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &contextStore{
		db:           db,
		queryTimeout: queryTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *contextStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Save inserts the context or overwrites the diff, review and comment ID of an
// existing row in a single statement. Concurrent saves for the same key are
// last-write-wins.
func (s *contextStore) Save(ctx context.Context, rc *core.PersistedContext) error {
	if s.db == nil {
		return core.ErrStoreNotInitialized
	}
	if rc == nil {
		return errors.New("review context cannot be nil")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	query := s.db.Rebind(`
		INSERT INTO review_contexts (project_id, change_id, diff_text, final_review_text, review_comment_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, change_id) DO UPDATE SET
			diff_text = excluded.diff_text,
			final_review_text = excluded.final_review_text,
			review_comment_id = excluded.review_comment_id,
			updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, rc.ProjectID, rc.ChangeID, rc.DiffText, rc.FinalReview, rc.CommentID, now, now); err != nil {
		return fmt.Errorf("failed to save review context for %d/%d: %w", rc.ProjectID, rc.ChangeID, err)
	}
	return nil
}

// Load returns core.ErrContextNotFound when no row exists. A stored empty review
// is returned as a present context.
func (s *contextStore) Load(ctx context.Context, projectID int64, changeID int) (*core.PersistedContext, error) {
	if s.db == nil {
		return nil, core.ErrStoreNotInitialized
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.Rebind(`
		SELECT project_id, change_id, diff_text, final_review_text, review_comment_id, created_at, updated_at
		FROM review_contexts
		WHERE project_id = ? AND change_id = ?`)

	var rc core.PersistedContext
	if err := s.db.GetContext(ctx, &rc, query, projectID, changeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrContextNotFound
		}
		return nil, fmt.Errorf("failed to load review context for %d/%d: %w", projectID, changeID, err)
	}
	return &rc, nil
}

// List returns up to limit contexts, most recently updated first.
func (s *contextStore) List(ctx context.Context, limit int) ([]*core.PersistedContext, error) {
	if s.db == nil {
		return nil, core.ErrStoreNotInitialized
	}
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.Rebind(`
		SELECT project_id, change_id, diff_text, final_review_text, review_comment_id, created_at, updated_at
		FROM review_contexts
		ORDER BY updated_at DESC, project_id, change_id
		LIMIT ?`)

	var contexts []*core.PersistedContext
	if err := s.db.SelectContext(ctx, &contexts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list review contexts: %w", err)
	}
	return contexts, nil
}

// Healthy performs a trivial round trip under a short timeout.
func (s *contextStore) Healthy(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var one int
	return s.db.GetContext(ctx, &one, "SELECT 1") == nil
}
