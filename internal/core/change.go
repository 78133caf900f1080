package core

import (
	"context"
	"errors"
	"fmt"
)

// Platform names a hosting platform flavor.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

var (
	// ErrDiffUnavailable is returned by connectors when the diff for a change cannot be fetched.
	ErrDiffUnavailable = errors.New("diff unavailable")
	// ErrCommentNotPosted is returned by connectors when a comment could not be created.
	ErrCommentNotPosted = errors.New("comment not posted")
)

// ChangeRef is the platform-neutral identifier of one pull or merge request.
// For GitHub, ProjectID is the repository ID and Owner/Repo address the API.
// For GitLab, ProjectID is the numeric project ID; Owner and Repo stay empty.
type ChangeRef struct {
	Platform  Platform
	ProjectID int64
	Owner     string
	Repo      string
	ChangeID  int
}

func (r ChangeRef) String() string {
	switch r.Platform {
	case PlatformGitLab:
		return fmt.Sprintf("gitlab:%d!%d", r.ProjectID, r.ChangeID)
	default:
		return fmt.Sprintf("%s:%s/%s#%d", r.Platform, r.Owner, r.Repo, r.ChangeID)
	}
}

// Connector is the version-control contract used by the pipeline. Implementations
// never panic; failures are reported through the returned errors.
//
//go:generate mockgen -destination=../mocks/mock_connector.go -package=mocks . Connector
type Connector interface {
	Platform() Platform
	// FetchDiff returns the flattened diff text for a change, optionally prefixed
	// with a linked-issues section. An empty string means there are no changes.
	FetchDiff(ctx context.Context, ref ChangeRef) (string, error)
	// PostComment publishes body on the change and returns the created comment ID.
	PostComment(ctx context.Context, ref ChangeRef, body string) (int64, error)
}
