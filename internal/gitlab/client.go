// Package gitlab provides the merge-request flavor of the version-control connector.
package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xanzy/go-gitlab"
)

// Client defines the GitLab operations needed by the review pipeline.
//
//go:generate mockgen -destination=../mocks/mock_gitlab_client.go -package=mocks -mock_names Client=MockGitLabClient . Client
type Client interface {
	GetProjectID(ctx context.Context, path string) (int64, error)
	GetMergeRequest(ctx context.Context, projectID int64, iid int) (*gitlab.MergeRequest, error)
	ListDiffs(ctx context.Context, projectID int64, iid int) ([]*gitlab.MergeRequestDiff, error)
	GetIssue(ctx context.Context, projectID int64, iid int) (*gitlab.Issue, error)
	CreateNote(ctx context.Context, projectID int64, iid int, body string) (int64, error)
	CurrentUsername(ctx context.Context) (string, error)
}

type gitLabClient struct {
	client *gitlab.Client
	logger *slog.Logger
}

// NewClient creates a GitLab API client for baseURL authenticated with a private token.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) (Client, error) {
	client, err := gitlab.NewClient(token,
		gitlab.WithBaseURL(baseURL),
		gitlab.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &gitLabClient{client: client, logger: logger}, nil
}

func (g *gitLabClient) GetProjectID(ctx context.Context, path string) (int64, error) {
	p, _, err := g.client.Projects.GetProject(path, nil, gitlab.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to get project", "project", path, "error", err)
		return 0, err
	}
	return int64(p.ID), nil
}

func (g *gitLabClient) GetMergeRequest(ctx context.Context, projectID int64, iid int) (*gitlab.MergeRequest, error) {
	mr, _, err := g.client.MergeRequests.GetMergeRequest(int(projectID), iid, nil, gitlab.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to get merge request", "project_id", projectID, "mr", iid, "error", err)
		return nil, err
	}
	return mr, nil
}

// ListDiffs returns every file diff of a merge request, following pagination.
func (g *gitLabClient) ListDiffs(ctx context.Context, projectID int64, iid int) ([]*gitlab.MergeRequestDiff, error) {
	var all []*gitlab.MergeRequestDiff
	opts := &gitlab.ListMergeRequestDiffsOptions{ListOptions: gitlab.ListOptions{PerPage: 100}}

	for {
		diffs, resp, err := g.client.MergeRequests.ListMergeRequestDiffs(int(projectID), iid, opts, gitlab.WithContext(ctx))
		if err != nil {
			g.logger.Error("failed to list merge request diffs", "project_id", projectID, "mr", iid, "error", err)
			return nil, err
		}
		all = append(all, diffs...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (g *gitLabClient) GetIssue(ctx context.Context, projectID int64, iid int) (*gitlab.Issue, error) {
	issue, _, err := g.client.Issues.GetIssue(int(projectID), iid, gitlab.WithContext(ctx))
	if err != nil {
		g.logger.Debug("failed to get issue", "project_id", projectID, "issue", iid, "error", err)
		return nil, err
	}
	return issue, nil
}

func (g *gitLabClient) CreateNote(ctx context.Context, projectID int64, iid int, body string) (int64, error) {
	note, _, err := g.client.Notes.CreateMergeRequestNote(int(projectID), iid, &gitlab.CreateMergeRequestNoteOptions{
		Body: gitlab.Ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to create merge request note", "project_id", projectID, "mr", iid, "error", err)
		return 0, err
	}
	return int64(note.ID), nil
}

func (g *gitLabClient) CurrentUsername(ctx context.Context) (string, error) {
	user, _, err := g.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
