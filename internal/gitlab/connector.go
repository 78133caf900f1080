package gitlab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/diffctx"
)

// ErrProjectNotAllowed is returned for any project other than the allow-listed one.
var ErrProjectNotAllowed = errors.New("project not allowed")

// Connector adapts a Client to the platform-neutral core.Connector contract.
type Connector struct {
	client           Client
	allowedProjectID int64
	botUsername      string
	logger           *slog.Logger
}

var _ core.Connector = (*Connector)(nil)

// NewConnector creates a GitLab connector that only serves allowedProjectID.
func NewConnector(client Client, allowedProjectID int64, logger *slog.Logger) *Connector {
	return &Connector{
		client:           client,
		allowedProjectID: allowedProjectID,
		logger:           logger.With("component", "gitlab"),
	}
}

// ResolveIdentity records the username the connector posts notes as. A
// configured name wins; otherwise the token's own user is looked up.
func (c *Connector) ResolveIdentity(ctx context.Context, configured string) string {
	if configured != "" {
		c.botUsername = configured
		return c.botUsername
	}
	username, err := c.client.CurrentUsername(ctx)
	if err != nil {
		c.logger.Warn("could not look up the authenticated GitLab user, set GITLAB_BOT_USERNAME to ignore the bot's own notes", "error", err)
		return ""
	}
	c.botUsername = username
	c.logger.Info("posting as GitLab user", "username", username)
	return username
}

// BotLogin implements core.Identified.
func (c *Connector) BotLogin() string { return c.botUsername }

// Platform implements core.Connector.
func (c *Connector) Platform() core.Platform { return core.PlatformGitLab }

func (c *Connector) checkProject(projectID int64) error {
	if projectID != c.allowedProjectID {
		return fmt.Errorf("%w: project %d, only project %d is supported", ErrProjectNotAllowed, projectID, c.allowedProjectID)
	}
	return nil
}

// FetchDiff renders the merge request's file diffs, preceded by any issues its
// title or description reference. Failures wrap core.ErrDiffUnavailable.
func (c *Connector) FetchDiff(ctx context.Context, ref core.ChangeRef) (string, error) {
	if err := c.checkProject(ref.ProjectID); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrDiffUnavailable, err)
	}

	diffs, err := c.client.ListDiffs(ctx, ref.ProjectID, ref.ChangeID)
	if err != nil {
		return "", fmt.Errorf("%w: failed to list changes of MR !%d: %w", core.ErrDiffUnavailable, ref.ChangeID, err)
	}

	files := make([]diffctx.FileDiff, 0, len(diffs))
	for _, d := range diffs {
		if d == nil {
			continue
		}
		files = append(files, diffctx.FileDiff{
			Path:  fmt.Sprintf("%s -> %s", d.OldPath, d.NewPath),
			Patch: d.Diff,
		})
	}
	if diffctx.FormatFiles(files) == "" {
		c.logger.Info("merge request has no file diffs", "project_id", ref.ProjectID, "mr", ref.ChangeID)
		return "", nil
	}

	return diffctx.Compose(files, c.linkedIssues(ctx, ref)), nil
}

func (c *Connector) linkedIssues(ctx context.Context, ref core.ChangeRef) []diffctx.Issue {
	mr, err := c.client.GetMergeRequest(ctx, ref.ProjectID, ref.ChangeID)
	if err != nil {
		c.logger.Warn("could not load merge request for issue references", "mr", ref.ChangeID, "error", err)
		return nil
	}

	refs := diffctx.IssueRefs(mr.Title + " " + mr.Description)
	if len(refs) == 0 {
		return nil
	}

	return diffctx.CollectIssues(ctx, refs, func(ctx context.Context, number int) (*diffctx.Issue, error) {
		issue, err := c.client.GetIssue(ctx, ref.ProjectID, number)
		if err != nil {
			return nil, err
		}
		if issue == nil {
			return nil, errors.New("empty issue response")
		}
		return &diffctx.Issue{
			Number:      number,
			Title:       issue.Title,
			Description: issue.Description,
			Labels:      []string(issue.Labels),
			State:       issue.State,
		}, nil
	}, c.logger)
}

// PostComment creates a merge request note and returns its ID.
func (c *Connector) PostComment(ctx context.Context, ref core.ChangeRef, body string) (int64, error) {
	if err := c.checkProject(ref.ProjectID); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrCommentNotPosted, err)
	}
	id, err := c.client.CreateNote(ctx, ref.ProjectID, ref.ChangeID, body)
	if err != nil {
		return 0, fmt.Errorf("%w: MR !%d: %w", core.ErrCommentNotPosted, ref.ChangeID, err)
	}
	c.logger.Info("posted review note", "project_id", ref.ProjectID, "mr", ref.ChangeID, "note_id", id)
	return id, nil
}

// ResolveChange builds the ChangeRef of a merge request given its project path.
func (c *Connector) ResolveChange(ctx context.Context, projectPath string, iid int) (core.ChangeRef, error) {
	id, err := c.client.GetProjectID(ctx, projectPath)
	if err != nil {
		return core.ChangeRef{}, fmt.Errorf("failed to resolve project %s: %w", projectPath, err)
	}
	return core.ChangeRef{Platform: core.PlatformGitLab, ProjectID: id, ChangeID: iid}, nil
}
