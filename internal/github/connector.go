package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/diffctx"
)

// Connector adapts a Client to the platform-neutral core.Connector contract.
type Connector struct {
	client   Client
	botLogin string
	logger   *slog.Logger
}

var _ core.Connector = (*Connector)(nil)

// NewConnector creates a GitHub connector.
func NewConnector(client Client, logger *slog.Logger) *Connector {
	return &Connector{client: client, logger: logger.With("component", "github")}
}

// ResolveIdentity records the login the connector posts as. A configured login
// wins; otherwise the token's own account is looked up. Without a known login
// the bot's own comments can only be told apart by the Bot user type.
func (c *Connector) ResolveIdentity(ctx context.Context, configured string) string {
	if configured != "" {
		c.botLogin = configured
		return c.botLogin
	}
	login, err := c.client.AuthenticatedLogin(ctx)
	if err != nil {
		c.logger.Warn("could not look up the authenticated GitHub account, set GITHUB_BOT_LOGIN to ignore the bot's own comments", "error", err)
		return ""
	}
	c.botLogin = login
	c.logger.Info("posting as GitHub account", "login", login)
	return login
}

// BotLogin implements core.Identified.
func (c *Connector) BotLogin() string { return c.botLogin }

// Platform implements core.Connector.
func (c *Connector) Platform() core.Platform { return core.PlatformGitHub }

// FetchDiff lists the files changed by the pull request and renders them, preceded by
// any issues that the title or description reference. It returns "" when no file
// carries a patch. Failures wrap core.ErrDiffUnavailable.
func (c *Connector) FetchDiff(ctx context.Context, ref core.ChangeRef) (string, error) {
	if ref.Owner == "" || ref.Repo == "" {
		return "", fmt.Errorf("%w: repository coordinates are missing for %s", core.ErrDiffUnavailable, ref)
	}

	files, err := c.client.GetChangedFiles(ctx, ref.Owner, ref.Repo, ref.ChangeID)
	if err != nil {
		return "", fmt.Errorf("%w: failed to list files of PR #%d: %w", core.ErrDiffUnavailable, ref.ChangeID, err)
	}

	fileDiffs := make([]diffctx.FileDiff, 0, len(files))
	for _, f := range files {
		fileDiffs = append(fileDiffs, diffctx.FileDiff{Path: f.Filename, Patch: f.Patch})
	}
	if diffctx.FormatFiles(fileDiffs) == "" {
		c.logger.Info("pull request has no file patches", "pr", ref.ChangeID)
		return "", nil
	}

	return diffctx.Compose(fileDiffs, c.linkedIssues(ctx, ref)), nil
}

// linkedIssues loads the issues referenced by the pull request. It never fails;
// an unreadable pull request simply yields no issues.
func (c *Connector) linkedIssues(ctx context.Context, ref core.ChangeRef) []diffctx.Issue {
	pr, err := c.client.GetPullRequest(ctx, ref.Owner, ref.Repo, ref.ChangeID)
	if err != nil {
		c.logger.Warn("could not load pull request for issue references", "pr", ref.ChangeID, "error", err)
		return nil
	}

	refs := diffctx.IssueRefs(pr.GetTitle() + " " + pr.GetBody())
	if len(refs) == 0 {
		return nil
	}

	return diffctx.CollectIssues(ctx, refs, func(ctx context.Context, number int) (*diffctx.Issue, error) {
		issue, err := c.client.GetIssue(ctx, ref.Owner, ref.Repo, number)
		if err != nil {
			return nil, err
		}
		if issue == nil {
			return nil, errors.New("empty issue response")
		}
		labels := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			labels = append(labels, l.GetName())
		}
		return &diffctx.Issue{
			Number:      number,
			Title:       issue.GetTitle(),
			Description: issue.GetBody(),
			Labels:      labels,
			State:       issue.GetState(),
		}, nil
	}, c.logger)
}

// PostComment publishes body as a pull request comment and returns its ID.
// Failures wrap core.ErrCommentNotPosted and are never retried.
func (c *Connector) PostComment(ctx context.Context, ref core.ChangeRef, body string) (int64, error) {
	id, err := c.client.CreateComment(ctx, ref.Owner, ref.Repo, ref.ChangeID, body)
	if err != nil {
		return 0, fmt.Errorf("%w: PR #%d: %w", core.ErrCommentNotPosted, ref.ChangeID, err)
	}
	c.logger.Info("posted review comment", "pr", ref.ChangeID, "comment_id", id)
	return id, nil
}

// ResolveChange builds the ChangeRef of a pull request, looking up the repository ID.
func (c *Connector) ResolveChange(ctx context.Context, owner, repo string, number int) (core.ChangeRef, error) {
	r, err := c.client.GetRepository(ctx, owner, repo)
	if err != nil {
		return core.ChangeRef{}, fmt.Errorf("failed to resolve repository %s/%s: %w", owner, repo, err)
	}
	return core.ChangeRef{
		Platform:  core.PlatformGitHub,
		ProjectID: r.GetID(),
		Owner:     owner,
		Repo:      repo,
		ChangeID:  number,
	}, nil
}
