package main

import (
	"context"
	"fmt"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/gitutil"
)

// resolveTarget turns a pull request or merge request URL into a ChangeRef and
// the connector that serves it.
func resolveTarget(ctx context.Context, rt *app.Runtime, url string) (core.ChangeRef, core.Connector, error) {
	if gitutil.IsMergeRequestURL(url) {
		_, path, iid, err := gitutil.ParseMergeRequestURL(url)
		if err != nil {
			return core.ChangeRef{}, nil, fmt.Errorf("invalid MR URL: %w", err)
		}
		if rt.GitLab == nil {
			return core.ChangeRef{}, nil, fmt.Errorf("GitLab is not configured\n\nTip: set GITLAB_TOKEN and ALLOWED_PROJECT_ID")
		}
		ref, err := rt.GitLab.ResolveChange(ctx, path, iid)
		if err != nil {
			return core.ChangeRef{}, nil, err
		}
		return ref, rt.GitLab, nil
	}

	owner, repo, number, err := gitutil.ParsePullRequestURL(url)
	if err != nil {
		return core.ChangeRef{}, nil, fmt.Errorf("invalid PR URL: %w\n\nExpected format: https://github.com/owner/repo/pull/123", err)
	}
	if rt.GitHub == nil {
		return core.ChangeRef{}, nil, fmt.Errorf("GitHub is not configured\n\nTip: set GITHUB_TOKEN or pass --github-token")
	}
	ref, err := rt.GitHub.ResolveChange(ctx, owner, repo, number)
	if err != nil {
		return core.ChangeRef{}, nil, err
	}
	return ref, rt.GitHub, nil
}
