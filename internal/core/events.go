// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing the review pipeline to stay independent of any single hosting platform.
package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-github/v73/github"
	"github.com/xanzy/go-gitlab"
)

// EventKind selects which job handles a ChangeEvent.
type EventKind string

const (
	// EventReview starts a full review run for a change.
	EventReview EventKind = "review"
	// EventFeedback starts a justification run in response to a human comment.
	EventFeedback EventKind = "feedback"
)

var (
	githubReviewActions = []string{"opened", "reopened", "synchronize"}
	gitlabReviewActions = []string{"open", "reopen", "update"}
)

// ChangeEvent is the internal, platform-neutral view of an inbound webhook.
type ChangeEvent struct {
	Kind   EventKind
	Change ChangeRef
	Action string

	// Repository identifies the source repository for allow-listing and logs.
	Repository string

	// Comment and Author are set for feedback events only.
	Comment string
	Author  string
}

// IgnoredError explains why an inbound event does not lead to a run.
type IgnoredError struct {
	Reason string
}

func (e *IgnoredError) Error() string { return e.Reason }

func ignored(format string, args ...any) error {
	return &IgnoredError{Reason: fmt.Sprintf(format, args...)}
}

// IsIgnored reports whether err marks an event that should be acknowledged and dropped.
func IsIgnored(err error) bool {
	var ie *IgnoredError
	return errors.As(err, &ie)
}

// EventFromPullRequest transforms a GitHub pull_request webhook into a review event.
// Only opened, reopened and synchronize actions start a review.
func EventFromPullRequest(event *github.PullRequestEvent) (*ChangeEvent, error) {
	action := event.GetAction()
	if !slices.Contains(githubReviewActions, action) {
		return nil, ignored("Not a relevant PR action: %s", action)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, ignored("repository information is missing from the event")
	}

	number := event.GetNumber()
	if number <= 0 {
		number = event.GetPullRequest().GetNumber()
	}
	if number <= 0 {
		return nil, ignored("invalid pull request number: %d", number)
	}

	return &ChangeEvent{
		Kind: EventReview,
		Change: ChangeRef{
			Platform:  PlatformGitHub,
			ProjectID: repo.GetID(),
			Owner:     repo.GetOwner().GetLogin(),
			Repo:      repo.GetName(),
			ChangeID:  number,
		},
		Action:     action,
		Repository: repo.GetName(),
	}, nil
}

// EventFromIssueComment transforms a GitHub issue_comment webhook into a feedback event.
// Comments on plain issues, edits and deletions, and comments authored by the bot
// itself are ignored so that the bot never answers its own reviews.
func EventFromIssueComment(event *github.IssueCommentEvent, botLogin string) (*ChangeEvent, error) {
	if event.GetAction() != "created" {
		return nil, ignored("Not a comment creation event")
	}
	if event.GetIssue() == nil || !event.GetIssue().IsPullRequest() {
		return nil, ignored("comment is not on a pull request")
	}

	user := event.GetComment().GetUser()
	if user.GetType() == "Bot" || (botLogin != "" && strings.EqualFold(user.GetLogin(), botLogin)) {
		return nil, ignored("comment was posted by the review bot")
	}

	body := strings.TrimSpace(event.GetComment().GetBody())
	if body == "" {
		return nil, ignored("comment body is empty")
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, ignored("repository information is missing from the event")
	}

	number := event.GetIssue().GetNumber()
	if number <= 0 {
		return nil, ignored("invalid pull request number: %d", number)
	}

	return &ChangeEvent{
		Kind: EventFeedback,
		Change: ChangeRef{
			Platform:  PlatformGitHub,
			ProjectID: repo.GetID(),
			Owner:     repo.GetOwner().GetLogin(),
			Repo:      repo.GetName(),
			ChangeID:  number,
		},
		Action:     event.GetAction(),
		Repository: repo.GetName(),
		Comment:    body,
		Author:     user.GetLogin(),
	}, nil
}

// EventFromMergeRequest transforms a GitLab merge request hook into a review event.
func EventFromMergeRequest(event *gitlab.MergeEvent) (*ChangeEvent, error) {
	action := event.ObjectAttributes.Action
	if !slices.Contains(gitlabReviewActions, action) {
		return nil, ignored("Not a relevant MR action: %s", action)
	}

	projectID := event.Project.ID
	if projectID <= 0 {
		return nil, ignored("project information is missing from the event")
	}
	iid := event.ObjectAttributes.IID
	if iid <= 0 {
		return nil, ignored("invalid merge request IID: %d", iid)
	}

	return &ChangeEvent{
		Kind: EventReview,
		Change: ChangeRef{
			Platform:  PlatformGitLab,
			ProjectID: int64(projectID),
			ChangeID:  iid,
		},
		Action:     action,
		Repository: event.Project.PathWithNamespace,
	}, nil
}

// EventFromMergeNote transforms a GitLab note hook on a merge request into a feedback event.
func EventFromMergeNote(event *gitlab.MergeCommentEvent, botUsername string) (*ChangeEvent, error) {
	if event.ObjectAttributes.NoteableType != "" && event.ObjectAttributes.NoteableType != "MergeRequest" {
		return nil, ignored("note is not on a merge request")
	}

	author := ""
	if event.User != nil {
		author = event.User.Username
	}
	if botUsername != "" && strings.EqualFold(author, botUsername) {
		return nil, ignored("note was posted by the review bot")
	}

	body := strings.TrimSpace(event.ObjectAttributes.Note)
	if body == "" {
		return nil, ignored("note body is empty")
	}

	projectID := event.ProjectID
	if projectID <= 0 {
		projectID = event.Project.ID
	}
	if projectID <= 0 {
		return nil, ignored("project information is missing from the event")
	}
	iid := event.MergeRequest.IID
	if iid <= 0 {
		return nil, ignored("invalid merge request IID: %d", iid)
	}

	return &ChangeEvent{
		Kind: EventFeedback,
		Change: ChangeRef{
			Platform:  PlatformGitLab,
			ProjectID: int64(projectID),
			ChangeID:  iid,
		},
		Action:     "created",
		Repository: event.Project.PathWithNamespace,
		Comment:    body,
		Author:     author,
	}, nil
}
