package core_test

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xanzy/go-gitlab"

	"github.com/sevigo/warden-judge/internal/core"
)

func pullRequestEvent(action string, number int) *github.PullRequestEvent {
	return &github.PullRequestEvent{
		Action: github.Ptr(action),
		Number: github.Ptr(number),
		Repo: &github.Repository{
			ID:    github.Ptr(int64(77)),
			Name:  github.Ptr("warden"),
			Owner: &github.User{Login: github.Ptr("sevigo")},
		},
	}
}

func TestEventFromPullRequest(t *testing.T) {
	for _, action := range []string{"opened", "reopened", "synchronize"} {
		t.Run(action, func(t *testing.T) {
			ev, err := core.EventFromPullRequest(pullRequestEvent(action, 12))
			require.NoError(t, err)
			assert.Equal(t, core.EventReview, ev.Kind)
			assert.Equal(t, core.ChangeRef{
				Platform:  core.PlatformGitHub,
				ProjectID: 77,
				Owner:     "sevigo",
				Repo:      "warden",
				ChangeID:  12,
			}, ev.Change)
			assert.Equal(t, "warden", ev.Repository)
		})
	}

	t.Run("closed is ignored", func(t *testing.T) {
		_, err := core.EventFromPullRequest(pullRequestEvent("closed", 12))
		require.Error(t, err)
		assert.True(t, core.IsIgnored(err))
		assert.Equal(t, "Not a relevant PR action: closed", err.Error())
	})

	t.Run("number falls back to the pull request", func(t *testing.T) {
		event := pullRequestEvent("opened", 0)
		event.PullRequest = &github.PullRequest{Number: github.Ptr(5)}
		ev, err := core.EventFromPullRequest(event)
		require.NoError(t, err)
		assert.Equal(t, 5, ev.Change.ChangeID)
	})

	t.Run("missing repository is ignored", func(t *testing.T) {
		event := pullRequestEvent("opened", 3)
		event.Repo = nil
		_, err := core.EventFromPullRequest(event)
		assert.True(t, core.IsIgnored(err))
	})
}

func issueCommentEvent(body string) *github.IssueCommentEvent {
	return &github.IssueCommentEvent{
		Action: github.Ptr("created"),
		Issue: &github.Issue{
			Number:           github.Ptr(9),
			PullRequestLinks: &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/repos/sevigo/warden/pulls/9")},
		},
		Comment: &github.IssueComment{
			Body: github.Ptr(body),
			User: &github.User{Login: github.Ptr("alice"), Type: github.Ptr("User")},
		},
		Repo: &github.Repository{
			ID:    github.Ptr(int64(77)),
			Name:  github.Ptr("warden"),
			Owner: &github.User{Login: github.Ptr("sevigo")},
		},
	}
}

func TestEventFromIssueComment(t *testing.T) {
	t.Run("feedback on a pull request", func(t *testing.T) {
		ev, err := core.EventFromIssueComment(issueCommentEvent("  this is intentional  "), "warden-bot")
		require.NoError(t, err)
		assert.Equal(t, core.EventFeedback, ev.Kind)
		assert.Equal(t, 9, ev.Change.ChangeID)
		assert.Equal(t, "this is intentional", ev.Comment)
		assert.Equal(t, "alice", ev.Author)
	})

	tests := []struct {
		name   string
		mutate func(*github.IssueCommentEvent)
	}{
		{"edited", func(e *github.IssueCommentEvent) { e.Action = github.Ptr("edited") }},
		{"plain issue", func(e *github.IssueCommentEvent) { e.Issue.PullRequestLinks = nil }},
		{"bot type", func(e *github.IssueCommentEvent) { e.Comment.User.Type = github.Ptr("Bot") }},
		{"bot login", func(e *github.IssueCommentEvent) { e.Comment.User.Login = github.Ptr("Warden-Bot") }},
		{"empty body", func(e *github.IssueCommentEvent) { e.Comment.Body = github.Ptr("   ") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := issueCommentEvent("please explain")
			tt.mutate(event)
			_, err := core.EventFromIssueComment(event, "warden-bot")
			assert.True(t, core.IsIgnored(err), "got %v", err)
		})
	}
}

func TestEventFromMergeRequest(t *testing.T) {
	event := &gitlab.MergeEvent{}
	event.ObjectAttributes.Action = "update"
	event.ObjectAttributes.IID = 42
	event.Project.ID = 8462
	event.Project.PathWithNamespace = "group/warden"

	ev, err := core.EventFromMergeRequest(event)
	require.NoError(t, err)
	assert.Equal(t, core.ChangeRef{Platform: core.PlatformGitLab, ProjectID: 8462, ChangeID: 42}, ev.Change)
	assert.Equal(t, "gitlab:8462!42", ev.Change.String())

	event.ObjectAttributes.Action = "merge"
	_, err = core.EventFromMergeRequest(event)
	assert.True(t, core.IsIgnored(err))
}

func TestEventFromMergeNote(t *testing.T) {
	newNote := func() *gitlab.MergeCommentEvent {
		event := &gitlab.MergeCommentEvent{ProjectID: 8462, User: &gitlab.EventUser{Username: "bob"}}
		event.ObjectAttributes.Note = "why is this a blocker?"
		event.ObjectAttributes.NoteableType = "MergeRequest"
		event.MergeRequest.IID = 42
		return event
	}

	ev, err := core.EventFromMergeNote(newNote(), "warden")
	require.NoError(t, err)
	assert.Equal(t, core.EventFeedback, ev.Kind)
	assert.Equal(t, int64(8462), ev.Change.ProjectID)
	assert.Equal(t, "bob", ev.Author)

	own := newNote()
	own.User.Username = "warden"
	_, err = core.EventFromMergeNote(own, "warden")
	assert.True(t, core.IsIgnored(err))

	commit := newNote()
	commit.ObjectAttributes.NoteableType = "Commit"
	_, err = core.EventFromMergeNote(commit, "warden")
	assert.True(t, core.IsIgnored(err))
}
