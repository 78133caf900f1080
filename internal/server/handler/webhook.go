// Package handler provides HTTP handlers for the Warden Judge service.
package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"
	"github.com/xanzy/go-gitlab"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/core"
)

const maxPayloadBytes = 25 << 20

const servicesNotInitialized = "Services not initialized"

// Response is the JSON body of every webhook reply.
type Response struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// WebhookHandler validates inbound GitHub and GitLab webhooks, applies the
// allow-lists and hands accepted events to the dispatcher.
type WebhookHandler struct {
	cfg      *config.Config
	services *core.Services
	logger   *slog.Logger
}

// NewWebhookHandler creates a webhook handler. services may carry nil handles;
// events that need a missing collaborator are answered with an error status.
func NewWebhookHandler(cfg *config.Config, services *core.Services, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:      cfg,
		services: services,
		logger:   logger.With("component", "webhook"),
	}
}

// PullRequest handles GitHub pull_request events.
func (h *WebhookHandler) PullRequest(w http.ResponseWriter, r *http.Request) {
	var event github.PullRequestEvent
	if !h.decodeGitHub(w, r, "pull_request", &event) {
		return
	}

	ev, err := core.EventFromPullRequest(&event)
	if err != nil {
		h.ignore(w, err)
		return
	}
	if !h.gitHubAllowed(w, ev) {
		return
	}
	if !h.services.ReadyFor(core.PlatformGitHub) {
		writeJSON(w, http.StatusServiceUnavailable, Response{Status: "error", Reason: servicesNotInitialized})
		return
	}

	h.logger.Info("received PR webhook", "repo", ev.Repository, "pr", ev.Change.ChangeID, "action", ev.Action)
	h.dispatch(r.Context(), w, ev, fmt.Sprintf("Processing PR #%d asynchronously.", ev.Change.ChangeID))
}

// Comment handles GitHub issue_comment events on pull requests.
func (h *WebhookHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var event github.IssueCommentEvent
	if !h.decodeGitHub(w, r, "issue_comment", &event) {
		return
	}

	ev, err := core.EventFromIssueComment(&event, h.botLogin(core.PlatformGitHub))
	if err != nil {
		h.ignore(w, err)
		return
	}
	if !h.gitHubAllowed(w, ev) {
		return
	}
	if !h.feedbackReady(core.PlatformGitHub) {
		writeJSON(w, http.StatusServiceUnavailable, Response{Status: "error", Reason: servicesNotInitialized})
		return
	}

	h.logger.Info("received comment webhook", "repo", ev.Repository, "pr", ev.Change.ChangeID, "author", ev.Author)
	h.dispatch(r.Context(), w, ev, fmt.Sprintf("Processing feedback for PR #%d", ev.Change.ChangeID))
}

// MergeRequest handles GitLab merge request hooks.
func (h *WebhookHandler) MergeRequest(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeGitLab(w, r, gitlab.EventTypeMergeRequest)
	if !ok {
		return
	}
	event, ok := raw.(*gitlab.MergeEvent)
	if !ok {
		writeJSON(w, http.StatusOK, Response{Status: "ignored", Reason: fmt.Sprintf("Unexpected event payload %T", raw)})
		return
	}

	ev, err := core.EventFromMergeRequest(event)
	if err != nil {
		h.ignore(w, err)
		return
	}
	if !h.gitLabAllowed(w, ev) {
		return
	}
	if !h.services.ReadyFor(core.PlatformGitLab) {
		writeJSON(w, http.StatusServiceUnavailable, Response{Status: "error", Reason: servicesNotInitialized})
		return
	}

	h.logger.Info("received MR webhook", "project_id", ev.Change.ProjectID, "mr", ev.Change.ChangeID, "action", ev.Action)
	h.dispatch(r.Context(), w, ev, fmt.Sprintf("Processing MR !%d asynchronously.", ev.Change.ChangeID))
}

// Note handles GitLab note hooks on merge requests.
func (h *WebhookHandler) Note(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeGitLab(w, r, gitlab.EventTypeNote)
	if !ok {
		return
	}
	event, ok := raw.(*gitlab.MergeCommentEvent)
	if !ok {
		writeJSON(w, http.StatusOK, Response{Status: "ignored", Reason: "note is not on a merge request"})
		return
	}

	ev, err := core.EventFromMergeNote(event, h.botLogin(core.PlatformGitLab))
	if err != nil {
		h.ignore(w, err)
		return
	}
	if !h.gitLabAllowed(w, ev) {
		return
	}
	if !h.feedbackReady(core.PlatformGitLab) {
		writeJSON(w, http.StatusServiceUnavailable, Response{Status: "error", Reason: servicesNotInitialized})
		return
	}

	h.logger.Info("received note webhook", "project_id", ev.Change.ProjectID, "mr", ev.Change.ChangeID, "author", ev.Author)
	h.dispatch(r.Context(), w, ev, fmt.Sprintf("Processing feedback for MR !%d", ev.Change.ChangeID))
}

// botLogin returns the configured bot account for platform, falling back to the
// account the connector authenticated as.
func (h *WebhookHandler) botLogin(platform core.Platform) string {
	configured := h.cfg.GitHub.BotLogin
	if platform == core.PlatformGitLab {
		configured = h.cfg.GitLab.BotUsername
	}
	if configured != "" {
		return configured
	}
	return h.services.BotLogin(platform)
}

// decodeGitHub validates the signature and decodes the payload into dst. It
// writes the reply itself and returns false when the request must not proceed.
func (h *WebhookHandler) decodeGitHub(w http.ResponseWriter, r *http.Request, eventType string, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	payload, err := github.ValidatePayload(r, []byte(h.cfg.GitHub.WebhookSecret))
	if err != nil {
		h.logger.Warn("invalid webhook payload signature", "error", err)
		writeJSON(w, http.StatusUnauthorized, Response{Status: "error", Reason: "Invalid signature"})
		return false
	}

	if got := github.WebHookType(r); got != "" && got != eventType {
		writeJSON(w, http.StatusOK, Response{Status: "ignored", Reason: fmt.Sprintf("Event type %s not handled", got)})
		return false
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		h.logger.Warn("could not parse webhook", "event", eventType, "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Reason: "Could not parse webhook"})
		return false
	}
	return true
}

// decodeGitLab checks the shared token and parses the hook payload.
func (h *WebhookHandler) decodeGitLab(w http.ResponseWriter, r *http.Request, eventType gitlab.EventType) (any, bool) {
	if secret := h.cfg.GitLab.WebhookSecret; secret != "" {
		token := r.Header.Get("X-Gitlab-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			h.logger.Warn("invalid GitLab webhook token")
			writeJSON(w, http.StatusUnauthorized, Response{Status: "error", Reason: "Invalid token"})
			return nil, false
		}
	}

	if got := gitlab.HookEventType(r); got != "" && got != eventType {
		writeJSON(w, http.StatusOK, Response{Status: "ignored", Reason: fmt.Sprintf("Event type %s not handled", got)})
		return nil, false
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Reason: "Could not read webhook"})
		return nil, false
	}

	event, err := gitlab.ParseWebhook(eventType, payload)
	if err != nil {
		h.logger.Warn("could not parse webhook", "event", eventType, "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Reason: "Could not parse webhook"})
		return nil, false
	}
	return event, true
}

func (h *WebhookHandler) gitHubAllowed(w http.ResponseWriter, ev *core.ChangeEvent) bool {
	if h.cfg.GitHub.Allowed(ev.Change.Owner, ev.Change.Repo) {
		return true
	}
	writeJSON(w, http.StatusOK, Response{
		Status: "ignored",
		Reason: fmt.Sprintf("Repository %s/%s not allowed. Only %s/%s is supported.",
			ev.Change.Owner, ev.Change.Repo, h.cfg.GitHub.Owner, h.cfg.GitHub.Repo),
	})
	return false
}

func (h *WebhookHandler) gitLabAllowed(w http.ResponseWriter, ev *core.ChangeEvent) bool {
	if h.cfg.GitLab.Allowed(ev.Change.ProjectID) {
		return true
	}
	writeJSON(w, http.StatusOK, Response{
		Status: "ignored",
		Reason: fmt.Sprintf("Project %d not allowed. Only %d is supported.", ev.Change.ProjectID, h.cfg.GitLab.AllowedProjectID),
	})
	return false
}

// feedbackReady additionally requires the context store, which holds the review being defended.
func (h *WebhookHandler) feedbackReady(platform core.Platform) bool {
	return h.services.ReadyFor(platform) && h.services.Store != nil
}

func (h *WebhookHandler) ignore(w http.ResponseWriter, err error) {
	if !core.IsIgnored(err) {
		h.logger.Error("unexpected event conversion error", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Reason: "Could not interpret webhook"})
		return
	}
	h.logger.Debug("ignoring webhook", "reason", err.Error())
	writeJSON(w, http.StatusOK, Response{Status: "ignored", Reason: err.Error()})
}

func (h *WebhookHandler) dispatch(ctx context.Context, w http.ResponseWriter, ev *core.ChangeEvent, message string) {
	if err := h.services.Dispatcher.Dispatch(ctx, ev); err != nil {
		h.logger.Error("failed to dispatch job", "change", ev.Change.String(), "error", err)
		if errors.Is(err, core.ErrDispatcherStopped) {
			writeJSON(w, http.StatusServiceUnavailable, Response{Status: "error", Reason: "Service is shutting down"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Reason: "Failed to start job"})
		return
	}
	writeJSON(w, http.StatusAccepted, Response{Status: "accepted", Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
