package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/warden-judge/internal/config"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and webhook routes.
func NewRouter(cfg *config.Config, services *core.Services, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/", handler.NewStatusHandler(services).Handle)

	r.Route("/webhook", func(r chi.Router) {
		webhookHandler := handler.NewWebhookHandler(cfg, services, logger)
		r.Post("/pull_request", webhookHandler.PullRequest)
		r.Post("/comment", webhookHandler.Comment)
		r.Post("/merge_request", webhookHandler.MergeRequest)
		r.Post("/note", webhookHandler.Note)
	})

	return r
}
