// Package llm wraps language-model invocations for the review pipeline.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/warden-judge/internal/config"
)

// Client completes one prompt pair. It never returns a Go error: failures are
// reported as a KindError Response.
//
//go:generate mockgen -destination=../mocks/mock_llm_client.go -package=mocks -mock_names Client=MockLLMClient . Client
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) Response
	Model() string
}

// callFunc is the single model operation the client depends on.
type callFunc func(ctx context.Context, prompt string) (string, error)

type modelClient struct {
	model   string
	call    callFunc
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient wraps a goframe model. Every call is bounded by timeout.
func NewClient(model llms.Model, name string, timeout time.Duration, logger *slog.Logger) Client {
	return newClient(func(ctx context.Context, prompt string) (string, error) {
		return model.Call(ctx, prompt)
	}, name, timeout, logger)
}

func newClient(call callFunc, name string, timeout time.Duration, logger *slog.Logger) *modelClient {
	return &modelClient{
		model:   name,
		call:    call,
		timeout: timeout,
		logger:  logger.With("component", "llm", "model", name),
	}
}

func (c *modelClient) Model() string { return c.model }

// Complete joins the system and user prompts and invokes the model.
func (c *modelClient) Complete(ctx context.Context, systemPrompt, userPrompt string) Response {
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}

	start := time.Now()
	raw, err := c.generateWithTimeout(ctx, prompt)
	if err != nil {
		c.logger.Error("model call failed", "error", err, "duration", time.Since(start))
		return Failed(err)
	}
	if strings.TrimSpace(raw) == "" {
		c.logger.Error("model returned an empty response", "duration", time.Since(start))
		return Failed(errors.New("empty response from model"))
	}

	resp := ParseResponse(raw)
	c.logger.Debug("model call finished", "kind", resp.Kind, "chars", len(raw), "duration", time.Since(start))
	return resp
}

// generateWithTimeout wraps generation with a hard timeout, returning even when
// the underlying client ignores cancellation.
func (c *modelClient) generateWithTimeout(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- result{err: fmt.Errorf("model call panicked: %v", r)}
			}
		}()
		resp, err := c.call(ctx, prompt)
		resultCh <- result{resp, err}
	}()

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// newOllamaHTTPClient creates an HTTP client with generous timeouts, since local
// models can take a while to answer.
func newOllamaHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// NewModel creates the goframe model for the configured provider.
func NewModel(ctx context.Context, cfg config.AIConfig, model string, logger *slog.Logger) (llms.Model, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(model),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)
	case config.ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithModel(model),
			ollama.WithHTTPClient(newOllamaHTTPClient(cfg.Timeout)),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// Models holds one client per pipeline stage.
type Models struct {
	ReviewerA Client
	ReviewerB Client
	Judge     Client
	Justify   Client
}

// NewModels creates the per-stage clients. Stages configured with the same model
// share one underlying goframe model.
func NewModels(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*Models, error) {
	cache := make(map[string]Client)
	get := func(name string) (Client, error) {
		if c, ok := cache[name]; ok {
			return c, nil
		}
		logger.Info("connecting to LLM", "provider", cfg.Provider, "model", name)
		m, err := NewModel(ctx, cfg, name, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create model %s: %w", name, err)
		}
		c := NewClient(m, name, cfg.Timeout, logger)
		cache[name] = c
		return c, nil
	}

	var (
		models Models
		err    error
	)
	if models.ReviewerA, err = get(cfg.ReviewerAModel); err != nil {
		return nil, err
	}
	if models.ReviewerB, err = get(cfg.ReviewerBModel); err != nil {
		return nil, err
	}
	if models.Judge, err = get(cfg.JudgeModel); err != nil {
		return nil, err
	}
	if models.Justify, err = get(cfg.JustifyModel); err != nil {
		return nil, err
	}
	return &models, nil
}
