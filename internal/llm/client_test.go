package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestModelClient_Complete(t *testing.T) {
	var gotPrompt string
	c := newClient(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "Looks fine.", nil
	}, "test-model", time.Second, testLogger())

	resp := c.Complete(context.Background(), "SYSTEM", "USER")
	assert.Equal(t, KindText, resp.Kind)
	assert.Equal(t, "Looks fine.", resp.Text())
	assert.Equal(t, "SYSTEM\n\nUSER", gotPrompt)
	assert.Equal(t, "test-model", c.Model())
}

func TestModelClient_EmptySystemPrompt(t *testing.T) {
	var gotPrompt string
	c := newClient(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "ok", nil
	}, "m", time.Second, testLogger())

	c.Complete(context.Background(), "", "USER")
	assert.Equal(t, "USER", gotPrompt)
}

func TestModelClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		call    callFunc
		timeout time.Duration
		want    string
	}{
		{
			name: "model error",
			call: func(context.Context, string) (string, error) {
				return "", errors.New("connection refused")
			},
			timeout: time.Second,
			want:    "Error: connection refused",
		},
		{
			name: "empty reply",
			call: func(context.Context, string) (string, error) {
				return "   ", nil
			},
			timeout: time.Second,
			want:    "Error: empty response from model",
		},
		{
			name: "hangs past timeout",
			call: func(context.Context, string) (string, error) {
				time.Sleep(500 * time.Millisecond)
				return "late", nil
			},
			timeout: 20 * time.Millisecond,
			want:    "Error: context deadline exceeded",
		},
		{
			name: "panics",
			call: func(context.Context, string) (string, error) {
				panic("boom")
			},
			timeout: time.Second,
			want:    "Error: model call panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(tt.call, "m", tt.timeout, testLogger())
			resp := c.Complete(context.Background(), "s", "u")
			assert.Equal(t, KindError, resp.Kind)
			assert.Equal(t, tt.want, resp.Text())
		})
	}
}
