// internal/genai/client.go
package genai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	gemini "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"bookbot/internal/common/config"
	"bookbot/internal/common/logger"
	"bookbot/internal/common/metrics"
)

var (
	ErrNotConfigured    = errors.New("LLM_NOT_CONFIGURED")
	ErrTimeout          = errors.New("LLM_TIMEOUT")
	ErrGenerationFailed = errors.New("LLM_GENERATION_FAILED")
)

// GenerationConfig carries the per-call sampling parameters. Every call site
// requests a JSON response; the MIME type is fixed by the client.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	// Mode labels the call for metrics: "summary", "open_world", "recommend".
	Mode string
}

// Client wraps the Gemini API behind a single Generate operation.
type Client struct {
	client     *gemini.Client
	model      string
	timeout    time.Duration
	maxRetries int
	logger     logger.Logger
}

// NewClient creates a Gemini client. Callers must not construct one without
// a credential; use NewDisabled for the unconfigured state.
func NewClient(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	client, err := gemini.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return &Client{
		client:     client,
		model:      cfg.Model,
		timeout:    config.GetDuration(cfg.Timeout),
		maxRetries: cfg.MaxRetries,
		logger:     log.With(map[string]interface{}{"component": "genai"}),
	}, nil
}

// Generate sends one prompt and returns the raw model text. The call is
// bounded by the configured timeout and retried with exponential backoff
// plus jitter; callers are expected to fall back locally when it fails.
func (c *Client) Generate(ctx context.Context, prompt string, gc GenerationConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(gc.Temperature)
	model.SetTopP(gc.TopP)
	model.SetMaxOutputTokens(gc.MaxOutputTokens)
	model.ResponseMIMEType = "application/json"

	metrics.LLMRequestsTotal.WithLabelValues(gc.Mode).Inc()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(100*(1<<(attempt-2))) * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(backoff) + 1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.LLMFailuresTotal.WithLabelValues(gc.Mode, "LLM_TIMEOUT").Inc()
				return "", ErrTimeout
			}
		}

		resp, err := model.GenerateContent(ctx, gemini.Text(prompt))
		if err != nil {
			if ctx.Err() != nil {
				metrics.LLMFailuresTotal.WithLabelValues(gc.Mode, "LLM_TIMEOUT").Inc()
				return "", ErrTimeout
			}
			lastErr = err
			c.logger.Warn("generate attempt failed", map[string]interface{}{
				"attempt": attempt,
				"mode":    gc.Mode,
				"error":   err.Error(),
			})
			continue
		}

		text := strings.TrimSpace(extractText(resp))
		if text == "" {
			lastErr = fmt.Errorf("empty response")
			c.logger.Warn("generate returned empty response", map[string]interface{}{
				"attempt": attempt,
				"mode":    gc.Mode,
			})
			continue
		}

		return text, nil
	}

	metrics.LLMFailuresTotal.WithLabelValues(gc.Mode, "LLM_GENERATION_FAILED").Inc()
	if lastErr != nil {
		return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, c.maxRetries, lastErr)
	}
	return "", fmt.Errorf("%w after %d attempts", ErrGenerationFailed, c.maxRetries)
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// extractText concatenates the text parts of every candidate.
func extractText(resp *gemini.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(fmt.Sprintf("%v", part))
		}
	}
	return b.String()
}

// Disabled is the explicit no-credential variant of the generator. Every
// call fails with ErrNotConfigured so callers short-circuit to their local
// fallbacks without ever reaching the network.
type Disabled struct{}

// NewDisabled returns the unconfigured generator.
func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) Generate(ctx context.Context, prompt string, gc GenerationConfig) (string, error) {
	return "", ErrNotConfigured
}
