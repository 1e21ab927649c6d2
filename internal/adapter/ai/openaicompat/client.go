// Package openaicompat implements remote providers speaking the
// OpenAI-compatible chat completions protocol. DeepSeek and OpenAI differ
// only in base URL, model and credential, so both are instances of the same
// client.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"log/slog"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai"
	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// Options configures one chat-completions provider instance.
type Options struct {
	ProviderID string
	BaseURL    string
	APIKey     string
	Model      string
	// TokenBudget caps the user prompt; longer prompts are truncated, not
	// rejected.
	TokenBudget int
}

// Client implements domain.Provider against a chat-completions endpoint.
type Client struct {
	opts    Options
	hc      *http.Client
	counter *tokencount.Counter
	norm    *ai.Normalizer
}

// New constructs a chat-completions client. The HTTP client carries no
// timeout of its own; the orchestrator bounds every attempt through the
// request context.
func New(opts Options) *Client {
	return &Client{
		opts:    opts,
		hc:      &http.Client{},
		counter: tokencount.NewCounter(),
		norm:    ai.NewNormalizer(),
	}
}

// ID implements domain.Provider.
func (c *Client) ID() string { return c.opts.ProviderID }

// Attempt implements domain.Provider. It builds the prompt for the request
// kind, calls the chat endpoint with retries, and normalizes the JSON reply
// into the canonical schema.
func (c *Client) Attempt(ctx context.Context, req domain.ExtractionRequest) (domain.CanonicalResult, error) {
	if c.opts.APIKey == "" {
		return domain.CanonicalResult{}, fmt.Errorf("%w: %s credential missing", domain.ErrAuthRejected, c.opts.ProviderID)
	}
	system, user, err := ai.BuildPrompt(req)
	if err != nil {
		return domain.CanonicalResult{}, err
	}
	if c.opts.TokenBudget > 0 {
		user = c.counter.Truncate(c.opts.Model, user, c.opts.TokenBudget)
	}

	content, err := c.chatJSON(ctx, system, user)
	if err != nil {
		return domain.CanonicalResult{}, err
	}

	raw, err := ai.DecodeObject(content)
	if err != nil {
		slog.Warn("provider returned undecodable payload",
			slog.String("provider", c.opts.ProviderID),
			slog.String("kind", string(req.Kind)),
			slog.Any("error", err))
		return domain.CanonicalResult{}, err
	}
	return c.norm.Canonical(req.Kind, raw)
}

func (c *Client) chatJSON(ctx context.Context, system, user string) (string, error) {
	body := map[string]any{
		"model":       c.opts.Model,
		"temperature": 0.2,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	b, _ := json.Marshal(body)

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	endpoint := c.opts.BaseURL + "/chat/completions"
	op := func() error {
		// Recreate the request each attempt to avoid reusing consumed bodies.
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			// Surface immediately: the orchestrator advances to the next
			// provider instead of hammering a throttled one.
			slog.Warn("provider rate limited",
				slog.String("provider", c.opts.ProviderID),
				slog.Int("status", resp.StatusCode))
			return backoff.Permanent(fmt.Errorf("%w: status 429", domain.ErrUpstreamRateLimit))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			slog.Warn("provider rejected credential",
				slog.String("provider", c.opts.ProviderID),
				slog.Int("status", resp.StatusCode))
			return backoff.Permanent(fmt.Errorf("%w: status %d", domain.ErrAuthRejected, resp.StatusCode))
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			slog.Warn("provider 4xx",
				slog.String("provider", c.opts.ProviderID),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			slog.Error("provider non-2xx",
				slog.String("provider", c.opts.ProviderID),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decode chat response: %v", domain.ErrMalformedResponse, err))
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = 0 // the attempt context bounds total time
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return "", classifyTransport(err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty choices", domain.ErrMalformedResponse)
	}
	return out.Choices[0].Message.Content, nil
}

// classifyTransport folds transport-level failures into the sentinel
// taxonomy; errors already carrying a sentinel pass through unchanged.
func classifyTransport(err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstreamRateLimit),
		errors.Is(err, domain.ErrAuthRejected),
		errors.Is(err, domain.ErrMalformedResponse):
		return err
	case errors.Is(err, context.DeadlineExceeded), os.IsTimeout(err):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	default:
		return err
	}
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
