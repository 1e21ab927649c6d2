// Package gemini implements the google_ai provider against the Gemini
// generateContent REST API.
package gemini

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

// ProviderID is the chain identifier for this adapter.
const ProviderID = "google_ai"

// Options configures the Gemini client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	TokenBudget int
}

// Client implements domain.Provider.
type Client struct {
	opts    Options
	hc      *http.Client
	counter *tokencount.Counter
	norm    *ai.Normalizer
}

// New constructs a Gemini client. Attempt deadlines come from the request
// context, so the HTTP client carries no timeout.
func New(opts Options) *Client {
	return &Client{
		opts:    opts,
		hc:      &http.Client{},
		counter: tokencount.NewCounter(),
		norm:    ai.NewNormalizer(),
	}
}

// ID implements domain.Provider.
func (c *Client) ID() string { return ProviderID }

// Attempt implements domain.Provider.
func (c *Client) Attempt(ctx context.Context, req domain.ExtractionRequest) (domain.CanonicalResult, error) {
	if c.opts.APIKey == "" {
		return domain.CanonicalResult{}, fmt.Errorf("%w: google_ai credential missing", domain.ErrAuthRejected)
	}
	system, user, err := ai.BuildPrompt(req)
	if err != nil {
		return domain.CanonicalResult{}, err
	}
	if c.opts.TokenBudget > 0 {
		user = c.counter.Truncate(c.opts.Model, user, c.opts.TokenBudget)
	}

	content, err := c.generateContent(ctx, system, user)
	if err != nil {
		return domain.CanonicalResult{}, err
	}
	raw, err := ai.DecodeObject(content)
	if err != nil {
		slog.Warn("provider returned undecodable payload",
			slog.String("provider", ProviderID),
			slog.String("kind", string(req.Kind)),
			slog.Any("error", err))
		return domain.CanonicalResult{}, err
	}
	return c.norm.Canonical(req.Kind, raw)
}

func (c *Client) generateContent(ctx context.Context, system, user string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": user}}},
		},
		"systemInstruction": map[string]any{
			"parts": []map[string]string{{"text": system}},
		},
		"generationConfig": map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
		},
	}
	b, _ := json.Marshal(body)

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.opts.BaseURL, c.opts.Model)
	op := func() error {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("x-goog-api-key", c.opts.APIKey)
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
				slog.String("provider", ProviderID),
				slog.Int("status", resp.StatusCode))
			return backoff.Permanent(fmt.Errorf("%w: status 429", domain.ErrUpstreamRateLimit))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			slog.Warn("provider rejected credential",
				slog.String("provider", ProviderID),
				slog.Int("status", resp.StatusCode))
			return backoff.Permanent(fmt.Errorf("%w: status %d", domain.ErrAuthRejected, resp.StatusCode))
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			slog.Warn("provider 4xx",
				slog.String("provider", ProviderID),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("generate status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			slog.Error("provider non-2xx",
				slog.String("provider", ProviderID),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("generate status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decode generate response: %v", domain.ErrMalformedResponse, err))
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = 0
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return "", classifyTransport(err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", domain.ErrMalformedResponse)
	}
	text := ""
	for _, p := range out.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", domain.ErrMalformedResponse)
	}
	return text, nil
}

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
