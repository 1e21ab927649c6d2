// Package tokencount provides token counting and prompt budgeting for LLM
// calls via tiktoken-go. Remote adapters use it to keep long resumes and
// job descriptions inside a provider's context window.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting for LLM models.
type Counter struct {
	mu            sync.RWMutex
	encodingCache map[string]*tiktoken.Tiktoken
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

// DefaultCounter is a global token counter instance.
var DefaultCounter = NewCounter()

func (c *Counter) encodingFor(model string) (*tiktoken.Tiktoken, error) {
	norm := normalizeModelName(model)

	c.mu.RLock()
	enc, ok := c.encodingCache[norm]
	c.mu.RUnlock()
	if ok {
		return enc, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodingCache[norm]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(norm)
	if err != nil {
		// cl100k_base covers GPT-4-family tokenization and is a reasonable
		// approximation for every model this engine talks to.
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model), slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	c.encodingCache[norm] = enc
	return enc, nil
}

// Count returns the number of tokens in text for the given model. On
// encoding errors it falls back to a 4-chars-per-token estimate so callers
// never fail on counting alone.
func (c *Counter) Count(model, text string) int {
	enc, err := c.encodingFor(model)
	if err != nil {
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// Truncate limits text to at most budget tokens for the given model,
// preserving a prefix. A non-positive budget returns the text unchanged.
func (c *Counter) Truncate(model, text string, budget int) string {
	if budget <= 0 {
		return text
	}
	enc, err := c.encodingFor(model)
	if err != nil {
		// Estimate: keep ~4 chars per token.
		max := budget * 4
		if len(text) <= max {
			return text
		}
		return text[:max]
	}
	ids := enc.Encode(text, nil, nil)
	if len(ids) <= budget {
		return text
	}
	return enc.Decode(ids[:budget])
}

// normalizeModelName converts provider model IDs to tiktoken-compatible names.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	switch {
	case strings.Contains(model, "gpt-4"):
		return "gpt-4"
	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		// deepseek, gemini and friends tokenize close enough to GPT-4 for
		// budgeting purposes.
		return "gpt-4"
	}
}
