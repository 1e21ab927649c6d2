// Package ai provides the shared plumbing for remote provider adapters:
// response cleaning, canonical normalization, and prompt construction.
package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// CleanJSONResponse strips the decoration LLMs wrap around JSON payloads
// (markdown fences, prose before/after the object, trailing commas) and
// returns the bare JSON object text. It never errors; callers detect
// unusable output when json.Unmarshal fails.
func CleanJSONResponse(response string) string {
	response = stripMarkdownFences(response)
	response = extractJSONObject(response)
	response = stripTrailingCommas(response)
	return strings.TrimSpace(response)
}

func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} block, tolerating prose
// around it. Brace counting ignores braces inside string literals.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

func stripTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// DecodeObject cleans and unmarshals an LLM response into a loose mapping.
func DecodeObject(response string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(CleanJSONResponse(response)), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return m, nil
}
