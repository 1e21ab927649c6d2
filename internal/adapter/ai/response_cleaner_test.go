package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

func TestCleanJSONResponse_MarkdownFences(t *testing.T) {
	t.Parallel()
	in := "```json\n{\"name\": \"Ada\"}\n```"
	assert.Equal(t, `{"name": "Ada"}`, ai.CleanJSONResponse(in))
}

func TestCleanJSONResponse_ProseAroundObject(t *testing.T) {
	t.Parallel()
	in := `Sure! Here is the extraction: {"name": "Ada", "skills": ["Python"]} Hope that helps.`
	assert.Equal(t, `{"name": "Ada", "skills": ["Python"]}`, ai.CleanJSONResponse(in))
}

func TestCleanJSONResponse_BracesInsideStrings(t *testing.T) {
	t.Parallel()
	in := `{"summary": "loves {curly} braces", "ok": true} trailing`
	assert.Equal(t, `{"summary": "loves {curly} braces", "ok": true}`, ai.CleanJSONResponse(in))
}

func TestCleanJSONResponse_TrailingCommas(t *testing.T) {
	t.Parallel()
	in := `{"skills": ["Go",], "n": 1,}`
	out := ai.CleanJSONResponse(in)
	assert.Equal(t, `{"skills": ["Go"], "n": 1}`, out)
}

func TestDecodeObject_OK(t *testing.T) {
	t.Parallel()
	m, err := ai.DecodeObject("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, float64(1), m["a"])
}

func TestDecodeObject_NotJSON(t *testing.T) {
	t.Parallel()
	_, err := ai.DecodeObject("I refuse to answer that.")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
