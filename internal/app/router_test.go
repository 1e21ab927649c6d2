package app_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/offline"
	httpserver "github.com/fairyhunter13/ai-recruit-engine/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-recruit-engine/internal/app"
	"github.com/fairyhunter13/ai-recruit-engine/internal/config"
	"github.com/fairyhunter13/ai-recruit-engine/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, app.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, app.ParseOrigins(" https://a.test , https://b.test "))
	assert.Equal(t, []string{"*"}, app.ParseOrigins(" , "))
}

func buildTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		SkillsWeight:        0.5,
		ExperienceWeight:    0.3,
		EducationWeight:     0.1,
		LocationWeight:      0.1,
		GapFloorRatio:       0.5,
		QuestionTargetCount: 7,
		ProviderTimeout:     time.Second,
		RateLimitPerMin:     1000,
		CORSAllowOrigins:    "*",
	}
	vocab, err := offline.LoadVocabulary("")
	require.NoError(t, err)
	bank, err := offline.LoadQuestionBank("")
	require.NoError(t, err)
	matcher := usecase.NewMatcher(cfg)
	engine := offline.New(vocab, bank, cfg.QuestionTargetCount, matcher)
	orch, err := usecase.NewOrchestrator(nil, nil, engine, cfg.CredentialFor, cfg.ProviderTimeout)
	require.NoError(t, err)
	srv := httpserver.NewServer(cfg, usecase.NewAnalysisService(orch, matcher))
	return app.BuildRouter(cfg, srv)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()
	h := buildTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h := buildTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ResumeAnalyzeEndToEnd(t *testing.T) {
	t.Parallel()
	h := buildTestHandler(t)
	body := `{"resume_text": "Jane Doe\nPython developer, 3 years of experience."}`
	req := httptest.NewRequest(http.MethodPost, "/v1/resume/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"offline"`)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	t.Parallel()
	h := buildTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
