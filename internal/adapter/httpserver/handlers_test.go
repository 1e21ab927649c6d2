package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/offline"
	httpserver "github.com/fairyhunter13/ai-recruit-engine/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-recruit-engine/internal/config"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
	"github.com/fairyhunter13/ai-recruit-engine/internal/usecase"
)

func testConfig() config.Config {
	return config.Config{
		SkillsWeight:        0.5,
		ExperienceWeight:    0.3,
		EducationWeight:     0.1,
		LocationWeight:      0.1,
		GapFloorRatio:       0.5,
		QuestionTargetCount: 7,
		ProviderTimeout:     time.Second,
		RateLimitPerMin:     1000,
	}
}

// newServer wires an offline-only chain: deterministic, no network.
func newServer(t *testing.T) *httpserver.Server {
	t.Helper()
	cfg := testConfig()
	vocab, err := offline.LoadVocabulary("")
	require.NoError(t, err)
	bank, err := offline.LoadQuestionBank("")
	require.NoError(t, err)

	matcher := usecase.NewMatcher(cfg)
	engine := offline.New(vocab, bank, cfg.QuestionTargetCount, matcher)
	orch, err := usecase.NewOrchestrator(nil, nil, engine, cfg.CredentialFor, cfg.ProviderTimeout)
	require.NoError(t, err)
	return httpserver.NewServer(cfg, usecase.NewAnalysisService(orch, matcher))
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAnalyzeResume_OK(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	rec := postJSON(t, srv.AnalyzeResumeHandler(), map[string]string{
		"resume_text": "Jane Doe\n5 years of experience with Python and PostgreSQL.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Provider string                   `json:"provider"`
		Resume   *domain.ResumeProfile    `json:"resume"`
		Attempts []domain.ProviderAttempt `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.OfflineProviderID, resp.Provider)
	require.NotNil(t, resp.Resume)
	assert.Equal(t, "Jane Doe", resp.Resume.Name)
	assert.Equal(t, 5, resp.Resume.ExperienceYears)
	require.Len(t, resp.Attempts, 1)
	assert.Equal(t, domain.OutcomeSuccess, resp.Attempts[0].Outcome)
}

func TestAnalyzeResume_EmptyTextRejected(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	rec := postJSON(t, srv.AnalyzeResumeHandler(), map[string]string{"resume_text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestAnalyzeResume_MalformedBodyRejected(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.AnalyzeResumeHandler()(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeJob_OK(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	rec := postJSON(t, srv.AnalyzeJobHandler(), map[string]string{
		"job_text": "Senior Go Engineer\nRequirements:\n- Go\n- PostgreSQL\n- 5+ years",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Job *domain.JobProfile `json:"job"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Job)
	assert.Equal(t, "Senior Go Engineer", resp.Job.Title)
	assert.Contains(t, resp.Job.RequiredSkills, "Go")
}

func TestMatch_OK(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	rec := postJSON(t, srv.MatchHandler(), map[string]any{
		"resume": domain.ResumeProfile{
			Name:            "Jane",
			Skills:          []string{"Python", "FastAPI", "PostgreSQL"},
			ExperienceYears: 5,
			Contact:         domain.Contact{Location: "Remote"},
		},
		"job": domain.JobProfile{
			Title:              "Backend Engineer",
			RequiredSkills:     []string{"Python", "FastAPI", "PostgreSQL"},
			MinExperienceYears: 5,
			Location:           "Remote",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Match *domain.MatchResult `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Match)
	assert.GreaterOrEqual(t, resp.Match.OverallScore, 95.0)
	assert.Equal(t, domain.RecommendHire, resp.Match.Recommendation)
}

func TestQuestions_OK(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	rec := postJSON(t, srv.QuestionsHandler(), map[string]any{
		"job": domain.JobProfile{Title: "Backend Engineer", RequiredSkills: []string{"Python"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Questions *domain.QuestionSet `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Questions)
	assert.NotEmpty(t, resp.Questions.Questions)
}

func TestHealth_ReportsChain(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.HealthHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.OfflineProviderID)
}
