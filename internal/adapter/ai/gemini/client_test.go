package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

func generateServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		})
	}))
}

func newClient(baseURL string) *gemini.Client {
	return gemini.New(gemini.Options{BaseURL: baseURL, APIKey: "test-key", Model: "gemini-1.5-flash"})
}

func jobReq() domain.ExtractionRequest {
	return domain.ExtractionRequest{Kind: domain.KindJob, JobText: "Backend Engineer\nGo and PostgreSQL."}
}

func TestAttempt_Success(t *testing.T) {
	t.Parallel()
	srv := generateServer(t, http.StatusOK, `{"title":"Backend Engineer","required_skills":["Go","PostgreSQL"]}`)
	defer srv.Close()

	res, err := newClient(srv.URL).Attempt(context.Background(), jobReq())
	require.NoError(t, err)
	require.NotNil(t, res.Job)
	assert.Equal(t, "Backend Engineer", res.Job.Title)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, res.Job.RequiredSkills)
}

func TestAttempt_ForbiddenIsAuthRejected(t *testing.T) {
	t.Parallel()
	srv := generateServer(t, http.StatusForbidden, "")
	defer srv.Close()

	_, err := newClient(srv.URL).Attempt(context.Background(), jobReq())
	assert.ErrorIs(t, err, domain.ErrAuthRejected)
}

func TestAttempt_RateLimitSurfaced(t *testing.T) {
	t.Parallel()
	srv := generateServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	_, err := newClient(srv.URL).Attempt(context.Background(), jobReq())
	assert.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
}

func TestAttempt_EmptyCandidatesIsMalformed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Attempt(context.Background(), jobReq())
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestAttempt_MissingCredentialFailsFast(t *testing.T) {
	t.Parallel()
	c := gemini.New(gemini.Options{BaseURL: "http://127.0.0.1:0"})
	_, err := c.Attempt(context.Background(), jobReq())
	assert.ErrorIs(t, err, domain.ErrAuthRejected)
}
