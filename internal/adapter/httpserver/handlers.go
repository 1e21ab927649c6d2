package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/observability"
	"github.com/fairyhunter13/ai-recruit-engine/internal/config"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
	"github.com/fairyhunter13/ai-recruit-engine/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg      config.Config
	Analysis usecase.AnalysisService
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, analysis usecase.AnalysisService) *Server {
	return &Server{Cfg: cfg, Analysis: analysis}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// decodeValid decodes a JSON body into dst and runs struct validation.
func decodeValid(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := getValidator().Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

type resumeAnalyzeRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
}

type jobAnalyzeRequest struct {
	JobText string `json:"job_text" validate:"required"`
}

type matchRequest struct {
	Resume domain.ResumeProfile `json:"resume" validate:"required"`
	Job    domain.JobProfile    `json:"job" validate:"required"`
}

type questionsRequest struct {
	Job    domain.JobProfile     `json:"job" validate:"required"`
	Resume *domain.ResumeProfile `json:"resume,omitempty"`
}

// analysisResponse is the uniform success envelope: the winning provider,
// the canonical payload for the request kind, and the full attempt log.
type analysisResponse struct {
	Provider  string                   `json:"provider"`
	Resume    *domain.ResumeProfile    `json:"resume,omitempty"`
	Job       *domain.JobProfile       `json:"job,omitempty"`
	Match     *domain.MatchResult      `json:"match,omitempty"`
	Questions *domain.QuestionSet      `json:"questions,omitempty"`
	Attempts  []domain.ProviderAttempt `json:"attempts"`
}

func envelope(res usecase.OrchestratorResult) analysisResponse {
	return analysisResponse{
		Provider:  res.Provider,
		Resume:    res.Result.Resume,
		Job:       res.Result.Job,
		Match:     res.Result.Match,
		Questions: res.Result.Questions,
		Attempts:  res.Attempts,
	}
}

// AnalyzeResumeHandler extracts a structured profile from resume free text.
func (s *Server) AnalyzeResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resumeAnalyzeRequest
		if err := decodeValid(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		res, err := s.Analysis.AnalyzeResume(r.Context(), req.ResumeText)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, envelope(res))
	}
}

// AnalyzeJobHandler extracts a structured profile from a job description.
func (s *Server) AnalyzeJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobAnalyzeRequest
		if err := decodeValid(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		res, err := s.Analysis.AnalyzeJob(r.Context(), req.JobText)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, envelope(res))
	}
}

// MatchHandler scores a structured resume against a structured job.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if err := decodeValid(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		res, err := s.Analysis.Match(r.Context(), req.Resume, req.Job)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if m := res.Result.Match; m != nil {
			observability.MatchOverallScore.Observe(m.OverallScore)
			observability.MatchRecommendationsTotal.WithLabelValues(string(m.Recommendation)).Inc()
		}
		writeJSON(w, http.StatusOK, envelope(res))
	}
}

// QuestionsHandler generates interview questions for a job, optionally
// personalized against a resume.
func (s *Server) QuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionsRequest
		if err := decodeValid(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		res, err := s.Analysis.GenerateQuestions(r.Context(), req.Job, req.Resume)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, envelope(res))
	}
}

// HealthHandler reports liveness and the resolved provider chain.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"providers": s.Analysis.Orchestrator.Providers(),
		})
	}
}
