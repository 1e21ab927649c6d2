package usecase

import (
	"context"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
	"github.com/fairyhunter13/ai-recruit-engine/pkg/textx"
)

// AnalysisService is the application facade: sanitizes raw text, routes
// through the orchestrator, and hands back canonical results with their
// attempt provenance.
type AnalysisService struct {
	Orchestrator *Orchestrator
	Matcher      *Matcher
}

// NewAnalysisService constructs the facade.
func NewAnalysisService(o *Orchestrator, m *Matcher) AnalysisService {
	return AnalysisService{Orchestrator: o, Matcher: m}
}

// AnalyzeResume extracts a canonical resume profile from free text.
func (s AnalysisService) AnalyzeResume(ctx context.Context, text string) (OrchestratorResult, error) {
	return s.Orchestrator.Run(ctx, domain.ExtractionRequest{
		Kind:       domain.KindResume,
		ResumeText: textx.SanitizeText(text),
	})
}

// AnalyzeJob extracts a canonical job profile from free text.
func (s AnalysisService) AnalyzeJob(ctx context.Context, text string) (OrchestratorResult, error) {
	return s.Orchestrator.Run(ctx, domain.ExtractionRequest{
		Kind:    domain.KindJob,
		JobText: textx.SanitizeText(text),
	})
}

// Match scores two canonical profiles through the chain; remote providers
// may produce richer narratives, the offline path delegates to Matcher.
func (s AnalysisService) Match(ctx context.Context, resume domain.ResumeProfile, job domain.JobProfile) (OrchestratorResult, error) {
	return s.Orchestrator.Run(ctx, domain.ExtractionRequest{
		Kind:   domain.KindMatch,
		Resume: &resume,
		Job:    &job,
	})
}

// GenerateQuestions produces an interview question set for a job,
// personalized when a resume is supplied.
func (s AnalysisService) GenerateQuestions(ctx context.Context, job domain.JobProfile, resume *domain.ResumeProfile) (OrchestratorResult, error) {
	return s.Orchestrator.Run(ctx, domain.ExtractionRequest{
		Kind:   domain.KindQuestions,
		Resume: resume,
		Job:    &job,
	})
}
