// Package offline implements the deterministic heuristic engine: the
// terminal, always-succeeding provider at the end of every chain. It does
// no I/O and completes in bounded time (well under 200ms for typical
// inputs).
package offline

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// Scorer computes a match result from two canonical profiles. Implemented
// by usecase.Matcher; the engine delegates so offline match results use the
// same deterministic scoring as every other path.
type Scorer interface {
	Score(resume domain.ResumeProfile, job domain.JobProfile) domain.MatchResult
}

// Engine is the offline heuristic provider.
type Engine struct {
	vocab       []string
	bank        []BankQuestion
	targetCount int
	scorer      Scorer
}

// New constructs an Engine from a skill vocabulary, question bank, target
// question count, and scorer.
func New(vocab []string, bank []BankQuestion, targetCount int, scorer Scorer) *Engine {
	if targetCount < 1 {
		targetCount = 1
	}
	return &Engine{vocab: vocab, bank: bank, targetCount: targetCount, scorer: scorer}
}

// ID implements domain.Provider.
func (e *Engine) ID() string { return domain.OfflineProviderID }

// Attempt implements domain.Provider. It never fails for inputs the
// orchestrator admits; the only error path is an unsupported kind, which is
// a programming error upstream.
func (e *Engine) Attempt(_ context.Context, req domain.ExtractionRequest) (domain.CanonicalResult, error) {
	switch req.Kind {
	case domain.KindResume:
		p := e.ExtractResume(req.ResumeText)
		return domain.CanonicalResult{Kind: req.Kind, Resume: &p}, nil
	case domain.KindJob:
		p := e.ExtractJob(req.JobText)
		return domain.CanonicalResult{Kind: req.Kind, Job: &p}, nil
	case domain.KindMatch:
		m := e.scorer.Score(*req.Resume, *req.Job)
		return domain.CanonicalResult{Kind: req.Kind, Match: &m}, nil
	case domain.KindQuestions:
		q := e.GenerateQuestions(*req.Job, req.Resume)
		return domain.CanonicalResult{Kind: req.Kind, Questions: &q}, nil
	default:
		return domain.CanonicalResult{}, fmt.Errorf("%w: unsupported request kind %q", domain.ErrInvalidInput, req.Kind)
	}
}
