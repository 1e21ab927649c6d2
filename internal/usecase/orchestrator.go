package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/observability"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// OrchestratorResult is what every chain run returns: the winning canonical
// result, the provider that produced it, and the full ordered attempt log.
type OrchestratorResult struct {
	Provider string                   `json:"provider"`
	Result   domain.CanonicalResult   `json:"result"`
	Attempts []domain.ProviderAttempt `json:"attempts"`
}

// Orchestrator runs extraction requests down the provider priority chain.
// Providers are tried sequentially; the last provider is always the offline
// engine, which cannot fail.
type Orchestrator struct {
	chain          []domain.Provider
	attemptTimeout time.Duration
}

// NewOrchestrator builds the chain from the declared priority order,
// keeping only providers whose credential is present, and appends offline
// last regardless of configuration. hasCredential is typically
// config.Config.CredentialFor.
func NewOrchestrator(priority []string, available []domain.Provider, offline domain.Provider, hasCredential func(string) bool, attemptTimeout time.Duration) (*Orchestrator, error) {
	if attemptTimeout <= 0 {
		return nil, fmt.Errorf("%w: attempt timeout must be positive", domain.ErrConfiguration)
	}
	byID := make(map[string]domain.Provider, len(available))
	for _, p := range available {
		byID[p.ID()] = p
	}
	chain := make([]domain.Provider, 0, len(priority)+1)
	for _, id := range priority {
		id = strings.TrimSpace(id)
		if id == "" || id == domain.OfflineProviderID {
			continue
		}
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown provider %q in priority list", domain.ErrConfiguration, id)
		}
		if !hasCredential(id) {
			slog.Info("provider skipped: credential missing", slog.String("provider", id))
			continue
		}
		chain = append(chain, p)
	}
	chain = append(chain, offline)
	return &Orchestrator{chain: chain, attemptTimeout: attemptTimeout}, nil
}

// Providers returns the resolved chain order, offline included.
func (o *Orchestrator) Providers() []string {
	ids := make([]string, len(o.chain))
	for i, p := range o.chain {
		ids[i] = p.ID()
	}
	return ids
}

// Run validates the request and walks the chain until a provider returns a
// usable canonical result. It always succeeds for valid input: the offline
// terminal provider cannot fail.
func (o *Orchestrator) Run(ctx context.Context, req domain.ExtractionRequest) (OrchestratorResult, error) {
	if err := validateRequest(req); err != nil {
		return OrchestratorResult{}, err
	}

	runID := uuid.NewString()
	attempts := make([]domain.ProviderAttempt, 0, len(o.chain))
	for i, p := range o.chain {
		attempt, res := o.attempt(ctx, p, req)
		attempts = append(attempts, attempt)

		observability.ProviderAttemptsTotal.WithLabelValues(p.ID(), string(req.Kind), string(attempt.Outcome)).Inc()
		observability.ProviderAttemptDuration.WithLabelValues(p.ID(), string(req.Kind)).Observe(attempt.Latency.Seconds())

		if attempt.Outcome == domain.OutcomeSuccess {
			if i == len(o.chain)-1 && len(o.chain) > 1 {
				observability.ChainFallbacksTotal.WithLabelValues(string(req.Kind)).Inc()
			}
			slog.Info("provider chain resolved",
				slog.String("run_id", runID),
				slog.String("kind", string(req.Kind)),
				slog.String("provider", p.ID()),
				slog.Int("attempts", len(attempts)))
			return OrchestratorResult{Provider: p.ID(), Result: res, Attempts: attempts}, nil
		}
		slog.Warn("provider attempt failed, advancing chain",
			slog.String("run_id", runID),
			slog.String("kind", string(req.Kind)),
			slog.String("provider", p.ID()),
			slog.String("outcome", string(attempt.Outcome)),
			slog.String("error", attempt.Error))
	}
	// Unreachable when the chain is built through NewOrchestrator: the
	// offline terminal provider never fails.
	return OrchestratorResult{}, fmt.Errorf("provider chain exhausted without result")
}

func (o *Orchestrator) attempt(ctx context.Context, p domain.Provider, req domain.ExtractionRequest) (domain.ProviderAttempt, domain.CanonicalResult) {
	actx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	start := time.Now()
	res, err := p.Attempt(actx, req)
	attempt := domain.ProviderAttempt{
		Provider:    p.ID(),
		Latency:     time.Since(start),
		AttemptedAt: start.UTC(),
	}
	if err == nil {
		if reason, ok := unusable(req.Kind, res); ok {
			err = fmt.Errorf("%w: %s", domain.ErrSchemaInvalid, reason)
		}
	}
	if err != nil {
		attempt.Outcome = classify(err)
		attempt.Error = err.Error()
		return attempt, domain.CanonicalResult{}
	}
	attempt.Outcome = domain.OutcomeSuccess
	return attempt, res
}

// unusable applies the result-level usability gate: a structurally valid
// payload that carries no signal still advances the chain.
func unusable(kind domain.RequestKind, res domain.CanonicalResult) (string, bool) {
	switch kind {
	case domain.KindResume:
		if res.Resume == nil {
			return "resume payload missing", true
		}
		if !res.Resume.Usable() {
			return "resume has no name, skills or summary", true
		}
	case domain.KindJob:
		if res.Job == nil {
			return "job payload missing", true
		}
		if !res.Job.Usable() {
			return "job has no title, required skills or summary", true
		}
	case domain.KindMatch:
		if res.Match == nil {
			return "match payload missing", true
		}
	case domain.KindQuestions:
		if res.Questions == nil || len(res.Questions.Questions) == 0 {
			return "question set empty", true
		}
	}
	return "", false
}

func classify(err error) domain.AttemptOutcome {
	switch {
	case errors.Is(err, domain.ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.OutcomeTimeout
	case errors.Is(err, domain.ErrAuthRejected):
		return domain.OutcomeAuthError
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrSchemaInvalid):
		return domain.OutcomeMalformedResponse
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		return domain.OutcomeRateLimited
	default:
		return domain.OutcomeUnknownError
	}
}

// validateRequest gates caller input before any provider is attempted.
func validateRequest(req domain.ExtractionRequest) error {
	switch req.Kind {
	case domain.KindResume:
		if strings.TrimSpace(req.ResumeText) == "" {
			return fmt.Errorf("%w: resume text is empty", domain.ErrInvalidInput)
		}
	case domain.KindJob:
		if strings.TrimSpace(req.JobText) == "" {
			return fmt.Errorf("%w: job text is empty", domain.ErrInvalidInput)
		}
	case domain.KindMatch:
		if req.Resume == nil || req.Job == nil {
			return fmt.Errorf("%w: match requires both profiles", domain.ErrInvalidInput)
		}
	case domain.KindQuestions:
		if req.Job == nil {
			return fmt.Errorf("%w: questions require a job profile", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported request kind %q", domain.ErrInvalidInput, req.Kind)
	}
	return nil
}
