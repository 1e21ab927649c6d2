// Package domain holds the canonical, provider-independent schema for
// resume, job, match, and question results, plus the error taxonomy and
// the provider port consumed by the orchestrator.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	// ErrInvalidInput marks malformed caller input (e.g. empty text). It is
	// the only error the core surfaces to callers; no provider is attempted.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSchemaInvalid marks a provider result that failed canonical
	// validation. Recovered locally by advancing the chain.
	ErrSchemaInvalid = errors.New("schema invalid")
	// ErrConfiguration marks a deployment error (weights not summing to 1).
	// Fatal at startup, never raised at request time.
	ErrConfiguration = errors.New("configuration invalid")

	// Provider attempt failures, classified by adapters.
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrAuthRejected      = errors.New("authentication rejected")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
)

// UnknownYears is the sentinel for "experience unknown" on both profiles.
const UnknownYears = -1

// RequestKind enumerates the operations routed through the provider chain.
type RequestKind string

const (
	KindResume    RequestKind = "resume"
	KindJob       RequestKind = "job"
	KindMatch     RequestKind = "match"
	KindQuestions RequestKind = "questions"
)

// ExtractionRequest is the tagged union dispatched to providers. Exactly the
// fields implied by Kind are set; the value is immutable once constructed.
type ExtractionRequest struct {
	Kind       RequestKind
	ResumeText string
	JobText    string
	Resume     *ResumeProfile // match (required), questions (optional)
	Job        *JobProfile    // match, questions
}

// Contact is the optional contact block of a resume.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Network  string `json:"network,omitempty"` // LinkedIn/GitHub handle
}

// WorkEntry is one position in a work history.
type WorkEntry struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Start            string   `json:"start"`
	End              string   `json:"end"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// EducationEntry is one degree line.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ResumeProfile is the canonical structured resume.
// Invariants: Skills contains no empty strings and no case-insensitive
// duplicates (insertion order is relevance order); ExperienceYears is
// non-negative or UnknownYears.
type ResumeProfile struct {
	Name            string           `json:"name,omitempty"`
	Contact         Contact          `json:"contact"`
	Summary         string           `json:"summary,omitempty"`
	Skills          []string         `json:"skills"`
	ExperienceYears int              `json:"experience_years"`
	WorkHistory     []WorkEntry      `json:"work_history,omitempty"`
	Education       []EducationEntry `json:"education,omitempty"`
	Certifications  []string         `json:"certifications,omitempty"`
}

// Usable reports whether the profile carries enough signal to be returned.
// A resume with no name, no skills and no summary triggers fallback.
func (p ResumeProfile) Usable() bool {
	return p.Name != "" || len(p.Skills) > 0 || p.Summary != ""
}

// ExperienceLevel buckets for jobs.
type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelExecutive ExperienceLevel = "executive"
	LevelUnknown   ExperienceLevel = "unknown"
)

// EmploymentType enumerates engagement types.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentUnknown  EmploymentType = "unknown"
)

// SalaryRange holds an optional advertised range; Min <= Max when both set.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// JobProfile is the canonical structured job description.
type JobProfile struct {
	Title              string          `json:"title,omitempty"`
	Company            string          `json:"company,omitempty"`
	Location           string          `json:"location,omitempty"`
	Summary            string          `json:"summary,omitempty"`
	Responsibilities   []string        `json:"responsibilities,omitempty"`
	RequiredSkills     []string        `json:"required_skills"`
	PreferredSkills    []string        `json:"preferred_skills,omitempty"`
	ExperienceLevel    ExperienceLevel `json:"experience_level"`
	MinExperienceYears int             `json:"min_experience_years"`
	EmploymentType     EmploymentType  `json:"employment_type"`
	SalaryRange        *SalaryRange    `json:"salary_range,omitempty"`
}

// Usable reports whether the job profile carries enough signal.
func (p JobProfile) Usable() bool {
	return p.Title != "" || len(p.RequiredSkills) > 0 || p.Summary != ""
}

// Recommendation bands.
type Recommendation string

const (
	RecommendHire      Recommendation = "hire"
	RecommendInterview Recommendation = "interview"
	RecommendPass      Recommendation = "pass"
)

// Criterion names used as breakdown keys.
const (
	CriterionSkills     = "skills"
	CriterionExperience = "experience"
	CriterionEducation  = "education"
	CriterionLocation   = "location"
)

// CriterionScore is one [0,100] sub-score with its explanation.
type CriterionScore struct {
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// MatchResult is the canonical multi-criteria match verdict.
// OverallScore is a deterministic weighted sum of the breakdown scores.
type MatchResult struct {
	OverallScore   float64                   `json:"overall_score"`
	Breakdown      map[string]CriterionScore `json:"breakdown"`
	MatchedSkills  []string                  `json:"matched_skills"`
	MissingSkills  []string                  `json:"missing_skills"`
	Strengths      []string                  `json:"strengths"`
	Concerns       []string                  `json:"concerns"`
	Recommendation Recommendation            `json:"recommendation"`
	Confidence     float64                   `json:"confidence"`
}

// Question categories and difficulties.
type QuestionCategory string

const (
	CategoryGeneral     QuestionCategory = "general"
	CategoryTechnical   QuestionCategory = "technical"
	CategoryBehavioral  QuestionCategory = "behavioral"
	CategorySituational QuestionCategory = "situational"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyNA     Difficulty = "n/a"
)

// Question is one interview question with a positive expected duration.
type Question struct {
	Text            string           `json:"text"`
	Category        QuestionCategory `json:"category"`
	Difficulty      Difficulty       `json:"difficulty"`
	DurationSeconds int              `json:"expected_duration_seconds"`
}

// QuestionSet is an ordered, non-empty question list.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// AttemptOutcome classifies one provider attempt.
type AttemptOutcome string

const (
	OutcomeSuccess           AttemptOutcome = "success"
	OutcomeTimeout           AttemptOutcome = "timeout"
	OutcomeAuthError         AttemptOutcome = "auth_error"
	OutcomeMalformedResponse AttemptOutcome = "malformed_response"
	OutcomeRateLimited       AttemptOutcome = "rate_limited"
	OutcomeUnknownError      AttemptOutcome = "unknown_error"
)

// ProviderAttempt records one chain step for provenance. The orchestrator
// owns the attempt log; it is never discarded on success.
type ProviderAttempt struct {
	Provider    string         `json:"provider"`
	Outcome     AttemptOutcome `json:"outcome"`
	Latency     time.Duration  `json:"latency"`
	AttemptedAt time.Time      `json:"attempted_at"`
	Error       string         `json:"error,omitempty"`
}

// CanonicalResult is the normalized payload variant matching the request kind.
type CanonicalResult struct {
	Kind      RequestKind    `json:"kind"`
	Resume    *ResumeProfile `json:"resume,omitempty"`
	Job       *JobProfile    `json:"job,omitempty"`
	Match     *MatchResult   `json:"match,omitempty"`
	Questions *QuestionSet   `json:"questions,omitempty"`
}

// OfflineProviderID is the synthetic terminal provider always appended to
// the chain; it never fails.
const OfflineProviderID = "offline"

// Provider is the port every adapter implements. Attempt never panics past
// this boundary; all failure modes come back as classified errors.
type Provider interface {
	ID() string
	Attempt(ctx context.Context, req ExtractionRequest) (CanonicalResult, error)
}

// NormalizeSkill applies the canonical casing/trim policy for comparisons.
// Display strings keep the casing of the source that produced them.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DedupeSkills drops empty entries and case-insensitive duplicates while
// preserving first-occurrence order and display casing.
func DedupeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		key := NormalizeSkill(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
