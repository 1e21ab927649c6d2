package ai

import (
	"encoding/json"
	"fmt"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// Prompt builders shared by the remote adapters. Each returns a system and
// user message instructing strict JSON output in the canonical field names,
// so provider drift is the exception the normalizer handles, not the rule.

const systemAnalyst = "You are an expert HR analyst. Respond with ONLY a single valid JSON object. No prose, no markdown, no reasoning outside the JSON."

// BuildPrompt constructs the prompt pair for any request kind.
func BuildPrompt(req domain.ExtractionRequest) (system, user string, err error) {
	switch req.Kind {
	case domain.KindResume:
		return systemAnalyst, resumePrompt(req.ResumeText), nil
	case domain.KindJob:
		return systemAnalyst, jobPrompt(req.JobText), nil
	case domain.KindMatch:
		user, err = matchPrompt(req.Resume, req.Job)
		return systemAnalyst, user, err
	case domain.KindQuestions:
		user, err = questionsPrompt(req.Job, req.Resume)
		return systemAnalyst, user, err
	default:
		return "", "", fmt.Errorf("%w: unsupported request kind %q", domain.ErrInvalidInput, req.Kind)
	}
}

func resumePrompt(text string) string {
	return `Extract structured information from the resume below.
Return JSON with exactly this shape (use "" / [] / null for missing data):
{
  "name": "",
  "contact": {"email": "", "phone": "", "location": "", "network": ""},
  "summary": "",
  "skills": ["most relevant first"],
  "experience_years": 0,
  "work_history": [{"title": "", "company": "", "start": "", "end": "", "responsibilities": []}],
  "education": [{"degree": "", "institution": "", "year": ""}],
  "certifications": []
}
Set "experience_years" to null when it cannot be determined.

RESUME:
` + text
}

func jobPrompt(text string) string {
	return `Extract structured information from the job description below.
Return JSON with exactly this shape (use "" / [] / null for missing data):
{
  "title": "",
  "company": "",
  "location": "",
  "summary": "",
  "responsibilities": [],
  "required_skills": [],
  "preferred_skills": [],
  "experience_level": "entry|mid|senior|executive|unknown",
  "min_experience_years": 0,
  "employment_type": "full_time|part_time|contract|unknown",
  "salary_range": {"min": 0, "max": 0}
}
Set "min_experience_years" to null when not stated; omit "salary_range" when not advertised.

JOB DESCRIPTION:
` + text
}

func matchPrompt(resume *domain.ResumeProfile, job *domain.JobProfile) (string, error) {
	rb, err := json.Marshal(resume)
	if err != nil {
		return "", err
	}
	jb, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Score how well the candidate fits the job.
Return JSON with exactly this shape:
{
  "overall_score": 0,
  "skill_match": {"score": 0, "detail": "", "matched_skills": [], "missing_skills": []},
  "experience_match": {"score": 0, "detail": ""},
  "education_match": {"score": 0, "detail": ""},
  "location_match": {"score": 0, "detail": ""},
  "strengths": [],
  "concerns": [],
  "recommendation": "hire|interview|pass",
  "confidence": 0.0
}
All scores are 0-100; confidence is 0-1.

CANDIDATE:
%s

JOB:
%s`, rb, jb), nil
}

func questionsPrompt(job *domain.JobProfile, resume *domain.ResumeProfile) (string, error) {
	jb, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	user := fmt.Sprintf(`Generate 6-8 interview questions for the job below.
Return JSON with exactly this shape:
{
  "questions": [
    {"text": "", "category": "general|technical|behavioral|situational", "difficulty": "easy|medium|hard", "expected_duration_seconds": 180}
  ]
}
Cover multiple categories and keep durations realistic.

JOB:
%s`, jb)
	if resume != nil {
		rb, err := json.Marshal(resume)
		if err != nil {
			return "", err
		}
		user += fmt.Sprintf(`

Personalize some questions for this candidate:
%s`, rb)
	}
	return user, nil
}
