package ai

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// Normalizer coerces loosely-typed provider output into canonical profiles.
// Provider JSON varies in field names, casing and nesting; known synonym
// keys are folded into the canonical field and unknown fields are dropped.
// Pure: no retained state beyond the validator instance.
type Normalizer struct {
	v *validator.Validate
}

// NewNormalizer constructs a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{v: validator.New()}
}

// Canonical dispatches to the kind-specific normalizer and wraps the result.
func (n *Normalizer) Canonical(kind domain.RequestKind, raw map[string]any) (domain.CanonicalResult, error) {
	switch kind {
	case domain.KindResume:
		p, err := n.Resume(raw)
		if err != nil {
			return domain.CanonicalResult{}, err
		}
		return domain.CanonicalResult{Kind: kind, Resume: &p}, nil
	case domain.KindJob:
		p, err := n.Job(raw)
		if err != nil {
			return domain.CanonicalResult{}, err
		}
		return domain.CanonicalResult{Kind: kind, Job: &p}, nil
	case domain.KindMatch:
		m, err := n.Match(raw)
		if err != nil {
			return domain.CanonicalResult{}, err
		}
		return domain.CanonicalResult{Kind: kind, Match: &m}, nil
	case domain.KindQuestions:
		q, err := n.Questions(raw)
		if err != nil {
			return domain.CanonicalResult{}, err
		}
		return domain.CanonicalResult{Kind: kind, Questions: &q}, nil
	default:
		return domain.CanonicalResult{}, schemaErr("kind", "unsupported")
	}
}

func schemaErr(field, reason string) error {
	return fmt.Errorf("%w: field %s: %s", domain.ErrSchemaInvalid, field, reason)
}

// Resume normalizes a raw mapping into a ResumeProfile. A profile with no
// name, skills, or summary is rejected so the chain can advance.
func (n *Normalizer) Resume(raw map[string]any) (domain.ResumeProfile, error) {
	if raw == nil {
		return domain.ResumeProfile{}, schemaErr("resume", "empty payload")
	}
	// Some providers nest the whole profile under "candidate" or "resume".
	if sub := submap(raw, "candidate", "resume"); sub != nil {
		raw = sub
	}
	p := domain.ResumeProfile{
		Name:            str(raw, "name", "full_name", "candidate_name"),
		Summary:         str(raw, "summary", "professional_summary", "profile"),
		Skills:          domain.DedupeSkills(strList(raw, "skills", "extracted_skills", "skills_section", "top_skills")),
		ExperienceYears: years(raw, "experience_years", "years_of_experience", "yoe", "experience"),
		Certifications:  strList(raw, "certifications", "licenses"),
	}
	contact := submap(raw, "contact", "contact_info")
	if contact == nil {
		contact = raw
	}
	p.Contact = domain.Contact{
		Email:    str(contact, "email", "email_address"),
		Phone:    str(contact, "phone", "phone_number"),
		Location: firstNonEmpty(str(contact, "location", "city"), str(raw, "location")),
		Network:  str(contact, "network", "linkedin", "github"),
	}
	if p.Name == "" {
		p.Name = str(contact, "name", "full_name")
	}
	p.WorkHistory = workHistory(raw)
	p.Education = education(raw)
	if p.ExperienceYears < 0 && p.ExperienceYears != domain.UnknownYears {
		return domain.ResumeProfile{}, schemaErr("experience_years", "negative")
	}
	if !p.Usable() {
		return domain.ResumeProfile{}, schemaErr("resume", "no name, skills, or summary")
	}
	return p, nil
}

// Job normalizes a raw mapping into a JobProfile.
func (n *Normalizer) Job(raw map[string]any) (domain.JobProfile, error) {
	if raw == nil {
		return domain.JobProfile{}, schemaErr("job", "empty payload")
	}
	if sub := submap(raw, "job", "position"); sub != nil {
		raw = sub
	}
	p := domain.JobProfile{
		Title:              str(raw, "title", "job_title", "position"),
		Company:            str(raw, "company", "employer"),
		Location:           str(raw, "location"),
		Summary:            str(raw, "summary", "description"),
		Responsibilities:   strList(raw, "responsibilities", "duties"),
		RequiredSkills:     domain.DedupeSkills(strList(raw, "required_skills", "skills_required", "key_skills", "requirements")),
		PreferredSkills:    domain.DedupeSkills(strList(raw, "preferred_skills", "nice_to_have", "preferred_qualifications")),
		ExperienceLevel:    level(str(raw, "experience_level", "seniority", "level")),
		MinExperienceYears: years(raw, "min_experience_years", "experience_years", "min_years"),
		EmploymentType:     employment(str(raw, "employment_type", "job_type")),
	}
	if sal := submap(raw, "salary_range", "salary"); sal != nil {
		lo, hi := intval(sal, "min"), intval(sal, "max")
		if lo > 0 || hi > 0 {
			if hi > 0 && lo > hi {
				return domain.JobProfile{}, schemaErr("salary_range", "min exceeds max")
			}
			p.SalaryRange = &domain.SalaryRange{Min: lo, Max: hi}
		}
	}
	if p.MinExperienceYears < 0 && p.MinExperienceYears != domain.UnknownYears {
		return domain.JobProfile{}, schemaErr("min_experience_years", "negative")
	}
	if !p.Usable() {
		return domain.JobProfile{}, schemaErr("job", "no title, required skills, or summary")
	}
	return p, nil
}

// matchEnvelope carries validation tags for provider match payloads.
type matchEnvelope struct {
	Overall    float64 `validate:"gte=0,lte=100"`
	Confidence float64 `validate:"gte=0,lte=1"`
}

// Match normalizes a raw mapping into a MatchResult. Providers that answer
// with a nested "match_analysis" object are unwrapped first.
func (n *Normalizer) Match(raw map[string]any) (domain.MatchResult, error) {
	if raw == nil {
		return domain.MatchResult{}, schemaErr("match", "empty payload")
	}
	if sub := submap(raw, "match_analysis", "match"); sub != nil {
		raw = sub
	}
	res := domain.MatchResult{
		OverallScore:  num(raw, "overall_score", "score", "match_percentage"),
		MatchedSkills: domain.DedupeSkills(strList(raw, "matched_skills")),
		MissingSkills: domain.DedupeSkills(strList(raw, "missing_skills")),
		Strengths:     strList(raw, "strengths"),
		Concerns:      strList(raw, "concerns", "weaknesses"),
		Confidence:    num(raw, "confidence"),
		Breakdown:     map[string]domain.CriterionScore{},
	}
	for key, names := range map[string][]string{
		domain.CriterionSkills:     {"skill_match", "skills"},
		domain.CriterionExperience: {"experience_match", "experience"},
		domain.CriterionEducation:  {"education_match", "education"},
		domain.CriterionLocation:   {"location_match", "location"},
	} {
		if sub := submap(raw, names...); sub != nil {
			res.Breakdown[key] = domain.CriterionScore{
				Score:  clamp(num(sub, "score"), 0, 100),
				Detail: str(sub, "detail", "details", "reason"),
			}
		}
	}
	if nested := submap(raw, "skill_match"); nested != nil {
		if len(res.MatchedSkills) == 0 {
			res.MatchedSkills = domain.DedupeSkills(strList(nested, "matched_skills"))
		}
		if len(res.MissingSkills) == 0 {
			res.MissingSkills = domain.DedupeSkills(strList(nested, "missing_skills"))
		}
	}
	if err := n.v.Struct(matchEnvelope{Overall: res.OverallScore, Confidence: res.Confidence}); err != nil {
		return domain.MatchResult{}, schemaErr("overall_score", err.Error())
	}
	switch domain.Recommendation(strings.ToLower(str(raw, "recommendation"))) {
	case domain.RecommendHire:
		res.Recommendation = domain.RecommendHire
	case domain.RecommendInterview:
		res.Recommendation = domain.RecommendInterview
	case domain.RecommendPass:
		res.Recommendation = domain.RecommendPass
	default:
		// Providers sometimes answer "review"/"consider"; rebucket by score.
		res.Recommendation = recommendFor(res.OverallScore)
	}
	if len(res.Breakdown) == 0 {
		return domain.MatchResult{}, schemaErr("breakdown", "no criterion scores")
	}
	return res, nil
}

func recommendFor(score float64) domain.Recommendation {
	switch {
	case score >= 80:
		return domain.RecommendHire
	case score >= 50:
		return domain.RecommendInterview
	default:
		return domain.RecommendPass
	}
}

// Questions normalizes a raw mapping into a QuestionSet. Accepts either a
// flat "questions" list or per-category lists the way some providers group
// them.
func (n *Normalizer) Questions(raw map[string]any) (domain.QuestionSet, error) {
	if raw == nil {
		return domain.QuestionSet{}, schemaErr("questions", "empty payload")
	}
	if sub := submap(raw, "interview_questions"); sub != nil {
		raw = sub
	}
	var qs []domain.Question
	if items, ok := raw["questions"].([]any); ok {
		for _, it := range items {
			if q, ok := question(it, ""); ok {
				qs = append(qs, q)
			}
		}
	} else {
		for _, cat := range []domain.QuestionCategory{
			domain.CategoryGeneral, domain.CategoryTechnical,
			domain.CategoryBehavioral, domain.CategorySituational,
		} {
			items, ok := raw[string(cat)].([]any)
			if !ok {
				continue
			}
			for _, it := range items {
				if q, ok := question(it, cat); ok {
					qs = append(qs, q)
				}
			}
		}
	}
	if len(qs) == 0 {
		return domain.QuestionSet{}, schemaErr("questions", "no questions")
	}
	return domain.QuestionSet{Questions: qs}, nil
}

func question(it any, fallbackCat domain.QuestionCategory) (domain.Question, bool) {
	m, ok := it.(map[string]any)
	if !ok {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			return domain.Question{Text: s, Category: orGeneral(fallbackCat), Difficulty: domain.DifficultyNA, DurationSeconds: 180}, true
		}
		return domain.Question{}, false
	}
	text := str(m, "text", "question")
	if text == "" {
		return domain.Question{}, false
	}
	q := domain.Question{
		Text:            text,
		Category:        category(str(m, "category", "type")),
		Difficulty:      difficulty(str(m, "difficulty")),
		DurationSeconds: int(num(m, "expected_duration_seconds", "expected_duration", "duration")),
	}
	if q.Category == "" {
		q.Category = orGeneral(fallbackCat)
	}
	if q.DurationSeconds <= 0 {
		q.DurationSeconds = 180
	}
	return q, true
}

func orGeneral(c domain.QuestionCategory) domain.QuestionCategory {
	if c == "" {
		return domain.CategoryGeneral
	}
	return c
}

func category(s string) domain.QuestionCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general":
		return domain.CategoryGeneral
	case "technical":
		return domain.CategoryTechnical
	case "behavioral", "behavioural":
		return domain.CategoryBehavioral
	case "situational":
		return domain.CategorySituational
	default:
		return ""
	}
}

func difficulty(s string) domain.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return domain.DifficultyEasy
	case "medium":
		return domain.DifficultyMedium
	case "hard":
		return domain.DifficultyHard
	default:
		return domain.DifficultyNA
	}
}

func level(s string) domain.ExperienceLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entry", "junior":
		return domain.LevelEntry
	case "mid", "intermediate":
		return domain.LevelMid
	case "senior", "lead", "principal":
		return domain.LevelSenior
	case "executive", "director":
		return domain.LevelExecutive
	default:
		return domain.LevelUnknown
	}
}

func employment(s string) domain.EmploymentType {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "full_time", "fulltime", "permanent":
		return domain.EmploymentFullTime
	case "part_time", "parttime":
		return domain.EmploymentPartTime
	case "contract", "contractor", "freelance":
		return domain.EmploymentContract
	default:
		return domain.EmploymentUnknown
	}
}

func workHistory(raw map[string]any) []domain.WorkEntry {
	items := anyList(raw, "work_history", "work_experience", "experience_history")
	out := make([]domain.WorkEntry, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		e := domain.WorkEntry{
			Title:            str(m, "title", "position", "role"),
			Company:          str(m, "company", "employer"),
			Start:            str(m, "start", "start_date", "from"),
			End:              str(m, "end", "end_date", "to"),
			Responsibilities: strList(m, "responsibilities", "duties"),
		}
		if e.Title != "" || e.Company != "" {
			out = append(out, e)
		}
	}
	return out
}

func education(raw map[string]any) []domain.EducationEntry {
	items := anyList(raw, "education", "education_history")
	out := make([]domain.EducationEntry, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case map[string]any:
			e := domain.EducationEntry{
				Degree:      str(v, "degree", "qualification"),
				Institution: str(v, "institution", "school", "university"),
				Year:        str(v, "year", "graduation_year"),
			}
			if e.Degree != "" || e.Institution != "" {
				out = append(out, e)
			}
		case string:
			if strings.TrimSpace(v) != "" {
				out = append(out, domain.EducationEntry{Degree: strings.TrimSpace(v)})
			}
		}
	}
	return out
}

// Loose-mapping helpers. Lookup is case-insensitive on key names.

func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	for mk, v := range m {
		for _, k := range keys {
			if strings.EqualFold(mk, k) {
				return v, true
			}
		}
	}
	return nil, false
}

func str(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func submap(m map[string]any, keys ...string) map[string]any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	sub, _ := v.(map[string]any)
	return sub
}

func anyList(m map[string]any, keys ...string) []any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	l, _ := v.([]any)
	return l
}

func strList(m map[string]any, keys ...string) []string {
	items := anyList(m, keys...)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func num(m map[string]any, keys ...string) float64 {
	v, ok := lookup(m, keys...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func intval(m map[string]any, keys ...string) int {
	return int(num(m, keys...))
}

// years reads an experience field, mapping absence to UnknownYears. String
// values like "5+" or "unknown" are tolerated.
func years(m map[string]any, keys ...string) int {
	v, ok := lookup(m, keys...)
	if !ok || v == nil {
		return domain.UnknownYears
	}
	switch n := v.(type) {
	case float64:
		if n < 0 || math.IsNaN(n) {
			return domain.UnknownYears
		}
		return int(n)
	case int:
		if n < 0 {
			return domain.UnknownYears
		}
		return n
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(n), "+")
		i, err := strconv.Atoi(s)
		if err != nil || i < 0 {
			return domain.UnknownYears
		}
		return i
	}
	return domain.UnknownYears
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
