// Package usecase contains application business logic services: the
// provider chain orchestrator, the deterministic match scorer, and the
// question service.
package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-recruit-engine/internal/config"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// Weights holds the per-criterion weights for the overall score. Validated
// at startup; must sum to 1.0.
type Weights struct {
	Skills     float64
	Experience float64
	Education  float64
	Location   float64
}

// Matcher computes MatchResults as a pure function of two profiles. It also
// backs the offline engine's match path, so remote and offline scoring are
// identical.
type Matcher struct {
	weights       Weights
	gapFloorRatio float64

	requiredSkillWeight  float64
	preferredSkillWeight float64
}

// NewMatcher builds a Matcher from validated configuration.
func NewMatcher(cfg config.Config) *Matcher {
	return &Matcher{
		weights: Weights{
			Skills:     cfg.SkillsWeight,
			Experience: cfg.ExperienceWeight,
			Education:  cfg.EducationWeight,
			Location:   cfg.LocationWeight,
		},
		gapFloorRatio:        cfg.GapFloorRatio,
		requiredSkillWeight:  0.8,
		preferredSkillWeight: 0.2,
	}
}

// Score computes the multi-criteria match verdict. Deterministic for
// identical inputs; no I/O.
func (m *Matcher) Score(resume domain.ResumeProfile, job domain.JobProfile) domain.MatchResult {
	skills, matched, missing := m.scoreSkills(resume, job)
	experience, expKnown := m.scoreExperience(resume, job)
	education := m.scoreEducation(resume, job)
	location, locKnown := m.scoreLocation(resume, job)

	overall := m.weights.Skills*skills.Score +
		m.weights.Experience*experience.Score +
		m.weights.Education*education.Score +
		m.weights.Location*location.Score

	// Skills and education always rate on concrete data; experience and
	// location may fall back to the neutral score.
	knownness := 2.0
	for _, known := range []bool{expKnown, locKnown} {
		if known {
			knownness += 1.0
		} else {
			knownness += 0.5
		}
	}

	breakdown := map[string]domain.CriterionScore{
		domain.CriterionSkills:     skills,
		domain.CriterionExperience: experience,
		domain.CriterionEducation:  education,
		domain.CriterionLocation:   location,
	}

	return domain.MatchResult{
		OverallScore:   overall,
		Breakdown:      breakdown,
		MatchedSkills:  matched,
		MissingSkills:  missing,
		Strengths:      phrases(breakdown, func(s float64) bool { return s >= 80 }, strengthPhrase),
		Concerns:       phrases(breakdown, func(s float64) bool { return s < 50 }, concernPhrase),
		Recommendation: RecommendationFor(overall),
		Confidence:     knownness / 4,
	}
}

// RecommendationFor maps an overall score onto a band. Boundaries are
// inclusive on the lower side of each band.
func RecommendationFor(overall float64) domain.Recommendation {
	switch {
	case overall >= 80:
		return domain.RecommendHire
	case overall >= 50:
		return domain.RecommendInterview
	default:
		return domain.RecommendPass
	}
}

func (m *Matcher) scoreSkills(resume domain.ResumeProfile, job domain.JobProfile) (domain.CriterionScore, []string, []string) {
	have := make(map[string]struct{}, len(resume.Skills))
	for _, s := range resume.Skills {
		have[domain.NormalizeSkill(s)] = struct{}{}
	}

	required := domain.DedupeSkills(job.RequiredSkills)
	preferred := domain.DedupeSkills(job.PreferredSkills)

	matched := make([]string, 0, len(required)+len(preferred))
	missing := make([]string, 0, len(required))
	reqHits := 0
	for _, s := range required {
		if _, ok := have[domain.NormalizeSkill(s)]; ok {
			reqHits++
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	prefHits := 0
	for _, s := range preferred {
		if _, ok := have[domain.NormalizeSkill(s)]; ok {
			prefHits++
			matched = append(matched, s)
		}
	}

	// An empty bucket cedes its weight to the other one so a perfect match
	// on the declared skills always scores 100.
	var score float64
	switch {
	case len(required) == 0 && len(preferred) == 0:
		score = 100
	case len(preferred) == 0:
		score = 100 * float64(reqHits) / float64(len(required))
	case len(required) == 0:
		score = 100 * float64(prefHits) / float64(len(preferred))
	default:
		score = 100 * (m.requiredSkillWeight*float64(reqHits)/float64(len(required)) +
			m.preferredSkillWeight*float64(prefHits)/float64(len(preferred)))
	}
	if score > 100 {
		score = 100
	}
	detail := fmt.Sprintf("%d/%d required and %d/%d preferred skills matched",
		reqHits, len(required), prefHits, len(preferred))
	return domain.CriterionScore{Score: score, Detail: detail}, matched, missing
}

func (m *Matcher) scoreExperience(resume domain.ResumeProfile, job domain.JobProfile) (domain.CriterionScore, bool) {
	if resume.ExperienceYears == domain.UnknownYears || job.MinExperienceYears == domain.UnknownYears {
		return domain.CriterionScore{Score: 50, Detail: "experience unknown on one side; neutral score applied"}, false
	}
	have := float64(resume.ExperienceYears)
	want := float64(job.MinExperienceYears)
	if have >= want {
		return domain.CriterionScore{
			Score:  100,
			Detail: fmt.Sprintf("%d years meets the %d-year requirement", resume.ExperienceYears, job.MinExperienceYears),
		}, true
	}
	floor := want * m.gapFloorRatio
	score := 0.0
	if have > floor && want > floor {
		score = 100 * (have - floor) / (want - floor)
	}
	return domain.CriterionScore{
		Score:  score,
		Detail: fmt.Sprintf("%d years against a %d-year requirement", resume.ExperienceYears, job.MinExperienceYears),
	}, true
}

// degreeRanks orders degree tiers for the education comparison.
var degreeRanks = []struct {
	keywords []string
	rank     int
}{
	{[]string{"phd", "ph.d", "doctorate", "doctoral"}, 5},
	{[]string{"master", "mba", "m.s", "msc"}, 4},
	{[]string{"bachelor", "b.s", "bsc", "b.a", "undergraduate degree"}, 3},
	{[]string{"associate", "diploma"}, 2},
	{[]string{"certificate", "certification"}, 1},
}

// DegreeRank maps free text onto an ordinal degree tier; 0 means no
// recognizable degree.
func DegreeRank(s string) int {
	low := strings.ToLower(s)
	for _, dr := range degreeRanks {
		for _, kw := range dr.keywords {
			if strings.Contains(low, kw) {
				return dr.rank
			}
		}
	}
	return 0
}

func (m *Matcher) scoreEducation(resume domain.ResumeProfile, job domain.JobProfile) domain.CriterionScore {
	required := requiredDegreeRank(job)
	if required == 0 {
		return domain.CriterionScore{Score: 100, Detail: "no explicit degree requirement"}
	}
	best := 0
	for _, e := range resume.Education {
		if r := DegreeRank(e.Degree); r > best {
			best = r
		}
	}
	switch {
	case best >= required:
		return domain.CriterionScore{Score: 100, Detail: "degree requirement met"}
	case best > 0:
		return domain.CriterionScore{Score: 60, Detail: "education present but below the required tier"}
	default:
		return domain.CriterionScore{Score: 0, Detail: "required degree tier absent from resume"}
	}
}

// requiredDegreeRank infers the job's degree requirement from its free-text
// fields; the canonical job schema carries no explicit degree field.
func requiredDegreeRank(job domain.JobProfile) int {
	texts := append([]string{job.Summary}, job.Responsibilities...)
	best := 0
	for _, t := range texts {
		if r := DegreeRank(t); r > best {
			best = r
		}
	}
	return best
}

func (m *Matcher) scoreLocation(resume domain.ResumeProfile, job domain.JobProfile) (domain.CriterionScore, bool) {
	rl := strings.ToLower(strings.TrimSpace(resume.Contact.Location))
	jl := strings.ToLower(strings.TrimSpace(job.Location))
	if rl == "" || jl == "" {
		return domain.CriterionScore{Score: 50, Detail: "location unknown on one side; neutral score applied"}, false
	}
	if rl == jl || strings.Contains(jl, "remote") || strings.Contains(rl, "remote") {
		return domain.CriterionScore{Score: 100, Detail: "location matches"}, true
	}
	if sharesRegionToken(rl, jl) {
		return domain.CriterionScore{Score: 50, Detail: "same broader region"}, true
	}
	return domain.CriterionScore{Score: 0, Detail: "different locations"}, true
}

// sharesRegionToken reports whether the two comma/space separated locations
// share any token of length > 1 (a state or country fragment).
func sharesRegionToken(a, b string) bool {
	tokens := func(s string) map[string]struct{} {
		out := map[string]struct{}{}
		for _, t := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '/' }) {
			t = strings.TrimSpace(t)
			if len(t) > 1 {
				out[t] = struct{}{}
			}
		}
		return out
	}
	ta := tokens(a)
	for t := range tokens(b) {
		if _, ok := ta[t]; ok {
			return true
		}
	}
	return false
}

var criterionOrder = []string{
	domain.CriterionSkills,
	domain.CriterionExperience,
	domain.CriterionEducation,
	domain.CriterionLocation,
}

func phrases(breakdown map[string]domain.CriterionScore, pick func(float64) bool, render func(string, domain.CriterionScore) string) []string {
	out := []string{}
	for _, name := range criterionOrder {
		cs := breakdown[name]
		if pick(cs.Score) {
			out = append(out, render(name, cs))
		}
	}
	return out
}

func strengthPhrase(name string, cs domain.CriterionScore) string {
	return fmt.Sprintf("Strong %s fit: %s", name, cs.Detail)
}

func concernPhrase(name string, cs domain.CriterionScore) string {
	return fmt.Sprintf("Weak %s fit: %s", name, cs.Detail)
}
