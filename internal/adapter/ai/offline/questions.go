package offline

import (
	"fmt"
	"sort"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// GenerateQuestions selects interview questions from the bank by tag overlap
// with the job's skills, then tops up with untagged questions until the
// target count is reached. At least one question is always returned.
func (e *Engine) GenerateQuestions(job domain.JobProfile, resume *domain.ResumeProfile) domain.QuestionSet {
	jobSkills := make(map[string]struct{}, len(job.RequiredSkills)+len(job.PreferredSkills))
	for _, s := range job.RequiredSkills {
		jobSkills[domain.NormalizeSkill(s)] = struct{}{}
	}
	for _, s := range job.PreferredSkills {
		jobSkills[domain.NormalizeSkill(s)] = struct{}{}
	}

	type ranked struct {
		q       BankQuestion
		overlap int
		order   int
	}
	tagged := make([]ranked, 0, len(e.bank))
	general := make([]BankQuestion, 0, len(e.bank))
	for i, q := range e.bank {
		if len(q.Tags) == 0 {
			general = append(general, q)
			continue
		}
		overlap := 0
		for _, t := range q.Tags {
			if _, ok := jobSkills[domain.NormalizeSkill(t)]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			tagged = append(tagged, ranked{q: q, overlap: overlap, order: i})
		}
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		if tagged[i].overlap != tagged[j].overlap {
			return tagged[i].overlap > tagged[j].overlap
		}
		return tagged[i].order < tagged[j].order
	})

	// Personalized follow-ups occupy slots inside the target count so the
	// set never exceeds it.
	var personal []domain.Question
	if resume != nil {
		personal = followUps(jobSkills, *resume, 2)
	}
	budget := e.targetCount - len(personal)
	if budget < 0 {
		budget = 0
	}

	out := make([]domain.Question, 0, e.targetCount)
	for _, r := range tagged {
		if len(out) >= budget {
			break
		}
		out = append(out, toQuestion(r.q))
	}
	for _, q := range general {
		if len(out) >= budget {
			break
		}
		out = append(out, toQuestion(q))
	}
	out = append(out, personal...)

	if len(out) == 0 {
		out = append(out, domain.Question{
			Text:            "Walk me through your most significant professional accomplishment.",
			Category:        domain.CategoryGeneral,
			Difficulty:      domain.DifficultyMedium,
			DurationSeconds: 180,
		})
	}
	return domain.QuestionSet{Questions: out}
}

// followUps builds up to max personalized technical questions for skills the
// candidate shares with the job.
func followUps(jobSkills map[string]struct{}, resume domain.ResumeProfile, max int) []domain.Question {
	qs := make([]domain.Question, 0, max)
	for _, s := range resume.Skills {
		if len(qs) >= max {
			break
		}
		if _, ok := jobSkills[domain.NormalizeSkill(s)]; !ok {
			continue
		}
		qs = append(qs, domain.Question{
			Text:            fmt.Sprintf("Can you elaborate on your hands-on experience with %s?", s),
			Category:        domain.CategoryTechnical,
			Difficulty:      domain.DifficultyMedium,
			DurationSeconds: 180,
		})
	}
	return qs
}

func toQuestion(q BankQuestion) domain.Question {
	cat := domain.QuestionCategory(q.Category)
	switch cat {
	case domain.CategoryGeneral, domain.CategoryTechnical, domain.CategoryBehavioral, domain.CategorySituational:
	default:
		cat = domain.CategoryGeneral
	}
	diff := domain.Difficulty(q.Difficulty)
	switch diff {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
	default:
		diff = domain.DifficultyMedium
	}
	dur := q.DurationSeconds
	if dur <= 0 {
		dur = defaultDurationFor(string(cat))
	}
	return domain.Question{Text: q.Text, Category: cat, Difficulty: diff, DurationSeconds: dur}
}
