package offline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/offline"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

type stubScorer struct{ result domain.MatchResult }

func (s stubScorer) Score(_ domain.ResumeProfile, _ domain.JobProfile) domain.MatchResult {
	return s.result
}

func newEngine(t *testing.T) *offline.Engine {
	t.Helper()
	vocab, err := offline.LoadVocabulary("")
	require.NoError(t, err)
	bank, err := offline.LoadQuestionBank("")
	require.NoError(t, err)
	return offline.New(vocab, bank, 7, stubScorer{result: domain.MatchResult{OverallScore: 70}})
}

const sampleResume = `Jane Doe
Email: jane.doe@example.com | Phone: +1 (415) 555-0137
Location: Austin, TX
linkedin.com/in/janedoe

Summary:
Backend engineer focused on data-heavy services.

Experience
Senior Engineer at Initech, 2019 - Present
Built Python and FastAPI services backed by PostgreSQL.
Engineer, Hooli 2016 - 2019

Education
B.S. Computer Science, Stanford University, 2016

AWS Certified Solutions Architect`

func TestExtractResume_Fields(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := e.ExtractResume(sampleResume)

	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "jane.doe@example.com", p.Contact.Email)
	assert.NotEmpty(t, p.Contact.Phone)
	assert.Equal(t, "Austin, TX", p.Contact.Location)
	assert.Contains(t, p.Contact.Network, "janedoe")
	assert.Equal(t, "Backend engineer focused on data-heavy services.", p.Summary)

	// Vocabulary hits in first-occurrence order.
	require.NotEmpty(t, p.Skills)
	assert.Contains(t, p.Skills, "Python")
	assert.Contains(t, p.Skills, "FastAPI")
	assert.Contains(t, p.Skills, "PostgreSQL")

	// No explicit "N years" statement, so the work-history span wins.
	assert.GreaterOrEqual(t, p.ExperienceYears, 8)
	require.NotEmpty(t, p.WorkHistory)
	assert.Equal(t, "2019", p.WorkHistory[0].Start)

	require.NotEmpty(t, p.Education)
	assert.Contains(t, p.Education[0].Institution, "Stanford")
	assert.NotEmpty(t, p.Certifications)
	assert.True(t, p.Usable())
}

func TestExtractResume_ExplicitYearsWins(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := e.ExtractResume("John Smith\n12+ years of experience in Java.")
	assert.Equal(t, 12, p.ExperienceYears)
}

func TestExtractResume_SkillOrderIsFirstOccurrence(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := e.ExtractResume("Ann Lee\nDjango before Python here: Django then Python.")
	require.GreaterOrEqual(t, len(p.Skills), 2)
	assert.Equal(t, "Django", p.Skills[0])
}

func TestExtractResume_GarbageStillUsable(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := e.ExtractResume("%%% ??? !!!")
	assert.True(t, p.Usable())
	assert.NotEmpty(t, p.Summary)
	assert.Equal(t, domain.UnknownYears, p.ExperienceYears)
}

const sampleJob = `Senior Backend Engineer
Company: Initech
Location: Remote
We build billing infrastructure used by thousands of teams.

Requirements:
- 5+ years of experience
- Python and PostgreSQL
- Docker

Nice to have:
- Kubernetes
- Terraform

Responsibilities:
- Design and operate APIs
Salary: $120,000 - $150,000, full-time`

func TestExtractJob_Sections(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := e.ExtractJob(sampleJob)

	assert.Equal(t, "Senior Backend Engineer", p.Title)
	assert.Equal(t, "Initech", p.Company)
	assert.Equal(t, "Remote", p.Location)
	assert.Equal(t, domain.LevelSenior, p.ExperienceLevel)
	assert.Equal(t, 5, p.MinExperienceYears)
	assert.Equal(t, domain.EmploymentFullTime, p.EmploymentType)

	assert.Contains(t, p.RequiredSkills, "Python")
	assert.Contains(t, p.RequiredSkills, "PostgreSQL")
	assert.Contains(t, p.RequiredSkills, "Docker")
	assert.Contains(t, p.PreferredSkills, "Kubernetes")
	assert.Contains(t, p.PreferredSkills, "Terraform")
	for _, s := range p.PreferredSkills {
		assert.NotContains(t, p.RequiredSkills, s)
	}

	require.NotEmpty(t, p.Responsibilities)
	require.NotNil(t, p.SalaryRange)
	assert.Equal(t, 120000, p.SalaryRange.Min)
	assert.Equal(t, 150000, p.SalaryRange.Max)
	assert.True(t, p.Usable())
}

func TestExtractJob_NoSectionsFallsBackToWholeText(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	p := e.ExtractJob("Engineer\nWork with Python and AWS daily.")
	assert.Contains(t, p.RequiredSkills, "Python")
	assert.Contains(t, p.RequiredSkills, "AWS")
}

func TestExtractJob_LevelKeywordBoundaries(t *testing.T) {
	t.Parallel()
	e := newEngine(t)

	// "vp" must not fire inside other words.
	mvp := e.ExtractJob("Product Engineer\nHelp us ship the MVP. RSVP to our recruiting event.")
	assert.Equal(t, domain.LevelMid, mvp.ExperienceLevel)

	vp := e.ExtractJob("VP of Engineering\nOwn the engineering organization.")
	assert.Equal(t, domain.LevelExecutive, vp.ExperienceLevel)

	// Degree mentions are not seniority signals.
	degree := e.ExtractJob("Software Engineer\nAssociate degree required.")
	assert.Equal(t, domain.LevelMid, degree.ExperienceLevel)

	assoc := e.ExtractJob("Associate Product Manager\nSupport the product team.")
	assert.Equal(t, domain.LevelEntry, assoc.ExperienceLevel)
}

func TestGenerateQuestions_TagOverlap(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	job := domain.JobProfile{Title: "Backend", RequiredSkills: []string{"Python"}}
	qs := e.GenerateQuestions(job, nil)

	require.NotEmpty(t, qs.Questions)
	assert.LessOrEqual(t, len(qs.Questions), 7)
	// A Python-tagged technical question must surface first.
	assert.Equal(t, domain.CategoryTechnical, qs.Questions[0].Category)
	for _, q := range qs.Questions {
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, string(q.Category))
		assert.Positive(t, q.DurationSeconds)
	}
}

func TestGenerateQuestions_PersonalizedFollowUps(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	job := domain.JobProfile{Title: "Backend", RequiredSkills: []string{"Python", "Docker"}}
	resume := &domain.ResumeProfile{Name: "Jane", Skills: []string{"Python", "Docker", "Rust"}}
	qs := e.GenerateQuestions(job, resume)

	followUps := 0
	for _, q := range qs.Questions {
		if q.Category == domain.CategoryTechnical && q.DurationSeconds == 180 {
			followUps++
		}
	}
	assert.GreaterOrEqual(t, followUps, 1)
	assert.LessOrEqual(t, followUps, 2)
}

func TestGenerateQuestions_FollowUpsStayWithinTarget(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	job := domain.JobProfile{Title: "Backend", RequiredSkills: []string{"Python", "Docker", "Kubernetes", "AWS"}}
	resume := &domain.ResumeProfile{Name: "Jane", Skills: []string{"Python", "Docker", "Kubernetes", "AWS"}}
	qs := e.GenerateQuestions(job, resume)

	// Follow-ups take slots inside the target count instead of overflowing it.
	assert.LessOrEqual(t, len(qs.Questions), 7)
	followUps := 0
	for _, q := range qs.Questions {
		if q.Category == domain.CategoryTechnical && q.DurationSeconds == 180 {
			followUps++
		}
	}
	assert.GreaterOrEqual(t, followUps, 1)
}

func TestGenerateQuestions_NoOverlapStillReturnsQuestions(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	qs := e.GenerateQuestions(domain.JobProfile{Title: "Librarian"}, nil)
	require.NotEmpty(t, qs.Questions)
}

func TestEngine_AttemptDispatch(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	ctx := context.Background()

	res, err := e.Attempt(ctx, domain.ExtractionRequest{Kind: domain.KindResume, ResumeText: sampleResume})
	require.NoError(t, err)
	require.NotNil(t, res.Resume)

	res, err = e.Attempt(ctx, domain.ExtractionRequest{Kind: domain.KindJob, JobText: sampleJob})
	require.NoError(t, err)
	require.NotNil(t, res.Job)

	res, err = e.Attempt(ctx, domain.ExtractionRequest{
		Kind:   domain.KindMatch,
		Resume: &domain.ResumeProfile{Name: "Jane"},
		Job:    &domain.JobProfile{Title: "Backend"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.InDelta(t, 70, res.Match.OverallScore, 1e-9)

	res, err = e.Attempt(ctx, domain.ExtractionRequest{
		Kind: domain.KindQuestions,
		Job:  &domain.JobProfile{Title: "Backend", RequiredSkills: []string{"Python"}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Questions)
	assert.NotEmpty(t, res.Questions.Questions)
}

func TestLoadSeeds_EmbeddedDefaults(t *testing.T) {
	t.Parallel()
	vocab, err := offline.LoadVocabulary("")
	require.NoError(t, err)
	assert.NotEmpty(t, vocab)

	bank, err := offline.LoadQuestionBank("")
	require.NoError(t, err)
	assert.NotEmpty(t, bank)
	for _, q := range bank {
		assert.Positive(t, q.DurationSeconds)
	}
}
