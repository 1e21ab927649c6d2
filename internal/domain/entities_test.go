package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

func TestDedupeSkills(t *testing.T) {
	t.Parallel()
	in := []string{"Python", " python ", "", "SQL", "sql", "Go"}
	out := domain.DedupeSkills(in)
	assert.Equal(t, []string{"Python", "SQL", "Go"}, out)
}

func TestDedupeSkills_PreservesOrderAndCasing(t *testing.T) {
	t.Parallel()
	out := domain.DedupeSkills([]string{"FastAPI", "PostgreSQL", "fastapi"})
	assert.Equal(t, []string{"FastAPI", "PostgreSQL"}, out)
}

func TestNormalizeSkill(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "python", domain.NormalizeSkill("  Python "))
	assert.Equal(t, "", domain.NormalizeSkill("   "))
}

func TestResumeProfile_Usable(t *testing.T) {
	t.Parallel()
	assert.False(t, domain.ResumeProfile{}.Usable())
	assert.True(t, domain.ResumeProfile{Name: "Ada Lovelace"}.Usable())
	assert.True(t, domain.ResumeProfile{Skills: []string{"Python"}}.Usable())
	assert.True(t, domain.ResumeProfile{Summary: "Engineer"}.Usable())
}

func TestJobProfile_Usable(t *testing.T) {
	t.Parallel()
	assert.False(t, domain.JobProfile{}.Usable())
	assert.True(t, domain.JobProfile{Title: "Backend Engineer"}.Usable())
	assert.True(t, domain.JobProfile{RequiredSkills: []string{"Go"}}.Usable())
	assert.True(t, domain.JobProfile{Summary: "Build services"}.Usable())
}
