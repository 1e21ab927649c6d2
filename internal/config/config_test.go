package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-recruit-engine/internal/config"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

func validConfig() config.Config {
	return config.Config{
		SkillsWeight:        0.5,
		ExperienceWeight:    0.3,
		EducationWeight:     0.1,
		LocationWeight:      0.1,
		GapFloorRatio:       0.5,
		QuestionTargetCount: 7,
		ProviderTimeout:     30 * time.Second,
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.SkillsWeight = 0.6
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestValidate_WeightsToleranceAccepted(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	// Float representation noise within 1e-6 must not reject the config.
	cfg.SkillsWeight = 0.5 + 5e-7
	require.NoError(t, cfg.Validate())
}

func TestValidate_GapFloorRatioBounds(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.GapFloorRatio = 1.0
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
	cfg.GapFloorRatio = -0.1
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestValidate_QuestionTargetCount(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.QuestionTargetCount = 0
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestValidate_ProviderTimeout(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.ProviderTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestCredentialFor(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.GoogleAIAPIKey = "k"
	assert.True(t, cfg.CredentialFor("google_ai"))
	assert.False(t, cfg.CredentialFor("deepseek"))
	assert.False(t, cfg.CredentialFor("openai"))
	assert.True(t, cfg.CredentialFor(domain.OfflineProviderID))
	assert.False(t, cfg.CredentialFor("nonsense"))
}

func TestEnvHelpers(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.AppEnv = "dev"
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
	cfg.AppEnv = "PROD"
	assert.True(t, cfg.IsProd())
}
