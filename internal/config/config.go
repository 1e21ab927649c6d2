// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Remote providers. A provider joins the chain only when its API key is
	// present; the offline engine is always appended last.
	GoogleAIAPIKey  string `env:"GOOGLE_AI_API_KEY"`
	GoogleAIBaseURL string `env:"GOOGLE_AI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GoogleAIModel   string `env:"GOOGLE_AI_MODEL" envDefault:"gemini-1.5-flash"`
	DeepSeekAPIKey  string `env:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL string `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com/v1"`
	DeepSeekModel   string `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// ProviderPriority is the declared chain order; entries without
	// credentials are filtered at startup.
	ProviderPriority []string      `env:"PROVIDER_PRIORITY" envSeparator:"," envDefault:"google_ai,deepseek,openai"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`

	// Matching criterion weights; must sum to 1.0.
	SkillsWeight     float64 `env:"MATCH_SKILLS_WEIGHT" envDefault:"0.5"`
	ExperienceWeight float64 `env:"MATCH_EXPERIENCE_WEIGHT" envDefault:"0.3"`
	EducationWeight  float64 `env:"MATCH_EDUCATION_WEIGHT" envDefault:"0.1"`
	LocationWeight   float64 `env:"MATCH_LOCATION_WEIGHT" envDefault:"0.1"`
	// GapFloorRatio: being at or below this fraction of the required years
	// scores 0 on the experience criterion.
	GapFloorRatio float64 `env:"EXPERIENCE_GAP_FLOOR_RATIO" envDefault:"0.5"`

	// Offline engine seeds. Empty paths fall back to the embedded defaults.
	SkillVocabPath      string `env:"SKILL_VOCAB_PATH"`
	QuestionBankPath    string `env:"QUESTION_BANK_PATH"`
	QuestionTargetCount int    `env:"QUESTION_TARGET_COUNT" envDefault:"7"`

	// PromptTokenBudget caps input text sent to remote providers.
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"6000"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ai-recruit-engine"`
}

// Load parses environment variables into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces startup-time invariants. Violations are deployment
// errors, never request-time errors.
func (c Config) Validate() error {
	sum := c.SkillsWeight + c.ExperienceWeight + c.EducationWeight + c.LocationWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: match weights sum to %g, want 1.0", domain.ErrConfiguration, sum)
	}
	if c.GapFloorRatio < 0 || c.GapFloorRatio >= 1 {
		return fmt.Errorf("%w: gap floor ratio %g outside [0,1)", domain.ErrConfiguration, c.GapFloorRatio)
	}
	if c.QuestionTargetCount < 1 {
		return fmt.Errorf("%w: question target count %d < 1", domain.ErrConfiguration, c.QuestionTargetCount)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("%w: provider timeout must be positive", domain.ErrConfiguration)
	}
	return nil
}

// CredentialFor reports whether the named provider has its credential set.
// The offline provider needs none.
func (c Config) CredentialFor(providerID string) bool {
	switch providerID {
	case "google_ai":
		return c.GoogleAIAPIKey != ""
	case "deepseek":
		return c.DeepSeekAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case domain.OfflineProviderID:
		return true
	default:
		return false
	}
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }
