package offline

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
)

//go:embed seeds/vocab.yaml
var defaultVocabYAML []byte

//go:embed seeds/questions.yaml
var defaultQuestionsYAML []byte

type vocabFile struct {
	Skills []string `yaml:"skills"`
}

// BankQuestion is one question bank entry. Tags link the question to job
// skills; untagged questions are always eligible.
type BankQuestion struct {
	Text            string   `yaml:"text"`
	Category        string   `yaml:"category"`
	Difficulty      string   `yaml:"difficulty"`
	DurationSeconds int      `yaml:"duration_seconds"`
	Tags            []string `yaml:"tags"`
}

type questionsFile struct {
	Questions []BankQuestion `yaml:"questions"`
}

// LoadVocabulary reads the known-skills vocabulary from path, or the
// embedded default when path is empty.
func LoadVocabulary(path string) ([]string, error) {
	data := defaultVocabYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("op=offline.LoadVocabulary: %w", err)
		}
		data = b
	}
	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("op=offline.LoadVocabulary: %w", err)
	}
	skills := domain.DedupeSkills(f.Skills)
	if len(skills) == 0 {
		return nil, fmt.Errorf("%w: skill vocabulary is empty", domain.ErrConfiguration)
	}
	return skills, nil
}

// LoadQuestionBank reads the question bank from path, or the embedded
// default when path is empty.
func LoadQuestionBank(path string) ([]BankQuestion, error) {
	data := defaultQuestionsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("op=offline.LoadQuestionBank: %w", err)
		}
		data = b
	}
	var f questionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("op=offline.LoadQuestionBank: %w", err)
	}
	bank := make([]BankQuestion, 0, len(f.Questions))
	for _, q := range f.Questions {
		if q.Text == "" {
			continue
		}
		if q.DurationSeconds <= 0 {
			q.DurationSeconds = defaultDurationFor(q.Category)
		}
		bank = append(bank, q)
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("%w: question bank is empty", domain.ErrConfiguration)
	}
	return bank, nil
}

func defaultDurationFor(category string) int {
	switch category {
	case string(domain.CategoryTechnical):
		return 300
	case string(domain.CategoryBehavioral), string(domain.CategorySituational):
		return 180
	default:
		return 120
	}
}
