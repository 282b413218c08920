package evaluator

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

const defaultFuzzyThreshold = 0.85

type promptSafetySettings struct {
	BlockedTerms []string `mapstructure:"blocked_terms"`
}

type queryValidationSettings struct {
	MaxLength    int   `mapstructure:"max_length"`
	CheckBalance *bool `mapstructure:"check_balance"`
}

type platformSettings struct {
	Platform       string   `mapstructure:"platform"`
	RequiredAny    []string `mapstructure:"required_any"`
	ForbiddenTerms []string `mapstructure:"forbidden_terms"`
}

type dataProtectionSettings struct {
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type complianceSettings struct {
	RequiredTerms  []string `mapstructure:"required_terms"`
	ForbiddenTerms []string `mapstructure:"forbidden_terms"`
}

type qualitySettings struct {
	MinLength int `mapstructure:"min_length"`
	MaxLength int `mapstructure:"max_length"`
	MinWords  int `mapstructure:"min_words"`
	MaxWords  int `mapstructure:"max_words"`
}

type formatSettings struct {
	Format string `mapstructure:"format"`
}

type filteringSettings struct {
	BlockedTerms        []string `mapstructure:"blocked_terms"`
	SimilarityThreshold float64  `mapstructure:"similarity_threshold"`
}

type validationSettings struct {
	Pattern   string `mapstructure:"pattern"`
	MatchMode string `mapstructure:"match_mode"`
}

func decodeSettings(settings map[string]interface{}, out interface{}) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	return nil
}
