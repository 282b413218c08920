package guardrail

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"gorm.io/gorm"
)

const (
	CategoryPromptSafety            Category = "prompt_safety"
	CategoryQueryValidation         Category = "query_validation"
	CategoryOutputValidation        Category = "output_validation"
	CategoryHallucinationPrevention Category = "hallucination_prevention"
	CategorySecurityContext         Category = "security_context"
	CategoryPlatformSpecific        Category = "platform_specific"
	CategoryDataProtection          Category = "data_protection"
	CategoryCompliance              Category = "compliance"
	CategoryQuality                 Category = "quality"
	CategoryFormat                  Category = "format"
	CategoryFiltering               Category = "filtering"
	CategoryValidation              Category = "validation"
)

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

const (
	ValidationPromptInstruction ValidationType = "prompt_instruction"
	ValidationInput             ValidationType = "input_validation"
	ValidationOutput            ValidationType = "output_validation"
)

const (
	ScopeGlobal           Scope = "global"
	ScopeFunctionSpecific Scope = "function_specific"
)

const (
	MinPriority     = 1
	MaxPriority     = 99
	DefaultPriority = 50
)

type (
	Category       string
	Severity       string
	ValidationType string
	Scope          string
)

// Guardrail is a single validation rule or prompt instruction governing an AI
// function. ID is an administrator-chosen slug, stable across edits.
type Guardrail struct {
	ID             string              `json:"id" gorm:"primaryKey;size:128"`
	Name           string              `json:"name" gorm:"not null"`
	Description    string              `json:"description"`
	Category       Category            `json:"category" gorm:"size:64;not null;index"`
	Severity       Severity            `json:"severity" gorm:"size:16;not null"`
	ValidationType ValidationType      `json:"validation_type" gorm:"column:validation_type;size:32;not null"`
	Scope          Scope               `json:"scope" gorm:"size:32;not null;index"`
	Enabled        bool                `json:"enabled" gorm:"default:true"`
	Priority       int                 `json:"priority" gorm:"default:50"`
	Tags           domain.TagsJSON     `json:"tags" gorm:"type:jsonb"`
	RuleBody       string              `json:"rule_body" gorm:"column:rule_body"`
	Settings       domain.SettingsJSON `json:"settings" gorm:"type:jsonb"`
	Functions      domain.StringsJSON  `json:"applicable_functions" gorm:"column:applicable_functions;type:jsonb"`
	Platforms      domain.StringsJSON  `json:"applicable_platforms" gorm:"column:applicable_platforms;type:jsonb"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

var validCategories = map[Category]bool{
	CategoryPromptSafety:            true,
	CategoryQueryValidation:         true,
	CategoryOutputValidation:        true,
	CategoryHallucinationPrevention: true,
	CategorySecurityContext:         true,
	CategoryPlatformSpecific:        true,
	CategoryDataProtection:          true,
	CategoryCompliance:              true,
	CategoryQuality:                 true,
	CategoryFormat:                  true,
	CategoryFiltering:               true,
	CategoryValidation:              true,
}

var validSeverities = map[Severity]bool{
	SeverityCritical: true,
	SeverityHigh:     true,
	SeverityMedium:   true,
	SeverityLow:      true,
	SeverityInfo:     true,
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func (g *Guardrail) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !idPattern.MatchString(g.ID) {
		return fmt.Errorf("invalid id: must be a lowercase slug")
	}
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validCategories[g.Category] {
		return fmt.Errorf("invalid category: %s", g.Category)
	}
	if !validSeverities[g.Severity] {
		return fmt.Errorf("invalid severity: %s", g.Severity)
	}
	switch g.ValidationType {
	case ValidationPromptInstruction, ValidationInput, ValidationOutput:
	default:
		return fmt.Errorf("invalid validation_type: %s", g.ValidationType)
	}
	switch g.Scope {
	case ScopeGlobal, ScopeFunctionSpecific:
	default:
		return fmt.Errorf("invalid scope: %s", g.Scope)
	}
	if g.Priority < MinPriority || g.Priority > MaxPriority {
		return fmt.Errorf("priority must be between %d and %d", MinPriority, MaxPriority)
	}
	if pattern, ok := g.Settings["pattern"].(string); ok && pattern != "" {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid settings.pattern: %v", err)
		}
	}
	return nil
}

func (g *Guardrail) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Priority == 0 {
		g.Priority = DefaultPriority
	}
	return g.Validate()
}

func (g *Guardrail) BeforeUpdate(tx *gorm.DB) error {
	g.UpdatedAt = time.Now()
	return g.Validate()
}

func (g *Guardrail) TableName() string {
	return "guardrail_definitions"
}

// Rank orders severities for effective-set sorting, most urgent first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// AppliesToFunction reports whether the rule targets the given function.
// An empty function set means the rule applies everywhere.
func (g *Guardrail) AppliesToFunction(functionID string) bool {
	if len(g.Functions) == 0 {
		return true
	}
	return g.Functions.Contains(functionID)
}

// AppliesToPlatform reports whether the rule targets the given platform.
// An empty platform set or an empty requested platform means no restriction.
func (g *Guardrail) AppliesToPlatform(platform string) bool {
	if len(g.Platforms) == 0 || platform == "" {
		return true
	}
	return g.Platforms.Contains(platform)
}

// Executable reports whether the rule runs against text at all.
// Prompt instructions are only ever injected as model context.
func (g *Guardrail) Executable() bool {
	return g.ValidationType == ValidationInput || g.ValidationType == ValidationOutput
}

func (g *Guardrail) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
