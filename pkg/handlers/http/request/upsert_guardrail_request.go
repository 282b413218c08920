package request

import (
	"fmt"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
)

type UpsertGuardrailRequest struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
	Severity       string                 `json:"severity"`
	ValidationType string                 `json:"validation_type"`
	Scope          string                 `json:"scope"`
	Enabled        *bool                  `json:"enabled"`
	Priority       int                    `json:"priority"`
	Tags           []string               `json:"tags"`
	RuleBody       string                 `json:"rule_body"`
	Settings       map[string]interface{} `json:"settings"`
	Functions      []string               `json:"applicable_functions"`
	Platforms      []string               `json:"applicable_platforms"`
}

// ToDomain builds the definition keyed by the path id. A body id, when
// present, must agree with the path.
func (r *UpsertGuardrailRequest) ToDomain(pathID string) (*guardrail.Guardrail, error) {
	if r.ID != "" && r.ID != pathID {
		return nil, fmt.Errorf("id in body (%s) does not match id in path (%s)", r.ID, pathID)
	}

	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	priority := r.Priority
	if priority == 0 {
		priority = guardrail.DefaultPriority
	}

	return &guardrail.Guardrail{
		ID:             pathID,
		Name:           r.Name,
		Description:    r.Description,
		Category:       guardrail.Category(r.Category),
		Severity:       guardrail.Severity(r.Severity),
		ValidationType: guardrail.ValidationType(r.ValidationType),
		Scope:          guardrail.Scope(r.Scope),
		Enabled:        enabled,
		Priority:       priority,
		Tags:           domain.TagsJSON(r.Tags),
		RuleBody:       r.RuleBody,
		Settings:       domain.SettingsJSON(r.Settings),
		Functions:      domain.StringsJSON(r.Functions),
		Platforms:      domain.StringsJSON(r.Platforms),
	}, nil
}
