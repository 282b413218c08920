package resolver

import (
	"sort"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
)

// Entry is one resolved rule. Custom marks entries carried by a per-function
// override rather than a default definition.
type Entry struct {
	guardrail.Guardrail
	Custom bool `json:"custom"`
}

// Counts summarizes a resolved set for reporting. Stage counts consider only
// enabled entries, since disabled rules never execute.
type Counts struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	InputOnly  int `json:"input_only"`
	OutputOnly int `json:"output_only"`
	PromptOnly int `json:"prompt_only"`
	Customized int `json:"customized"`
}

// EffectiveSet is the ordered rule list applied to one function. It is always
// derived, never persisted; any registry mutation invalidates it.
type EffectiveSet struct {
	FunctionID string    `json:"function_id"`
	Platform   string    `json:"platform,omitempty"`
	Entries    []Entry   `json:"guardrails"`
	Counts     Counts    `json:"counts"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Enabled returns the entries that actually execute or inject.
func (s *EffectiveSet) Enabled() []Entry {
	out := make([]Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Guardrail.Enabled {
			out = append(out, e)
		}
	}
	return out
}

// Resolve merges the three configuration layers for a function: global
// definitions, function-specific defaults, then custom overrides replacing
// id-for-id (an override with a novel id is inserted and marked custom).
// Disabled entries stay in the set so administrators can see and re-enable
// them; execution filters on Enabled separately. The result is a pure
// function of its inputs: same layers in, same ordered set out.
func Resolve(functionID, platform string, global, functionScoped []guardrail.Guardrail, overrides []guardrail.Override) *EffectiveSet {
	order := make([]string, 0, len(global)+len(functionScoped))
	byID := make(map[string]*Entry, len(global)+len(functionScoped))

	add := func(def guardrail.Guardrail, custom bool) {
		if existing, ok := byID[def.ID]; ok {
			existing.Guardrail = def
			existing.Custom = custom
			return
		}
		order = append(order, def.ID)
		byID[def.ID] = &Entry{Guardrail: def, Custom: custom}
	}

	for _, def := range global {
		if def.AppliesToFunction(functionID) {
			add(def, false)
		}
	}
	for _, def := range functionScoped {
		if def.AppliesToFunction(functionID) {
			add(def, false)
		}
	}
	// Overrides are keyed to the function, so the key alone decides function
	// applicability; they replace id-for-id regardless of the payload's sets.
	for _, override := range overrides {
		if override.FunctionID != functionID {
			continue
		}
		add(override.Resolved(), true)
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		entry := *byID[id]
		if !entry.Guardrail.AppliesToPlatform(platform) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority < entries[j].Priority
		}
		if ri, rj := entries[i].Severity.Rank(), entries[j].Severity.Rank(); ri != rj {
			return ri < rj
		}
		return entries[i].ID < entries[j].ID
	})

	return &EffectiveSet{
		FunctionID: functionID,
		Platform:   platform,
		Entries:    entries,
		Counts:     countEntries(entries),
		ResolvedAt: time.Now(),
	}
}

func countEntries(entries []Entry) Counts {
	counts := Counts{Total: len(entries)}
	for _, e := range entries {
		if e.Custom {
			counts.Customized++
		}
		if !e.Guardrail.Enabled {
			continue
		}
		counts.Active++
		switch e.ValidationType {
		case guardrail.ValidationInput:
			counts.InputOnly++
		case guardrail.ValidationOutput:
			counts.OutputOnly++
		case guardrail.ValidationPromptInstruction:
			counts.PromptOnly++
		}
	}
	return counts
}
