package guardrail

import (
	"context"
)

// ListFilter narrows List results; zero values mean "no restriction".
// Predicates are combined with AND.
type ListFilter struct {
	Category       Category
	Severity       Severity
	ValidationType ValidationType
	Scope          Scope
	Enabled        *bool
	Tag            string
	Search         string
}

type Repository interface {
	Get(ctx context.Context, id string) (*Guardrail, error)
	List(ctx context.Context, filter ListFilter) ([]Guardrail, error)
	GetGlobal(ctx context.Context) ([]Guardrail, error)
	GetForFunction(ctx context.Context, functionID string) ([]Guardrail, error)
	Upsert(ctx context.Context, def *Guardrail) error
	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string, enabled bool) error

	GetOverrides(ctx context.Context, functionID string) ([]Override, error)
	UpsertOverride(ctx context.Context, override *Override) error
	DeleteOverride(ctx context.Context, functionID, guardrailID string) error
	DeleteOverrides(ctx context.Context, functionID string) error
}
