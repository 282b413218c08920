package mocks

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Get(ctx context.Context, id string) (*guardrail.Guardrail, error) {
	args := m.Called(ctx, id)
	def, _ := args.Get(0).(*guardrail.Guardrail)
	return def, args.Error(1)
}

func (m *Repository) List(ctx context.Context, filter guardrail.ListFilter) ([]guardrail.Guardrail, error) {
	args := m.Called(ctx, filter)
	defs, _ := args.Get(0).([]guardrail.Guardrail)
	return defs, args.Error(1)
}

func (m *Repository) GetGlobal(ctx context.Context) ([]guardrail.Guardrail, error) {
	args := m.Called(ctx)
	defs, _ := args.Get(0).([]guardrail.Guardrail)
	return defs, args.Error(1)
}

func (m *Repository) GetForFunction(ctx context.Context, functionID string) ([]guardrail.Guardrail, error) {
	args := m.Called(ctx, functionID)
	defs, _ := args.Get(0).([]guardrail.Guardrail)
	return defs, args.Error(1)
}

func (m *Repository) Upsert(ctx context.Context, def *guardrail.Guardrail) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) Toggle(ctx context.Context, id string, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *Repository) GetOverrides(ctx context.Context, functionID string) ([]guardrail.Override, error) {
	args := m.Called(ctx, functionID)
	overrides, _ := args.Get(0).([]guardrail.Override)
	return overrides, args.Error(1)
}

func (m *Repository) UpsertOverride(ctx context.Context, override *guardrail.Override) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *Repository) DeleteOverride(ctx context.Context, functionID, guardrailID string) error {
	args := m.Called(ctx, functionID, guardrailID)
	return args.Error(0)
}

func (m *Repository) DeleteOverrides(ctx context.Context, functionID string) error {
	args := m.Called(ctx, functionID)
	return args.Error(0)
}
