package mocks

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/stretchr/testify/mock"
)

type Upserter struct {
	mock.Mock
}

func (m *Upserter) Upsert(ctx context.Context, def *guardrail.Guardrail) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

type Deleter struct {
	mock.Mock
}

func (m *Deleter) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type Toggler struct {
	mock.Mock
}

func (m *Toggler) Toggle(ctx context.Context, id string, enabled bool) (*guardrail.Guardrail, error) {
	args := m.Called(ctx, id, enabled)
	def, _ := args.Get(0).(*guardrail.Guardrail)
	return def, args.Error(1)
}

type OverrideWriter struct {
	mock.Mock
}

func (m *OverrideWriter) Put(ctx context.Context, functionID, guardrailID string, def *guardrail.Guardrail) (*guardrail.Override, error) {
	args := m.Called(ctx, functionID, guardrailID, def)
	override, _ := args.Get(0).(*guardrail.Override)
	return override, args.Error(1)
}

func (m *OverrideWriter) Remove(ctx context.Context, functionID, guardrailID string) error {
	args := m.Called(ctx, functionID, guardrailID)
	return args.Error(0)
}

func (m *OverrideWriter) Reset(ctx context.Context, functionID string) error {
	args := m.Called(ctx, functionID)
	return args.Error(0)
}

type EffectiveSetResolver struct {
	mock.Mock
}

func (m *EffectiveSetResolver) Resolve(ctx context.Context, functionID, platform string) (*resolver.EffectiveSet, error) {
	args := m.Called(ctx, functionID, platform)
	set, _ := args.Get(0).(*resolver.EffectiveSet)
	return set, args.Error(1)
}
