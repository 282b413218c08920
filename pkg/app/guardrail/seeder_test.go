package guardrail

import (
	"context"
	"testing"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	guardrailMocks "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail/mocks"
	cacheMocks "github.com/ThreatPilot/SentinelRail/pkg/infra/cache/mocks"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSeeder_Seed_InstallsMissingDefinitions(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewSeeder(testLogger(), repo, publisher)

	ctx := context.Background()

	repo.On("Get", ctx, mock.Anything).Return(nil, domain.NewNotFoundError("guardrail", "any"))
	repo.On("Upsert", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, event.FlushGuardrailCacheEvent{}).Return(nil)

	inserted, err := svc.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, len(domainGuardrail.Seed()), inserted)
	repo.AssertNumberOfCalls(t, "Upsert", len(domainGuardrail.Seed()))
	publisher.AssertExpectations(t)
}

func TestSeeder_Seed_SkipsExistingDefinitions(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewSeeder(testLogger(), repo, publisher)

	ctx := context.Background()
	existing := validDefinition("existing")

	repo.On("Get", ctx, mock.Anything).Return(existing, nil)

	inserted, err := svc.Seed(ctx)

	assert.NoError(t, err)
	assert.Zero(t, inserted)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSeeder_Seed_StopsOnRepositoryError(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewSeeder(testLogger(), repo, publisher)

	ctx := context.Background()

	repo.On("Get", ctx, mock.Anything).Return(nil, assert.AnError)

	inserted, err := svc.Seed(ctx)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, inserted)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
