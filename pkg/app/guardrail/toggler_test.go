package guardrail

import (
	"context"
	"testing"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	guardrailMocks "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail/mocks"
	cacheMocks "github.com/ThreatPilot/SentinelRail/pkg/infra/cache/mocks"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestToggler_Toggle_Success(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewToggler(testLogger(), repo, publisher)

	ctx := context.Background()
	updated := validDefinition("prompt-injection")
	updated.Enabled = false

	repo.On("Toggle", ctx, "prompt-injection", false).Return(nil)
	repo.On("Get", ctx, "prompt-injection").Return(updated, nil)
	publisher.On("Publish", ctx, event.DeleteGuardrailCacheEvent{GuardrailID: "prompt-injection"}).Return(nil)

	def, err := svc.Toggle(ctx, "prompt-injection", false)

	assert.NoError(t, err)
	assert.NotNil(t, def)
	assert.False(t, def.Enabled)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestToggler_Toggle_NotFound(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewToggler(testLogger(), repo, publisher)

	ctx := context.Background()
	notFound := domain.NewNotFoundError("guardrail", "missing")

	repo.On("Toggle", ctx, "missing", true).Return(notFound)

	def, err := svc.Toggle(ctx, "missing", true)

	assert.Nil(t, def)
	assert.True(t, domain.IsNotFoundError(err))
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
