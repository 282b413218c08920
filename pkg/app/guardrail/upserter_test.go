package guardrail

import (
	"context"
	"errors"
	"testing"

	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	guardrailMocks "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail/mocks"
	cacheMocks "github.com/ThreatPilot/SentinelRail/pkg/infra/cache/mocks"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func validDefinition(id string) *domainGuardrail.Guardrail {
	return &domainGuardrail.Guardrail{
		ID:             id,
		Name:           "Prompt injection filter",
		Description:    "Rejects attempts to override system instructions.",
		Category:       domainGuardrail.CategoryPromptSafety,
		Severity:       domainGuardrail.SeverityCritical,
		ValidationType: domainGuardrail.ValidationInput,
		Scope:          domainGuardrail.ScopeGlobal,
		Enabled:        true,
		Priority:       10,
	}
}

func TestUpserter_Upsert_Success(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewUpserter(testLogger(), repo, publisher)

	ctx := context.Background()
	def := validDefinition("prompt-injection")

	repo.On("Upsert", ctx, def).Return(nil)
	publisher.On("Publish", ctx, event.DeleteGuardrailCacheEvent{GuardrailID: "prompt-injection"}).Return(nil)

	err := svc.Upsert(ctx, def)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpserter_Upsert_DefaultsPriority(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewUpserter(testLogger(), repo, publisher)

	ctx := context.Background()
	def := validDefinition("prompt-injection")
	def.Priority = 0

	repo.On("Upsert", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	err := svc.Upsert(ctx, def)

	assert.NoError(t, err)
	assert.Equal(t, domainGuardrail.DefaultPriority, def.Priority)
}

func TestUpserter_Upsert_InvalidDefinition(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewUpserter(testLogger(), repo, publisher)

	def := validDefinition("Bad Slug!")

	err := svc.Upsert(context.Background(), def)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lowercase slug")
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpserter_Upsert_RepositoryError(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewUpserter(testLogger(), repo, publisher)

	ctx := context.Background()
	def := validDefinition("prompt-injection")
	repoErr := errors.New("connection refused")

	repo.On("Upsert", ctx, def).Return(repoErr)

	err := svc.Upsert(ctx, def)

	assert.ErrorIs(t, err, repoErr)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpserter_Upsert_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewUpserter(testLogger(), repo, publisher)

	ctx := context.Background()
	def := validDefinition("prompt-injection")

	repo.On("Upsert", ctx, def).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("redis down"))

	err := svc.Upsert(ctx, def)

	assert.NoError(t, err)
}
