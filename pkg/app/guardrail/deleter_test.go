package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	guardrailMocks "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail/mocks"
	cacheMocks "github.com/ThreatPilot/SentinelRail/pkg/infra/cache/mocks"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDeleter_Delete_Success(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewDeleter(testLogger(), repo, publisher)

	ctx := context.Background()

	repo.On("Delete", ctx, "prompt-injection").Return(nil)
	publisher.On("Publish", ctx, event.DeleteGuardrailCacheEvent{GuardrailID: "prompt-injection"}).Return(nil)

	err := svc.Delete(ctx, "prompt-injection")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeleter_Delete_NotFound(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewDeleter(testLogger(), repo, publisher)

	ctx := context.Background()
	notFound := domain.NewNotFoundError("guardrail", "missing")

	repo.On("Delete", ctx, "missing").Return(notFound)

	err := svc.Delete(ctx, "missing")

	assert.Error(t, err)
	assert.True(t, domain.IsNotFoundError(err))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDeleter_Delete_RepositoryError(t *testing.T) {
	repo := new(guardrailMocks.Repository)
	publisher := new(cacheMocks.EventPublisher)
	svc := NewDeleter(testLogger(), repo, publisher)

	ctx := context.Background()
	repoErr := errors.New("connection refused")

	repo.On("Delete", ctx, "prompt-injection").Return(repoErr)

	err := svc.Delete(ctx, "prompt-injection")

	assert.ErrorIs(t, err, repoErr)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
