package guardrail

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type Toggler interface {
	Toggle(ctx context.Context, id string, enabled bool) (*domainGuardrail.Guardrail, error)
}

type toggler struct {
	logger    *logrus.Logger
	repo      domainGuardrail.Repository
	publisher infraCache.EventPublisher
}

func NewToggler(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	publisher infraCache.EventPublisher,
) Toggler {
	return &toggler{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

// Toggle flips the enabled flag without touching the definition body and
// returns the updated guardrail.
func (t *toggler) Toggle(ctx context.Context, id string, enabled bool) (*domainGuardrail.Guardrail, error) {
	if err := t.repo.Toggle(ctx, id, enabled); err != nil {
		if domain.IsNotFoundError(err) {
			return nil, err
		}
		t.logger.WithError(err).Error("failed to toggle guardrail")
		return nil, err
	}

	def, err := t.repo.Get(ctx, id)
	if err != nil {
		t.logger.WithError(err).Error("failed to fetch toggled guardrail")
		return nil, err
	}

	if err := t.publisher.Publish(
		ctx,
		event.DeleteGuardrailCacheEvent{
			GuardrailID: id,
		},
	); err != nil {
		t.logger.WithError(err).Error("failed to publish guardrail event")
	}

	return def, nil
}
