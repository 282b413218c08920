package guardrail

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type Deleter interface {
	Delete(ctx context.Context, id string) error
}

type deleter struct {
	logger    *logrus.Logger
	repo      domainGuardrail.Repository
	publisher infraCache.EventPublisher
}

func NewDeleter(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	publisher infraCache.EventPublisher,
) Deleter {
	return &deleter{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (d *deleter) Delete(ctx context.Context, id string) error {
	if err := d.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFoundError(err) {
			return err
		}
		d.logger.WithError(err).Error("failed to delete guardrail")
		return err
	}

	if err := d.publisher.Publish(
		ctx,
		event.DeleteGuardrailCacheEvent{
			GuardrailID: id,
		},
	); err != nil {
		d.logger.WithError(err).Error("failed to publish guardrail event")
	}

	return nil
}
