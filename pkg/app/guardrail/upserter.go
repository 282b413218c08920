package guardrail

import (
	"context"
	"fmt"

	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type Upserter interface {
	Upsert(ctx context.Context, def *domainGuardrail.Guardrail) error
}

type upserter struct {
	logger    *logrus.Logger
	repo      domainGuardrail.Repository
	publisher infraCache.EventPublisher
}

func NewUpserter(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	publisher infraCache.EventPublisher,
) Upserter {
	return &upserter{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (u *upserter) Upsert(ctx context.Context, def *domainGuardrail.Guardrail) error {
	if def == nil {
		return fmt.Errorf("guardrail definition is required")
	}
	if def.Priority == 0 {
		def.Priority = domainGuardrail.DefaultPriority
	}
	if err := def.Validate(); err != nil {
		return err
	}

	if err := u.repo.Upsert(ctx, def); err != nil {
		u.logger.WithError(err).Error("failed to upsert guardrail")
		return err
	}

	if err := u.publisher.Publish(
		ctx,
		event.DeleteGuardrailCacheEvent{
			GuardrailID: def.ID,
		},
	); err != nil {
		u.logger.WithError(err).Error("failed to publish guardrail event")
	}

	return nil
}
