package guardrail

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

// Seeder installs the built-in guardrail catalog on boot. Definitions already
// present are left untouched so operator edits survive restarts.
type Seeder interface {
	Seed(ctx context.Context) (int, error)
}

type seeder struct {
	logger    *logrus.Logger
	repo      domainGuardrail.Repository
	publisher infraCache.EventPublisher
}

func NewSeeder(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	publisher infraCache.EventPublisher,
) Seeder {
	return &seeder{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (s *seeder) Seed(ctx context.Context) (int, error) {
	inserted := 0
	for _, def := range domainGuardrail.Seed() {
		if _, err := s.repo.Get(ctx, def.ID); err == nil {
			continue
		} else if !domain.IsNotFoundError(err) {
			s.logger.WithError(err).WithField("guardrail_id", def.ID).Error("failed to check seed guardrail")
			return inserted, err
		}

		def := def
		if err := s.repo.Upsert(ctx, &def); err != nil {
			s.logger.WithError(err).WithField("guardrail_id", def.ID).Error("failed to seed guardrail")
			return inserted, err
		}
		inserted++
	}

	if inserted > 0 {
		s.logger.WithField("count", inserted).Info("seeded built-in guardrails")
		if err := s.publisher.Publish(ctx, event.FlushGuardrailCacheEvent{}); err != nil {
			s.logger.WithError(err).Error("failed to publish flush event after seeding")
		}
	}

	return inserted, nil
}
