package subscriber

import (
	"context"
	"strings"

	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type FlushGuardrailCacheEventSubscriber struct {
	logger *logrus.Logger
	cache  *cache.Cache
}

func NewFlushGuardrailCacheEventSubscriber(
	logger *logrus.Logger,
	c *cache.Cache,
) infraCache.EventSubscriber[event.FlushGuardrailCacheEvent] {
	return &FlushGuardrailCacheEventSubscriber{
		logger: logger,
		cache:  c,
	}
}

func (s FlushGuardrailCacheEventSubscriber) OnEvent(ctx context.Context, evt event.FlushGuardrailCacheEvent) error {
	s.logger.Debug("flushing guardrail caches")

	prefix := strings.TrimSuffix(cache.GuardrailKeyPattern, "%s")
	if err := s.cache.DeletePattern(ctx, prefix+"*"); err != nil {
		s.logger.WithError(err).Warn("failed to delete guardrail keys from redis cache")
	}
	if err := s.cache.Delete(ctx, cache.GuardrailsKey); err != nil {
		s.logger.WithError(err).Warn("failed to delete guardrail listing from redis cache")
	}
	if err := s.cache.DeleteEffectiveSets(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to delete effective sets from redis cache")
	}
	s.cache.FlushLocal()
	return nil
}
