package subscriber

import (
	"context"
	"fmt"

	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/common"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type DeleteGuardrailCacheEventSubscriber struct {
	logger      *logrus.Logger
	cache       *cache.Cache
	memoryCache *common.TTLMap
}

func NewDeleteGuardrailCacheEventSubscriber(
	logger *logrus.Logger,
	c *cache.Cache,
) infraCache.EventSubscriber[event.DeleteGuardrailCacheEvent] {
	return &DeleteGuardrailCacheEventSubscriber{
		logger:      logger,
		cache:       c,
		memoryCache: c.GetTTLMap(cache.GuardrailTTLName),
	}
}

func (s DeleteGuardrailCacheEventSubscriber) OnEvent(ctx context.Context, evt event.DeleteGuardrailCacheEvent) error {
	s.logger.WithFields(logrus.Fields{
		"guardrailID": evt.GuardrailID,
	}).Debug("invalidating guardrail cache")

	if s.memoryCache != nil {
		s.memoryCache.Delete(evt.GuardrailID)
	}
	guardrailKey := fmt.Sprintf(cache.GuardrailKeyPattern, evt.GuardrailID)

	if err := s.cache.Delete(ctx, guardrailKey); err != nil {
		s.logger.WithError(err).Warn("failed to delete guardrail from redis cache")
	}
	if err := s.cache.Delete(ctx, cache.GuardrailsKey); err != nil {
		s.logger.WithError(err).Warn("failed to delete guardrail listing from redis cache")
	}
	// The definition may participate in any function's resolved set.
	if err := s.cache.DeleteEffectiveSets(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to delete effective sets from redis cache")
	}
	return nil
}
