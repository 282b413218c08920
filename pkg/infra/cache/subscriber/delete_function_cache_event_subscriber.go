package subscriber

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/common"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type DeleteFunctionCacheEventSubscriber struct {
	logger      *logrus.Logger
	cache       *cache.Cache
	memoryCache *common.TTLMap
}

func NewDeleteFunctionCacheEventSubscriber(
	logger *logrus.Logger,
	c *cache.Cache,
) infraCache.EventSubscriber[event.DeleteFunctionCacheEvent] {
	return &DeleteFunctionCacheEventSubscriber{
		logger:      logger,
		cache:       c,
		memoryCache: c.GetTTLMap(cache.OverrideTTLName),
	}
}

func (s DeleteFunctionCacheEventSubscriber) OnEvent(ctx context.Context, evt event.DeleteFunctionCacheEvent) error {
	s.logger.WithFields(logrus.Fields{
		"functionID":  evt.FunctionID,
		"guardrailID": evt.GuardrailID,
	}).Debug("invalidating function override cache")

	if s.memoryCache != nil {
		s.memoryCache.Delete(evt.FunctionID)
	}
	if err := s.cache.DeleteFunctionData(ctx, evt.FunctionID); err != nil {
		s.logger.WithError(err).Warn("failed to delete function data from redis cache")
	}
	return nil
}
