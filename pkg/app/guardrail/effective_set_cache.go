package guardrail

import (
	"context"

	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
)

type EffectiveSetCache interface {
	Retrieve(ctx context.Context, functionID, platform string) (*resolver.EffectiveSet, error)
	Save(ctx context.Context, set *resolver.EffectiveSet) error
}

type effectiveSetCache struct {
	cache *cache.Cache
}

func NewEffectiveSetCache(c *cache.Cache) EffectiveSetCache {
	return &effectiveSetCache{cache: c}
}

func (s *effectiveSetCache) Retrieve(ctx context.Context, functionID, platform string) (*resolver.EffectiveSet, error) {
	return s.cache.GetEffectiveSet(ctx, functionID, platform)
}

func (s *effectiveSetCache) Save(ctx context.Context, set *resolver.EffectiveSet) error {
	return s.cache.SaveEffectiveSet(ctx, set)
}
