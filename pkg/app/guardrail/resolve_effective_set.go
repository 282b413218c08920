package guardrail

import (
	"context"
	"fmt"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/domain/function"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/prometheus"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type EffectiveSetResolver interface {
	Resolve(ctx context.Context, functionID, platform string) (*resolver.EffectiveSet, error)
}

type effectiveSetResolver struct {
	logger *logrus.Logger
	repo   domainGuardrail.Repository
	cache  EffectiveSetCache
	group  singleflight.Group
}

func NewEffectiveSetResolver(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	cache EffectiveSetCache,
) EffectiveSetResolver {
	return &effectiveSetResolver{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

// Resolve layers global definitions, function-scoped definitions and per-function
// overrides into the effective guardrail set for one function/platform pair.
// Concurrent resolutions of the same pair collapse into a single repository pass.
func (r *effectiveSetResolver) Resolve(ctx context.Context, functionID, platform string) (*resolver.EffectiveSet, error) {
	if !function.Exists(functionID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, functionID)
	}
	if !function.SupportsPlatform(functionID, platform) {
		return nil, fmt.Errorf("%w: %s does not support %q", domain.ErrUnsupportedPlatform, functionID, platform)
	}

	if set, err := r.cache.Retrieve(ctx, functionID, platform); err == nil && set != nil {
		prometheus.ResolutionsTotal.WithLabelValues(functionID, "cache").Inc()
		return set, nil
	} else if err != nil {
		r.logger.WithError(err).Debug("effective set cache read failure")
	}

	key := functionID + ":" + platform
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.resolveFromRepository(ctx, functionID, platform)
	})
	if err != nil {
		return nil, err
	}

	set, ok := v.(*resolver.EffectiveSet)
	if !ok {
		return nil, fmt.Errorf("unexpected resolution result type %T", v)
	}
	return set, nil
}

func (r *effectiveSetResolver) resolveFromRepository(
	ctx context.Context,
	functionID, platform string,
) (*resolver.EffectiveSet, error) {
	global, err := r.repo.GetGlobal(ctx)
	if err != nil {
		r.logger.WithError(err).Error("failed to fetch global guardrails")
		return nil, fmt.Errorf("failed to fetch global guardrails: %w", err)
	}

	functionScoped, err := r.repo.GetForFunction(ctx, functionID)
	if err != nil {
		r.logger.WithError(err).Error("failed to fetch function guardrails")
		return nil, fmt.Errorf("failed to fetch function guardrails: %w", err)
	}

	overrides, err := r.repo.GetOverrides(ctx, functionID)
	if err != nil {
		r.logger.WithError(err).Error("failed to fetch guardrail overrides")
		return nil, fmt.Errorf("failed to fetch guardrail overrides: %w", err)
	}

	set := resolver.Resolve(functionID, platform, global, functionScoped, overrides)

	if err := r.cache.Save(ctx, set); err != nil {
		r.logger.WithError(err).Warn("failed to cache effective set")
	}

	prometheus.ResolutionsTotal.WithLabelValues(functionID, "database").Inc()
	return set, nil
}
