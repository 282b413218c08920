package guardrail

import (
	"context"
	"fmt"

	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/domain/function"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

// OverrideWriter maintains the per-function replacement definitions. Writing
// an override never touches the underlying guardrail row.
type OverrideWriter interface {
	Put(ctx context.Context, functionID, guardrailID string, def *domainGuardrail.Guardrail) (*domainGuardrail.Override, error)
	Remove(ctx context.Context, functionID, guardrailID string) error
	Reset(ctx context.Context, functionID string) error
}

type overrideWriter struct {
	logger    *logrus.Logger
	repo      domainGuardrail.Repository
	publisher infraCache.EventPublisher
}

func NewOverrideWriter(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	publisher infraCache.EventPublisher,
) OverrideWriter {
	return &overrideWriter{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (w *overrideWriter) Put(
	ctx context.Context,
	functionID, guardrailID string,
	def *domainGuardrail.Guardrail,
) (*domainGuardrail.Override, error) {
	if !function.Exists(functionID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, functionID)
	}
	if def == nil {
		return nil, fmt.Errorf("override definition is required")
	}
	if def.ID == "" {
		def.ID = guardrailID
	} else if def.ID != guardrailID {
		return nil, fmt.Errorf("%w: body has %q, path has %q", domain.ErrOverrideMismatch, def.ID, guardrailID)
	}
	if def.Priority == 0 {
		def.Priority = domainGuardrail.DefaultPriority
	}

	override := &domainGuardrail.Override{
		FunctionID:  functionID,
		GuardrailID: guardrailID,
		Definition:  domainGuardrail.DefinitionJSON(*def),
		Enabled:     def.Enabled,
	}
	if err := override.Validate(); err != nil {
		return nil, err
	}

	if err := w.repo.UpsertOverride(ctx, override); err != nil {
		w.logger.WithError(err).Error("failed to upsert guardrail override")
		return nil, err
	}

	w.publishInvalidation(ctx, functionID, guardrailID)
	return override, nil
}

func (w *overrideWriter) Remove(ctx context.Context, functionID, guardrailID string) error {
	if err := w.repo.DeleteOverride(ctx, functionID, guardrailID); err != nil {
		if domain.IsNotFoundError(err) {
			return err
		}
		w.logger.WithError(err).Error("failed to delete guardrail override")
		return err
	}

	w.publishInvalidation(ctx, functionID, guardrailID)
	return nil
}

func (w *overrideWriter) Reset(ctx context.Context, functionID string) error {
	if !function.Exists(functionID) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownFunction, functionID)
	}

	if err := w.repo.DeleteOverrides(ctx, functionID); err != nil {
		w.logger.WithError(err).Error("failed to reset guardrail overrides")
		return err
	}

	w.publishInvalidation(ctx, functionID, "")
	return nil
}

func (w *overrideWriter) publishInvalidation(ctx context.Context, functionID, guardrailID string) {
	if err := w.publisher.Publish(
		ctx,
		event.DeleteFunctionCacheEvent{
			FunctionID:  functionID,
			GuardrailID: guardrailID,
		},
	); err != nil {
		w.logger.WithError(err).Error("failed to publish function cache event")
	}
}
