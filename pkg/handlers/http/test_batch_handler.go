package http

import (
	"errors"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/evaluator"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/ThreatPilot/SentinelRail/pkg/runner"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type testBatchHandler struct {
	logger   *logrus.Logger
	repo     domainGuardrail.Repository
	resolver appGuardrail.EffectiveSetResolver
	runner   *runner.Runner
}

func NewTestBatchHandler(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	resolver appGuardrail.EffectiveSetResolver,
	run *runner.Runner,
) Handler {
	return &testBatchHandler{
		logger:   logger,
		repo:     repo,
		resolver: resolver,
		runner:   run,
	}
}

// Handle @Summary Evaluate one input against many guardrails
// @Description Runs the listed definitions, or the function's enabled effective set, concurrently
// @Tags Testing
// @Accept json
// @Produce json
// @Param test body request.TestBatchRequest true "Batch test input"
// @Success 200 {object} runner.BatchReport "Batch report"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/test/batch [post]
func (h *testBatchHandler) Handle(c *fiber.Ctx) error {
	var req request.TestBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items, status, err := h.collectItems(c, &req)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	evalCtx := &evaluator.Context{
		FunctionID:    req.FunctionID,
		Platform:      req.Platform,
		SourceContent: req.SourceContent,
	}

	report := h.runner.Batch(c.Context(), req.Input, items, evalCtx)
	return c.Status(fiber.StatusOK).JSON(report)
}

// collectItems turns the request into runnable items. Explicit ids run as
// given, even when disabled; without ids the enabled effective set runs.
func (h *testBatchHandler) collectItems(c *fiber.Ctx, req *request.TestBatchRequest) ([]runner.BatchItem, int, error) {
	if len(req.GuardrailIDs) > 0 {
		items := make([]runner.BatchItem, 0, len(req.GuardrailIDs))
		for _, id := range req.GuardrailIDs {
			def, err := h.repo.Get(c.Context(), id)
			if err != nil && !domain.IsNotFoundError(err) {
				h.logger.WithError(err).Error("failed to get guardrail for batch")
				return nil, fiber.StatusInternalServerError, errors.New("failed to load guardrails")
			}
			items = append(items, runner.BatchItem{GuardrailID: id, Def: def})
		}
		return items, 0, nil
	}

	set, err := h.resolver.Resolve(c.Context(), req.FunctionID, req.Platform)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownFunction) {
			return nil, fiber.StatusNotFound, err
		}
		if errors.Is(err, domain.ErrUnsupportedPlatform) {
			return nil, fiber.StatusBadRequest, err
		}
		h.logger.WithError(err).Error("failed to resolve effective set for batch")
		return nil, fiber.StatusInternalServerError, errors.New("failed to resolve effective set")
	}

	enabled := set.Enabled()
	items := make([]runner.BatchItem, 0, len(enabled))
	for i := range enabled {
		items = append(items, runner.BatchItem{
			GuardrailID: enabled[i].ID,
			Def:         &enabled[i].Guardrail,
		})
	}
	return items, 0, nil
}
