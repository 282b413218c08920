package http

import (
	"errors"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/ThreatPilot/SentinelRail/pkg/pipeline"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type testPipelineHandler struct {
	logger   *logrus.Logger
	resolver appGuardrail.EffectiveSetResolver
	pipeline *pipeline.Pipeline
}

func NewTestPipelineHandler(
	logger *logrus.Logger,
	resolver appGuardrail.EffectiveSetResolver,
	pipe *pipeline.Pipeline,
) Handler {
	return &testPipelineHandler{
		logger:   logger,
		resolver: resolver,
		pipeline: pipe,
	}
}

// Handle @Summary Run the full guardrail pipeline for one input
// @Description Input checks, optional model invocation with injected instructions, output checks; a blocked run is a normal result
// @Tags Testing
// @Accept json
// @Produce json
// @Param test body request.TestPipelineRequest true "Pipeline test input"
// @Success 200 {object} pipeline.Result "Pipeline result"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/test/pipeline [post]
func (h *testPipelineHandler) Handle(c *fiber.Ctx) error {
	var req request.TestPipelineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	set, err := h.resolver.Resolve(c.Context(), req.FunctionID, req.Platform)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownFunction) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, domain.ErrUnsupportedPlatform) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to resolve effective set for pipeline")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve effective set"})
	}

	result, err := h.pipeline.Run(c.Context(), &pipeline.Request{
		RunID:         c.Get(common.RunIDHeader),
		FunctionID:    req.FunctionID,
		Platform:      req.Platform,
		Input:         req.Input,
		SourceContent: req.SourceContent,
		SystemPrompt:  req.SystemPrompt,
		SkipModel:     !req.UseModel,
		Set:           set,
	})
	if err != nil {
		h.logger.WithError(err).Error("pipeline run failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "pipeline run failed"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
