package http

import (
	"errors"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/ThreatPilot/SentinelRail/pkg/runner"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type testSuiteHandler struct {
	logger   *logrus.Logger
	resolver appGuardrail.EffectiveSetResolver
	runner   *runner.Runner
}

func NewTestSuiteHandler(
	logger *logrus.Logger,
	resolver appGuardrail.EffectiveSetResolver,
	run *runner.Runner,
) Handler {
	return &testSuiteHandler{
		logger:   logger,
		resolver: resolver,
		runner:   run,
	}
}

// Handle @Summary Run a labelled test suite for a function
// @Description Runs each case through the pipeline and scores the confusion matrix against expectations
// @Tags Testing
// @Accept json
// @Produce json
// @Param suite body request.TestSuiteRequest true "Suite definition"
// @Success 200 {object} runner.SuiteReport "Suite report"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/test/suite [post]
func (h *testSuiteHandler) Handle(c *fiber.Ctx) error {
	var req request.TestSuiteRequest
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
		h.logger.WithError(err).Error("failed to resolve effective set for suite")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve effective set"})
	}

	cases := make([]runner.TestCase, 0, len(req.Cases))
	for _, tc := range req.Cases {
		cases = append(cases, runner.TestCase{
			ID:                 tc.ID,
			Input:              tc.Input,
			SourceContent:      tc.SourceContent,
			ExpectedShouldPass: tc.ExpectedShouldPass,
			ExpectedAnswer:     tc.ExpectedAnswer,
			Notes:              tc.Notes,
		})
	}

	report, err := h.runner.Suite(c.Context(), &runner.SuiteRequest{
		FunctionID: req.FunctionID,
		Platform:   req.Platform,
		UseModel:   req.UseModel,
		Cases:      cases,
		Set:        set,
	})
	if err != nil {
		h.logger.WithError(err).Error("suite run failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "suite run failed"})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
