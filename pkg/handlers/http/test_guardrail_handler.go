package http

import (
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/evaluator"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type testGuardrailHandler struct {
	logger    *logrus.Logger
	repo      domainGuardrail.Repository
	evaluator *evaluator.Evaluator
}

func NewTestGuardrailHandler(
	logger *logrus.Logger,
	repo domainGuardrail.Repository,
	eval *evaluator.Evaluator,
) Handler {
	return &testGuardrailHandler{
		logger:    logger,
		repo:      repo,
		evaluator: eval,
	}
}

// Handle @Summary Evaluate one input against one guardrail
// @Description Runs a single stored definition against the supplied text, disabled or not
// @Tags Testing
// @Accept json
// @Produce json
// @Param guardrail_id path string true "Guardrail ID"
// @Param test body request.TestGuardrailRequest true "Test input"
// @Success 200 {object} map[string]interface{} "Evaluation outcome"
// @Failure 404 {object} map[string]interface{} "Guardrail not found"
// @Router /api/v1/test/guardrail/{guardrail_id} [post]
func (h *testGuardrailHandler) Handle(c *fiber.Ctx) error {
	guardrailID := c.Params("guardrail_id")

	var req request.TestGuardrailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	def, err := h.repo.Get(c.Context(), guardrailID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to get guardrail")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get guardrail"})
	}

	runID := c.Get(common.RunIDHeader)
	if runID == "" {
		runID = uuid.NewString()
	}

	start := time.Now()
	outcome := h.evaluator.Evaluate(c.Context(), def, req.Input, &evaluator.Context{
		FunctionID:    req.FunctionID,
		Platform:      req.Platform,
		SourceContent: req.SourceContent,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"run_id":     runID,
		"outcome":    outcome,
		"latency_ms": time.Since(start).Milliseconds(),
	})
}
