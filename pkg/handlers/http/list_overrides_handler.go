package http

import (
	"github.com/ThreatPilot/SentinelRail/pkg/domain/function"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listOverridesHandler struct {
	logger *logrus.Logger
	repo   domainGuardrail.Repository
}

func NewListOverridesHandler(logger *logrus.Logger, repo domainGuardrail.Repository) Handler {
	return &listOverridesHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List raw overrides for a function
// @Description Returns the stored replacement definitions, not the resolved set
// @Tags Overrides
// @Produce json
// @Param function_id path string true "Function ID"
// @Success 200 {object} map[string]interface{} "Override list"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/functions/{function_id}/overrides [get]
func (h *listOverridesHandler) Handle(c *fiber.Ctx) error {
	functionID := c.Params("function_id")
	if !function.Exists(functionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown function: " + functionID})
	}

	overrides, err := h.repo.GetOverrides(c.Context(), functionID)
	if err != nil {
		h.logger.WithError(err).Error("failed to list guardrail overrides")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list overrides"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"function_id": functionID,
		"overrides":   overrides,
		"count":       len(overrides),
	})
}
