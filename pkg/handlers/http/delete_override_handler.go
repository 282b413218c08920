package http

import (
	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type deleteOverrideHandler struct {
	logger *logrus.Logger
	writer appGuardrail.OverrideWriter
}

func NewDeleteOverrideHandler(logger *logrus.Logger, writer appGuardrail.OverrideWriter) Handler {
	return &deleteOverrideHandler{
		logger: logger,
		writer: writer,
	}
}

// Handle @Summary Remove one per-function override
// @Description Restores the default definition for the guardrail within the function
// @Tags Overrides
// @Param function_id path string true "Function ID"
// @Param guardrail_id path string true "Guardrail ID"
// @Success 204 "Override removed"
// @Failure 404 {object} map[string]interface{} "Override not found"
// @Router /api/v1/functions/{function_id}/guardrails/{guardrail_id} [delete]
func (h *deleteOverrideHandler) Handle(c *fiber.Ctx) error {
	functionID := c.Params("function_id")
	guardrailID := c.Params("guardrail_id")

	if err := h.writer.Remove(c.Context(), functionID, guardrailID); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to delete guardrail override")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete override"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
