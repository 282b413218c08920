package http

import (
	"errors"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type resetOverridesHandler struct {
	logger *logrus.Logger
	writer appGuardrail.OverrideWriter
}

func NewResetOverridesHandler(logger *logrus.Logger, writer appGuardrail.OverrideWriter) Handler {
	return &resetOverridesHandler{
		logger: logger,
		writer: writer,
	}
}

// Handle @Summary Reset a function to default guardrails
// @Description Deletes every override for the function
// @Tags Overrides
// @Param function_id path string true "Function ID"
// @Success 204 "Overrides removed"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/functions/{function_id}/guardrails [delete]
func (h *resetOverridesHandler) Handle(c *fiber.Ctx) error {
	functionID := c.Params("function_id")

	if err := h.writer.Reset(c.Context(), functionID); err != nil {
		if errors.Is(err, domain.ErrUnknownFunction) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to reset guardrail overrides")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reset overrides"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
