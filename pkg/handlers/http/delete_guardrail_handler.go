package http

import (
	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type deleteGuardrailHandler struct {
	logger  *logrus.Logger
	deleter appGuardrail.Deleter
}

func NewDeleteGuardrailHandler(logger *logrus.Logger, deleter appGuardrail.Deleter) Handler {
	return &deleteGuardrailHandler{
		logger:  logger,
		deleter: deleter,
	}
}

// Handle @Summary Delete a guardrail definition
// @Description Removes the definition; per-function overrides keep their replacement payloads
// @Tags Guardrails
// @Param guardrail_id path string true "Guardrail ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]interface{} "Guardrail not found"
// @Router /api/v1/guardrails/{guardrail_id} [delete]
func (h *deleteGuardrailHandler) Handle(c *fiber.Ctx) error {
	guardrailID := c.Params("guardrail_id")

	if err := h.deleter.Delete(c.Context(), guardrailID); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to delete guardrail")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete guardrail"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
