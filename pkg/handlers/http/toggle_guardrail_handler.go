package http

import (
	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type toggleGuardrailHandler struct {
	logger  *logrus.Logger
	toggler appGuardrail.Toggler
}

func NewToggleGuardrailHandler(logger *logrus.Logger, toggler appGuardrail.Toggler) Handler {
	return &toggleGuardrailHandler{
		logger:  logger,
		toggler: toggler,
	}
}

// Handle @Summary Enable or disable a guardrail
// @Description Flips the enabled flag without touching the definition body
// @Tags Guardrails
// @Accept json
// @Produce json
// @Param guardrail_id path string true "Guardrail ID"
// @Param toggle body request.ToggleGuardrailRequest true "Desired state"
// @Success 200 {object} guardrail.Guardrail "Updated guardrail"
// @Failure 404 {object} map[string]interface{} "Guardrail not found"
// @Router /api/v1/guardrails/{guardrail_id}/toggle [put]
func (h *toggleGuardrailHandler) Handle(c *fiber.Ctx) error {
	guardrailID := c.Params("guardrail_id")

	var req request.ToggleGuardrailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	def, err := h.toggler.Toggle(c.Context(), guardrailID, *req.Enabled)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to toggle guardrail")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to toggle guardrail"})
	}

	return c.Status(fiber.StatusOK).JSON(def)
}
