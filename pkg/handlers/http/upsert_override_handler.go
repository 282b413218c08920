package http

import (
	"errors"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type upsertOverrideHandler struct {
	logger *logrus.Logger
	writer appGuardrail.OverrideWriter
}

func NewUpsertOverrideHandler(logger *logrus.Logger, writer appGuardrail.OverrideWriter) Handler {
	return &upsertOverrideHandler{
		logger: logger,
		writer: writer,
	}
}

// Handle @Summary Create or replace a per-function guardrail override
// @Description Stores a full replacement definition for one guardrail within one function
// @Tags Overrides
// @Accept json
// @Produce json
// @Param function_id path string true "Function ID"
// @Param guardrail_id path string true "Guardrail ID"
// @Param override body request.UpsertGuardrailRequest true "Replacement definition"
// @Success 200 {object} guardrail.Override "Stored override"
// @Failure 400 {object} map[string]interface{} "Invalid definition"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/functions/{function_id}/guardrails/{guardrail_id} [put]
func (h *upsertOverrideHandler) Handle(c *fiber.Ctx) error {
	functionID := c.Params("function_id")
	guardrailID := c.Params("guardrail_id")

	var req request.UpsertGuardrailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	def, err := req.ToDomain(guardrailID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := def.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	override, err := h.writer.Put(c.Context(), functionID, guardrailID, def)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownFunction) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, domain.ErrOverrideMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to upsert guardrail override")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upsert override"})
	}

	return c.Status(fiber.StatusOK).JSON(override)
}
