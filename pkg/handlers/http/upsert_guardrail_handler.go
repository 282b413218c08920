package http

import (
	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type upsertGuardrailHandler struct {
	logger   *logrus.Logger
	upserter appGuardrail.Upserter
	repo     domainGuardrail.Repository
}

func NewUpsertGuardrailHandler(
	logger *logrus.Logger,
	upserter appGuardrail.Upserter,
	repo domainGuardrail.Repository,
) Handler {
	return &upsertGuardrailHandler{
		logger:   logger,
		upserter: upserter,
		repo:     repo,
	}
}

// Handle @Summary Create or replace a guardrail definition
// @Description Upserts the definition identified by the path id
// @Tags Guardrails
// @Accept json
// @Produce json
// @Param guardrail_id path string true "Guardrail ID"
// @Param guardrail body request.UpsertGuardrailRequest true "Guardrail definition"
// @Success 200 {object} guardrail.Guardrail "Stored definition"
// @Failure 400 {object} map[string]interface{} "Invalid definition"
// @Router /api/v1/guardrails/{guardrail_id} [put]
func (h *upsertGuardrailHandler) Handle(c *fiber.Ctx) error {
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

	if err := h.upserter.Upsert(c.Context(), def); err != nil {
		h.logger.WithError(err).Error("failed to upsert guardrail")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	stored, err := h.repo.Get(c.Context(), guardrailID)
	if err != nil {
		h.logger.WithError(err).Error("failed to read back guardrail")
		return c.Status(fiber.StatusOK).JSON(def)
	}
	return c.Status(fiber.StatusOK).JSON(stored)
}
