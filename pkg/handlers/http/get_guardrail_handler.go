package http

import (
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getGuardrailHandler struct {
	logger *logrus.Logger
	repo   domainGuardrail.Repository
}

func NewGetGuardrailHandler(logger *logrus.Logger, repo domainGuardrail.Repository) Handler {
	return &getGuardrailHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary Retrieve a guardrail definition by ID
// @Description Returns one guardrail definition
// @Tags Guardrails
// @Produce json
// @Param guardrail_id path string true "Guardrail ID"
// @Success 200 {object} guardrail.Guardrail "Guardrail"
// @Failure 404 {object} map[string]interface{} "Guardrail not found"
// @Router /api/v1/guardrails/{guardrail_id} [get]
func (h *getGuardrailHandler) Handle(c *fiber.Ctx) error {
	guardrailID := c.Params("guardrail_id")
	if guardrailID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "guardrail_id is required"})
	}

	def, err := h.repo.Get(c.Context(), guardrailID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to get guardrail")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get guardrail"})
	}

	return c.Status(fiber.StatusOK).JSON(def)
}
