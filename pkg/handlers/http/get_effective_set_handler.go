package http

import (
	"errors"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getEffectiveSetHandler struct {
	logger   *logrus.Logger
	resolver appGuardrail.EffectiveSetResolver
}

func NewGetEffectiveSetHandler(logger *logrus.Logger, resolver appGuardrail.EffectiveSetResolver) Handler {
	return &getEffectiveSetHandler{
		logger:   logger,
		resolver: resolver,
	}
}

// Handle @Summary Resolve the effective guardrail set for a function
// @Description Layers global definitions, function defaults and overrides; disabled entries stay visible
// @Tags Functions
// @Produce json
// @Param function_id path string true "Function ID"
// @Param platform query string false "Platform qualifier (hunt_query only)"
// @Success 200 {object} resolver.EffectiveSet "Effective set"
// @Failure 400 {object} map[string]interface{} "Unsupported platform"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/functions/{function_id}/effective [get]
func (h *getEffectiveSetHandler) Handle(c *fiber.Ctx) error {
	functionID := c.Params("function_id")
	platform := c.Query("platform")

	set, err := h.resolver.Resolve(c.Context(), functionID, platform)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownFunction) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, domain.ErrUnsupportedPlatform) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to resolve effective set")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve effective set"})
	}

	return c.Status(fiber.StatusOK).JSON(set)
}
