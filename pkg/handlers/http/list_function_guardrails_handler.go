package http

import (
	"strconv"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/function"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listFunctionGuardrailsHandler struct {
	logger *logrus.Logger
	repo   domainGuardrail.Repository
}

func NewListFunctionGuardrailsHandler(logger *logrus.Logger, repo domainGuardrail.Repository) Handler {
	return &listFunctionGuardrailsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List guardrails applicable to a function
// @Description Returns function-specific definitions, optionally preceded by global ones
// @Tags Functions
// @Produce json
// @Param function_id path string true "Function ID"
// @Param include_global query bool false "Include global definitions"
// @Success 200 {object} map[string]interface{} "Applicable guardrails"
// @Failure 404 {object} map[string]interface{} "Unknown function"
// @Router /api/v1/functions/{function_id}/guardrails [get]
func (h *listFunctionGuardrailsHandler) Handle(c *fiber.Ctx) error {
	functionID := c.Params("function_id")
	if !function.Exists(functionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown function: " + functionID})
	}

	includeGlobal := false
	if raw := c.Query("include_global"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "include_global must be true or false"})
		}
		includeGlobal = parsed
	}

	var defs []domainGuardrail.Guardrail
	if includeGlobal {
		global, err := h.repo.GetGlobal(c.Context())
		if err != nil {
			h.logger.WithError(err).Error("failed to list global guardrails")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list guardrails"})
		}
		for _, def := range global {
			if def.AppliesToFunction(functionID) {
				defs = append(defs, def)
			}
		}
	}

	scoped, err := h.repo.GetForFunction(c.Context(), functionID)
	if err != nil {
		h.logger.WithError(err).Error("failed to list function guardrails")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list guardrails"})
	}
	defs = append(defs, scoped...)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"function_id": functionID,
		"guardrails":  defs,
		"count":       len(defs),
	})
}
