package http

import (
	"strconv"

	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listGuardrailsHandler struct {
	logger *logrus.Logger
	repo   domainGuardrail.Repository
}

func NewListGuardrailsHandler(logger *logrus.Logger, repo domainGuardrail.Repository) Handler {
	return &listGuardrailsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List guardrail definitions
// @Description Lists definitions, optionally filtered by category, severity, validation_type, scope, enabled, tag or search text
// @Tags Guardrails
// @Produce json
// @Success 200 {object} map[string]interface{} "Guardrail list"
// @Router /api/v1/guardrails [get]
func (h *listGuardrailsHandler) Handle(c *fiber.Ctx) error {
	filter := domainGuardrail.ListFilter{
		Category:       domainGuardrail.Category(c.Query("category")),
		Severity:       domainGuardrail.Severity(c.Query("severity")),
		ValidationType: domainGuardrail.ValidationType(c.Query("validation_type")),
		Scope:          domainGuardrail.Scope(c.Query("scope")),
		Tag:            c.Query("tag"),
		Search:         c.Query("search"),
	}
	if raw := c.Query("enabled"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enabled must be true or false"})
		}
		filter.Enabled = &enabled
	}

	defs, err := h.repo.List(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list guardrails")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list guardrails"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"guardrails": defs,
		"count":      len(defs),
	})
}
