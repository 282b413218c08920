package http

import (
	"github.com/ThreatPilot/SentinelRail/pkg/domain/function"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listFunctionsHandler struct {
	logger *logrus.Logger
}

func NewListFunctionsHandler(logger *logrus.Logger) Handler {
	return &listFunctionsHandler{logger: logger}
}

// Handle @Summary List guarded AI functions
// @Description Returns the catalog of functions the engine guards, with their platform dimensions
// @Tags Functions
// @Produce json
// @Success 200 {object} map[string]interface{} "Function catalog"
// @Router /api/v1/functions [get]
func (h *listFunctionsHandler) Handle(c *fiber.Ctx) error {
	functions := function.All()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"functions": functions,
		"count":     len(functions),
	})
}
