package http

import (
	"github.com/ThreatPilot/SentinelRail/pkg/groundtruth"
	"github.com/ThreatPilot/SentinelRail/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type testGroundTruthHandler struct {
	logger *logrus.Logger
}

func NewTestGroundTruthHandler(logger *logrus.Logger) Handler {
	return &testGroundTruthHandler{logger: logger}
}

// Handle @Summary Compare a model answer against a ground-truth answer
// @Description Computes exact match, similarity, word overlap, confidence and a PASS/REVIEW assessment
// @Tags Testing
// @Accept json
// @Produce json
// @Param comparison body request.GroundTruthRequest true "Answer pair"
// @Success 200 {object} groundtruth.Result "Validation result"
// @Failure 400 {object} map[string]interface{} "Missing answers"
// @Router /api/v1/test/groundtruth [post]
func (h *testGroundTruthHandler) Handle(c *fiber.Ctx) error {
	var req request.GroundTruthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := groundtruth.Validate(req.Query, req.ExpectedAnswer, req.ActualAnswer)
	return c.Status(fiber.StatusOK).JSON(result)
}
