package http

import (
	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type invalidateCacheHandler struct {
	logger    *logrus.Logger
	cache     *cache.Cache
	publisher infraCache.EventPublisher
}

func NewInvalidateCacheHandler(
	logger *logrus.Logger,
	cache *cache.Cache,
	publisher infraCache.EventPublisher,
) Handler {
	return &invalidateCacheHandler{
		logger:    logger,
		cache:     cache,
		publisher: publisher,
	}
}

// Handle @Summary Invalidate every guardrail cache
// @Description Flushes redis and local caches on all engine replicas
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{} "Cache invalidated"
// @Router /invalidate-cache [post]
func (h *invalidateCacheHandler) Handle(c *fiber.Ctx) error {
	h.logger.Info("invalidating caches")

	if err := h.cache.Client().FlushDB(c.Context()).Err(); err != nil {
		h.logger.WithError(err).Error("failed to flush redis")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to invalidate cache",
		})
	}
	h.cache.FlushLocal()

	// Other replicas flush their local caches on this event.
	if err := h.publisher.Publish(c.Context(), event.FlushGuardrailCacheEvent{}); err != nil {
		h.logger.WithError(err).Error("failed to publish flush event")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "cache invalidated",
	})
}
