package middleware

import (
	"context"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// traceMiddleware stamps every request with a trace id and its start time.
// Downstream code reads both through fiber locals or the user context; the
// trace id is echoed back so callers can correlate logs.
type traceMiddleware struct{}

func NewTraceMiddleware() Middleware {
	return &traceMiddleware{}
}

func (m *traceMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(common.RequestIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Locals(common.TraceIdKey, traceID)
		c.Locals(common.LatencyContextKey, time.Now())

		ctx := context.WithValue(c.UserContext(), common.TraceIdKey, traceID)
		c.SetUserContext(ctx)

		c.Set(common.RequestIDHeader, traceID)
		return c.Next()
	}
}
