package middleware

import (
	"fmt"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// metricsMiddleware records request counters and latency off the hot path.
// Observations are handed to a small worker pool; when the queue is full the
// observation is dropped rather than stalling the response.
type metricsMiddleware struct {
	logger   *logrus.Logger
	taskChan chan func()
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	m := &metricsMiddleware{
		logger:   logger,
		taskChan: make(chan func(), 1000),
	}
	go m.startWorkers(3)
	return m
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime, ok := c.Locals(common.LatencyContextKey).(time.Time)
		if !ok {
			startTime = time.Now()
		}

		err := c.Next()

		// Route pattern, not the raw path, keeps label cardinality bounded.
		route := c.Route().Path
		method := c.Method()
		statusCode := c.Response().StatusCode()
		elapsed := time.Since(startTime)

		m.enqueueTask(func() {
			m.record(method, route, statusCode, elapsed)
		})

		return err
	}
}

func (m *metricsMiddleware) record(method, route string, statusCode int, elapsed time.Duration) {
	prometheus.HTTPRequestsTotal.WithLabelValues(
		method,
		route,
		statusClass(statusCode),
	).Inc()
	if prometheus.Config.EnableLatency {
		prometheus.HTTPRequestLatency.WithLabelValues(method, route).
			Observe(float64(elapsed.Milliseconds()))
	}
}

func (m *metricsMiddleware) startWorkers(n int) {
	for i := 0; i < n; i++ {
		go func() {
			for task := range m.taskChan {
				task()
			}
		}()
	}
}

func (m *metricsMiddleware) enqueueTask(task func()) {
	select {
	case m.taskChan <- task:
	default:
		m.logger.Warn("metrics task queue is full, dropping observation")
	}
}

func statusClass(statusCode int) string {
	if statusCode < 100 || statusCode > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", statusCode/100)
}
