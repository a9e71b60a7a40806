package middleware

import (
	"strconv"
	"time"

	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "requestID"

	unmatchedRoute = "unmatched"
)

// RequestID keeps the caller's X-Request-ID or assigns a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// HTTPMetricsMiddleware records every request except scrapes and health checks.
// Requests that match no route share one path label.
func HTTPMetricsMiddleware(m *metrics.Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil || c.Path() == "/metrics" || c.Path() == "/health" {
			return c.Next()
		}

		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		err := c.Next()
		if err != nil {
			// run the error handler first so the recorded status is the one sent
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		duration := time.Since(start)
		path := routeLabel(c)
		statusCode := strconv.Itoa(c.Response().StatusCode())

		m.RecordHTTPRequest(c.Method(), path, statusCode, duration, len(c.Response().Body()))

		if duration > time.Second {
			logger.Warn("Slow HTTP request",
				zap.String("method", c.Method()),
				zap.String("path", path),
				zap.String("statusCode", statusCode),
				zap.Duration("duration", duration),
				zap.Any("requestID", c.Locals(LocalRequestID)),
			)
		}

		return err
	}
}

func routeLabel(c *fiber.Ctx) string {
	path := c.Route().Path
	if path == "" || path == "/" {
		return unmatchedRoute
	}
	return path
}

// HealthCheckMiddleware answers /health before routing.
func HealthCheckMiddleware(serviceName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":    "healthy",
				"timestamp": time.Now().Unix(),
				"service":   serviceName,
			})
		}
		return c.Next()
	}
}
