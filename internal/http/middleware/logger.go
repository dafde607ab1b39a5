package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is a middleware that writes one structured record per HTTP request.
// Fields:
// - request_id (added by the logger's context handler from the user context set by RequestID)
// - method
// - path
// - status
// - latency_ms
func Logger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		status := statusOf(c, err)

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(c.UserContext(), level, "http_request",
			slog.String("method", c.Method()),
			// Use only the path segment (no query string)
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
		)

		return err
	}
}

// statusOf returns the status the global error handler will write for err,
// falling back to the response already set by the handler.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
