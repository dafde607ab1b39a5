package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"animalshelter/internal/logger"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request has an ID.
//
// The ID comes from X-Request-ID or a new UUID. It is stored in Fiber locals,
// echoed on the response, and attached to the user context so records logged
// with that context below the handler carry it too.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
