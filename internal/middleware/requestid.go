package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestIDLocal is the fiber.Ctx local carrying the request id.
const RequestIDLocal = "request_id"

// RequestID assigns every request a stable identifier for tracing and
// logging, honoring one supplied by the client.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Set(requestIDHeader, reqID)
		c.Locals(RequestIDLocal, reqID)

		return c.Next()
	}
}
