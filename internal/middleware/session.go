package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notegenius/server/internal/session"
)

const sessionHeader = "X-Session-ID"

// SessionLocal is the fiber.Ctx local under which the verified session is
// stored for downstream handlers.
const SessionLocal = "session"

// RequireVerified gates routes behind a verified session id. The id of a
// flow that completed verification is the only credential; no token is
// issued.
func RequireVerified(sessions *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(sessionHeader)
		if id == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing "+sessionHeader+" header")
		}

		sess, err := sessions.Lookup(c.UserContext(), id)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "session not verified")
		}

		c.Locals(SessionLocal, sess)
		return c.Next()
	}
}
