// middleware/auth.go
package middleware

import (
	"github.com/arnab412/SabujSathi/models"

	"github.com/gofiber/fiber/v2"
)

// GuestContextMiddleware attaches the effective user identity to the
// request. The deployed client runs in guest mode only: X-User-ID is
// honoured when present (a future authenticated build), otherwise every
// request maps to the singleton guest identity.
func GuestContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			userID = models.GuestUID
		}

		c.Locals("user_id", userID)
		c.Locals("device_id", c.Get("X-Device-ID"))

		return c.Next()
	}
}
