// middleware/gateway.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientAuthMiddleware gates the AI-spending routes behind the shared app
// token so anonymous traffic cannot burn the Gemini quota. When
// APP_CLIENT_TOKEN is unset the gate is open (local development).
func ClientAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("APP_CLIENT_TOKEN")
	if expectedToken == "" {
		log.Println("⚠️  APP_CLIENT_TOKEN not set — AI routes are open (dev mode)")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix — try raw value
			token = authHeader
		}

		if token != expectedToken {
			log.Printf("❌ [CLIENT_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid client token",
			})
		}
		return c.Next()
	}
}
