// handlers/assistant.go
package handlers

import (
	"strings"

	"github.com/arnab412/SabujSathi/services"
	"github.com/gofiber/fiber/v2"
)

func SetupAssistantRoutes(app *fiber.App, gemini *services.GeminiService, tips *services.TipService, quota *services.QuotaCounter, weather *services.WeatherService, gate fiber.Handler) {
	// Chat spends AI quota, so it sits behind the client gate. The service
	// always returns a displayable reply, so this route never errors.
	app.Post("/chat", gate, func(c *fiber.Ctx) error {
		var body struct {
			Message string              `json:"message"`
			History []services.ChatTurn `json:"history"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid body",
				"cause": err.Error(),
			})
		}
		if strings.TrimSpace(body.Message) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "message is required",
			})
		}

		reply := gemini.SendChatMessage(c.Context(), body.Message, body.History)
		return c.JSON(fiber.Map{"reply": reply})
	})

	app.Get("/tips/daily", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tip": tips.DailyTip(c.Context())})
	})

	app.Get("/quota", func(c *fiber.Ctx) error {
		return c.JSON(quota.Stats(c.Context()))
	})

	app.Get("/weather", func(c *fiber.Ctx) error {
		snapshot, ok := weather.Cached(c.Context())
		if !ok {
			// First request before the worker has run: fetch inline once.
			if err := weather.Refresh(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "weather unavailable",
					"cause": err.Error(),
				})
			}
			snapshot, _ = weather.Cached(c.Context())
		}
		c.Set("Content-Type", "application/json")
		return c.Send(snapshot)
	})
}
