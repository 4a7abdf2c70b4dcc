// handlers/progression_routes.go
package handlers

import (
	"bufio"
	"encoding/json"
	"log"
	"time"

	"github.com/arnab412/SabujSathi/models"
	"github.com/arnab412/SabujSathi/services"
	"github.com/gofiber/fiber/v2"
)

// progressPayload is the wire shape of a progress record, with the derived
// level fields the client renders.
func progressPayload(prog *models.UserProgress) fiber.Map {
	return fiber.Map{
		"uid":            prog.ExternalUserID,
		"display_name":   prog.DisplayName,
		"email":          prog.Email,
		"total_xp":       prog.TotalXP,
		"level":          prog.Level(),
		"level_xp":       prog.LevelXP(),
		"level_target":   models.LevelThreshold,
		"streak":         prog.Streak,
		"last_check_in":  prog.LastCheckIn,
		"unlocked_cards": prog.UnlockedCards,
		"impact": fiber.Map{
			"water":  prog.ImpactWater,
			"oxygen": prog.ImpactOxygen,
			"carbon": prog.ImpactCarbon,
		},
	}
}

func SetupProgressionRoutes(app *fiber.App, store *services.ProgressStore, progression *services.ProgressionService, badges *services.BadgeService, growth *services.GrowthImageService, kv services.KV) {
	app.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog := store.Read(userID)
		payload := progressPayload(prog)

		ladder, err := badges.UserBadges(userID)
		if err != nil {
			// Progress is still useful without the badge ladder.
			log.Printf("⚠️ badge ladder fetch failed for %s: %v", userID, err)
		} else {
			payload["badges"] = ladder
		}

		return c.JSON(payload)
	})

	app.Post("/user/checkin", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		streak, already := progression.CheckIn(userID)
		return c.JSON(fiber.Map{
			"streak":          streak,
			"already_checked": already,
		})
	})

	app.Get("/user/missions", func(c *fiber.Ctx) error {
		missions, err := progression.ActiveMissions()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load missions",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"missions": missions})
	})

	app.Post("/user/missions/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		missionID := c.Params("id")

		result, err := progression.CompleteMission(c.Context(), userID, missionID)
		if err != nil {
			if err == services.ErrMissionNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "mission not found or already completed",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete mission",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"xp_earned":   result.XPEarned,
			"note":        result.Note,
			"replacement": result.Replacement,
			"progress":    progressPayload(result.Progress),
		})
	})

	// Server-sent progress updates. Every committed write to the guest
	// record is pushed as one `progress` event, newest state wins.
	app.Get("/user/progress/stream", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		// The subscriber callback runs on the writer's goroutine, so it
		// must never block: buffer generously and drop the oldest update
		// when the client can't keep up. The next update carries the full
		// record anyway.
		updates := make(chan models.UserProgress, 16)
		unsubscribe := store.Subscribe(userID, func(prog models.UserProgress) {
			select {
			case updates <- prog:
			default:
				select {
				case <-updates:
				default:
				}
				updates <- prog
			}
		})

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer unsubscribe()

			keepalive := time.NewTicker(15 * time.Second)
			defer keepalive.Stop()

			for {
				select {
				case prog := <-updates:
					data, err := json.Marshal(progressPayload(&prog))
					if err != nil {
						log.Printf("SSE marshal error for user %s: %v", userID, err)
						continue
					}
					w.WriteString("event: progress\n")
					w.WriteString("data: " + string(data) + "\n\n")
					if err := w.Flush(); err != nil {
						// Client went away.
						return
					}
				case <-keepalive.C:
					w.WriteString(":\n\n")
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		})

		return nil
	})

	app.Get("/user/guide", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog := store.Read(userID)
		guide := services.GuideForLevel(prog.Level())
		return c.JSON(fiber.Map{
			"level": prog.Level(),
			"guide": guide,
		})
	})

	// Growth view: the plant's stage follows the user's level, the stage
	// image comes from the image cache (generated or static fallback).
	app.Get("/user/growth", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog := store.Read(userID)
		stage := services.StageForLevel(prog.Level())
		image, cached := growth.StageImage(c.Context(), stage)

		return c.JSON(fiber.Map{
			"stage":      stage,
			"stage_name": services.StageDisplayName(stage),
			"level":      prog.Level(),
			"image":      image,
			"cached":     cached,
		})
	})

	app.Get("/user/theme", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"theme": services.ThemePreference(c.Context(), kv)})
	})

	app.Put("/user/theme", func(c *fiber.Ctx) error {
		var body struct {
			Theme string `json:"theme"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid body",
				"cause": err.Error(),
			})
		}
		if !services.SaveThemePreference(c.Context(), kv, body.Theme) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "theme must be 'dark' or 'light'",
			})
		}
		return c.JSON(fiber.Map{"theme": body.Theme})
	})
}
