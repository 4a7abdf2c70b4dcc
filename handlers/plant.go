// handlers/plant.go
package handlers

import (
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/arnab412/SabujSathi/models"
	"github.com/arnab412/SabujSathi/services"
	"github.com/arnab412/SabujSathi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxScanPhotoBytes = 8 << 20 // 8 MB

func SetupPlantRoutes(app *fiber.App, db *gorm.DB, gemini *services.GeminiService, gate fiber.Handler) {
	// Identification spends AI quota, so it sits behind the client gate.
	app.Post("/plants/identify", gate, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "photo file is required",
				"cause": err.Error(),
			})
		}
		if fileHeader.Size > maxScanPhotoBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "photo too large (max 8MB)",
			})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to open photo",
				"cause": err.Error(),
			})
		}
		image, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to read photo",
				"cause": err.Error(),
			})
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
			mimeType = "image/jpeg"
		}

		plant, err := gemini.IdentifyPlant(c.Context(), image, mimeType)
		if err != nil {
			// Verdict errors carry client-facing Bengali text as-is.
			if err == services.ErrNotAPlant || err == services.ErrBlurryImage {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "শনাক্তকরণ ব্যর্থ হয়েছে, আবার চেষ্টা করুন।",
				"cause": err.Error(),
			})
		}

		// Keep the photo so history can show it. Best-effort: a failed
		// save doesn't invalidate the identification.
		photoURL := ""
		if err := utils.EnsureUploadDir(); err == nil {
			filename := uuid.NewString() + filepath.Ext(fileHeader.Filename)
			if err := utils.SaveFile(fileHeader, utils.ScanPhotoPath(filename)); err == nil {
				photoURL = "/uploads/scans/" + filename
			} else {
				log.Printf("⚠️ scan photo save failed: %v", err)
			}
		}

		scan := models.PlantScan{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			Slug:           slug.Make(plant.ScientificName),
			Name:           plant.Name,
			ScientificName: plant.ScientificName,
			Water:          plant.Water,
			Sunlight:       plant.Sunlight,
			Soil:           plant.Soil,
			Care:           plant.Care,
			Disease:        plant.Disease,
			Tips:           plant.Tips,
			Verdict:        "ok",
			PhotoURL:       photoURL,
		}
		if plant.Offline {
			scan.Verdict = "offline"
		}
		if err := db.Create(&scan).Error; err != nil {
			log.Printf("⚠️ plant scan save failed: %v", err)
		}

		return c.JSON(fiber.Map{
			"scan_id": scan.ID,
			"plant":   plant,
		})
	})

	app.Get("/plants/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var scans []models.PlantScan
		if err := db.
			Where("external_user_id = ?", userID).
			Order("created_at DESC").
			Limit(50).
			Find(&scans).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load scan history",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"scans": scans})
	})
}
