package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/arnab412/SabujSathi/handlers"
	"github.com/arnab412/SabujSathi/middleware"
	"github.com/arnab412/SabujSathi/models"
	"github.com/arnab412/SabujSathi/services"
	"github.com/arnab412/SabujSathi/utils"
	"github.com/arnab412/SabujSathi/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // plant photos top out at 8MB
	})

	// Every request runs as the guest identity unless the client sends its
	// own X-User-ID.
	app.Use(middleware.GuestContextMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Postgres in production; an on-disk sqlite file keeps local dev and CI
	// running with zero setup.
	var db *gorm.DB
	var err error
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		log.Println("⚠️  DATABASE_URL not set, falling back to local sqlite file")
		db, err = gorm.Open(sqlite.Open("sobuj_sathi.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProgress{},
		&models.Mission{},
		&models.MissionCompletion{},
		&models.PlantScan{},
		&models.BadgeType{},
		&models.UserBadge{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	// Redis carries the KV slots (quota, tip, theme, weather) when
	// available; otherwise they live in process memory and reset on
	// restart, which the slots are designed to tolerate.
	var kv services.KV
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		kv = services.NewRedisKV(rdb)
		log.Println("✅ Redis KV store connected:", addr)
	} else {
		log.Println("⚠️  REDIS_ADDR not set, using in-memory KV store")
		kv = services.NewMemoryKV()
	}

	var imageCache services.ImageCache
	if r2, err := utils.NewR2ImageStore(); err == nil {
		imageCache = r2
		log.Println("✅ R2 image cache connected")
	} else {
		log.Printf("⚠️  R2 not configured (%v), using in-memory image cache", err)
		imageCache = services.NewMemoryImageCache()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}
	quota := services.NewQuotaCounter(kv)
	gemini, err := services.NewGeminiService(ctx, apiKey, quota)
	if err != nil {
		log.Fatal("failed to initialize Gemini client:", err)
	}

	store := services.NewProgressStore(db)
	badgeService := services.NewBadgeService(db)
	progressionService := services.NewProgressionService(db, store, badgeService, gemini)
	tipService := services.NewTipService(kv, gemini)
	growthService := services.NewGrowthImageService(imageCache, gemini)
	weatherService := services.NewWeatherService(kv)

	if err := badgeService.SeedBadgeTypes(); err != nil {
		log.Fatal("failed to seed badge types:", err)
	}
	if err := progressionService.SeedMissions(); err != nil {
		log.Fatal("failed to seed missions:", err)
	}

	services.StartDailyJobs(tipService, progressionService)
	go workers.WarmGrowthImages(ctx, growthService, 6*time.Hour)
	go workers.PollWeather(ctx, weatherService, 30*time.Minute)

	gate := middleware.ClientAuthMiddleware()
	handlers.SetupProgressionRoutes(app, store, progressionService, badgeService, growthService, kv)
	handlers.SetupPlantRoutes(app, db, gemini, gate)
	handlers.SetupAssistantRoutes(app, gemini, tipService, quota, weatherService, gate)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:" + port)
	log.Println("✅ Growth image warm-up worker running (every 6h)")
	log.Println("✅ Weather polling running (every 30m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
