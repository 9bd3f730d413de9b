package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/config"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/routes"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/services"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogMode)

	if err := database.Connect(cfg); err != nil {
		logger.L.Fatal("failed to connect to database", "error", err)
	}
	if err := database.Migrate(); err != nil {
		logger.L.Fatal("failed to run migrations", "error", err)
	}

	if err := services.InitStorage(cfg.GCSBucket, cfg.UploadDir); err != nil {
		logger.L.Fatal("failed to init storage", "error", err)
	}
	if err := services.InitPush(cfg.FCMServiceAccount); err != nil {
		logger.L.Fatal("failed to init push notifications", "error", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "med-edu-api",
		BodyLimit: 12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Serve locally stored uploads in dev mode
	app.Static("/uploads", cfg.UploadDir)

	routes.Setup(app)

	logger.L.Info("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L.Fatal("server stopped", "error", err)
	}
}
