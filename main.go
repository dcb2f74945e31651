package main

import (
	"fmt"
	"log"
	"opta/config"
	"opta/database"
	"opta/helper"
	"opta/router"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	if config.Config("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}
	port, err := config.Port()
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.ConfigOr("CORS_ORIGINS", "*"),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Authorization, Accept, Idempotency-Key",
		MaxAge:       600,
	}))

	database.ConnectDB()
	helper.ConnectRedis()
	if err := helper.SetupGeocoder(); err != nil {
		log.Fatalf("geocoder: %v", err)
	}

	if err := helper.StartIdempotencyPurgeScheduler(10 * time.Minute); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer helper.StopIdempotencyPurgeScheduler()

	router.SetupRoutes(app)
	log.Fatal(app.Listen(fmt.Sprintf(":%d", port)))
}
