package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/gameshop/internal/config"
	"github.com/example/gameshop/internal/database"
	"github.com/example/gameshop/internal/handlers"
	"github.com/example/gameshop/internal/routes"
	"github.com/example/gameshop/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Game Shop Nepal Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	events, err := services.ConnectEventPublisher(cfg.AMQPURL)
	if err != nil {
		log.Printf("AMQP connect failed, order events disabled: %v", err)
	}
	if events != nil {
		defer events.Close()
	}

	routes.Register(app, db, cfg, events)

	if services.TakeAppEnabled() {
		if _, err := services.GetTakeAppToken(); err != nil {
			log.Printf("Take.app token warm-up failed: %v", err)
		}
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
