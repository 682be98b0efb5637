package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/handlers"
	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	zl, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	backend, err := database.OpenBackend(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open storage backend", zap.Error(err))
	}
	defer backend.Close()

	engine, err := services.NewEngine(ctx, cfg, backend, zl)
	if err != nil {
		zl.Fatal("failed to build command engine", zap.Error(err))
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h, err := handlers.New(cfg, engine.Store, engine.Dispatcher, engine.Searcher, zl)
	if err != nil {
		zl.Fatal("failed to create handlers", zap.Error(err))
	}
	if engine.Snapshots != nil {
		h.SetSnapshots(engine.Snapshots)
	}
	h.RegisterRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zl.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			zl.Error("shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("backend", backend.Name),
		zap.Bool("nlu", cfg.NLUURL != ""),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
