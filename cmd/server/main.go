package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/adapters/http/routes"
	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/config"
	"clubhub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "clubhub/docs" // Swagger docs
)

// @title ClubHub API
// @version 1.0
// @description Club management backend: members, events, attendance and blog
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@clubhub.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed the owner account if absent
	if err := config.SeedOwner(db, cfg); err != nil {
		log.Fatalf("Failed to seed owner: %v", err)
	}

	// Seed starter practice problems
	if err := config.SeedProblems(db); err != nil {
		log.Fatalf("Failed to seed problems: %v", err)
	}

	// Start the event status scheduler
	statusService := services.NewStatusService(
		repositories.NewEventRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	if err := statusService.Start(); err != nil {
		log.Fatalf("Failed to start status scheduler: %v", err)
	}
	defer statusService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ClubHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
