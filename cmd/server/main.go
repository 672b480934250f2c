package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/plotvista/plotvista/internal/config"
	"github.com/plotvista/plotvista/internal/database"
	"github.com/plotvista/plotvista/internal/handlers"
	"github.com/plotvista/plotvista/internal/middleware"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/types"

	_ "github.com/plotvista/plotvista/docs/api" // Swagger docs
)

// @title Plotvista API
// @version 1.0.0
// @description Plot inventory management service with booking lifecycle tracking
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/plotvista/plotvista

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Admin sessions
	sessions := services.NewSessionService(cfg.AdminPassword, cfg.SessionTTL)
	sweepStop := make(chan struct{})
	defer close(sweepStop)
	sessions.StartSweeper(time.Hour, sweepStop)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("plotvista")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoint
	app.Get("/healthz", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	projectsHandler := &handlers.ProjectsHandler{DB: db}
	plotsHandler := &handlers.PlotsHandler{DB: db}
	exportHandler := &handlers.ExportHandler{DB: db}
	authHandler := &handlers.AuthHandler{Sessions: sessions}

	// Public routes
	api.Get("/projects", projectsHandler.ListProjects)
	api.Get("/projects/:projectId/plots", projectsHandler.GetProjectPlots)
	api.Get("/projects/:projectId/stats", projectsHandler.GetProjectStats)
	api.Get("/projects/:projectId/phone-check", projectsHandler.PhoneCheck)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/login", authHandler.Login)

	requireAdmin := middleware.AuthAdmin(sessions)
	admin.Post("/logout", requireAdmin, authHandler.Logout)
	admin.Post("/projects", requireAdmin, projectsHandler.CreateProject)
	admin.Delete("/projects/:projectId", requireAdmin, projectsHandler.DeleteProject)
	admin.Put("/projects/:projectId/layout", requireAdmin, projectsHandler.ReplaceLayout)
	admin.Post("/projects/:projectId/plots", requireAdmin, projectsHandler.AddPlot)
	admin.Post("/plots/book-multiple", requireAdmin, plotsHandler.BookMultiple)
	admin.Post("/plots/:plotId/book", requireAdmin, plotsHandler.Book)
	admin.Put("/plots/:plotId/status", requireAdmin, plotsHandler.UpdateStatus)
	admin.Post("/plots/:plotId/bookings", requireAdmin, plotsHandler.AddBooking)
	admin.Delete("/plots/:plotId/bookings/:phone", requireAdmin, plotsHandler.RemoveBooking)
	admin.Get("/export", requireAdmin, exportHandler.Export)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
