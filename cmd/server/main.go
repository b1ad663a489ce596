package main

import (
	"errors"
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
	"github.com/localnerve/taxtrackdb/internal/config"
	"github.com/localnerve/taxtrackdb/internal/database"
	"github.com/localnerve/taxtrackdb/internal/handlers"
	"github.com/localnerve/taxtrackdb/internal/middleware"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/types"

	_ "github.com/localnerve/taxtrackdb/docs/api" // Swagger docs
)

// @title TaxtrackDB API
// @version 1.0.0
// @description Go Fiber data service for personal tax document tracking
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/taxtrackdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database (app pool)
	appDB, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to app database: %v", err)
	}
	defer database.Close(appDB)

	// Connect to database (user pool)
	userDB, err := database.ConnectUser(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to user database: %v", err)
	}
	defer database.Close(userDB)

	// Run auto-migrations
	if err := database.AutoMigrate(appDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("taxtrackdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Liveness probe
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, appDB)
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
	userHandler := &handlers.UserHandler{DB: userDB}
	documentHandler := &handlers.DocumentHandler{DB: userDB}
	filingHandler := &handlers.FilingHandler{DB: userDB}
	tagHandler := &handlers.TagHandler{DB: userDB}
	reminderHandler := &handlers.ReminderHandler{DB: userDB}
	shareHandler := &handlers.ShareHandler{DB: userDB}
	auditHandler := &handlers.AuditHandler{DB: appDB}

	// User account routes
	api.Post("/users", middleware.AuthUser(), userHandler.Register)
	api.Get("/users/me", middleware.AuthUser(), userHandler.Me)

	// Document routes; /shared must register before /:id
	api.Get("/documents/shared", middleware.AuthUser(), shareHandler.SharedWithMe)
	api.Post("/documents", middleware.AuthUser(), documentHandler.CreateDocument)
	api.Get("/documents", middleware.AuthUser(), documentHandler.ListDocuments)
	api.Get("/documents/:id", middleware.AuthUser(), documentHandler.GetDocument)
	api.Delete("/documents/:id", middleware.AuthUser(), documentHandler.DeleteDocument)
	api.Post("/documents/:id/versions", middleware.AuthUser(), documentHandler.AddDocumentVersion)
	api.Get("/documents/:id/versions", middleware.AuthUser(), documentHandler.ListDocumentVersions)

	// Tag routes
	api.Post("/documents/:id/tags", middleware.AuthUser(), tagHandler.AttachTags)
	api.Delete("/documents/:id/tags/:tag", middleware.AuthUser(), tagHandler.DetachTag)
	api.Get("/tags", middleware.AuthUser(), tagHandler.ListTags)

	// Share routes
	api.Post("/documents/:id/shares", middleware.AuthUser(), shareHandler.ShareDocument)
	api.Delete("/documents/:id/shares/:userId", middleware.AuthUser(), shareHandler.RevokeShare)

	// Filing routes
	api.Get("/filings", middleware.AuthUser(), filingHandler.ListFilings)
	api.Get("/filings/summary", middleware.AuthUser(), filingHandler.FilingSummary)
	api.Get("/filings/:year", middleware.AuthUser(), filingHandler.GetFiling)
	api.Post("/filings/:year", middleware.AuthUser(), filingHandler.SetFilingStatus)
	api.Delete("/filings/:year", middleware.AuthUser(), filingHandler.DeleteFiling)

	// Reminder routes
	api.Post("/reminders", middleware.AuthUser(), reminderHandler.CreateReminder)
	api.Get("/reminders", middleware.AuthUser(), reminderHandler.ListReminders)
	api.Post("/reminders/:id/complete", middleware.AuthUser(), reminderHandler.CompleteReminder)

	// Audit routes (admin reads everything through the app pool)
	api.Get("/audit", middleware.AuthUser(), auditHandler.ListAuditLogs)
	api.Get("/audit/:userId", middleware.AuthAdmin(), auditHandler.ListUserAuditLogs)

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

	// Authorizer client comes up lazily on the first authenticated request
	log.Printf("Authorizer will be initialized on first authenticated request")

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

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check if it's an authorization error from the middleware
	var ce *types.CustomError
	if errors.As(err, &ce) {
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	}

	// Check for version errors
	versionError := false
	if code == fiber.StatusConflict || (message != "" && len(message) >= 9 && message[:9] == "E_VERSION") {
		versionError = true
		errorType = "version"
		code = fiber.StatusConflict
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       code,
		"message":      message,
		"ok":           false,
		"versionError": versionError,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         errorType,
	})
}
