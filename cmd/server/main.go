// main.go
//
// A multi-tenant university library service.
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of unilib.
// unilib is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// unilib is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with unilib.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

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
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	jsoniter "github.com/json-iterator/go"
	"github.com/localnerve/unilib/internal/config"
	"github.com/localnerve/unilib/internal/database"
	"github.com/localnerve/unilib/internal/handlers"
	"github.com/localnerve/unilib/internal/middleware"
	"github.com/localnerve/unilib/internal/types"

	_ "github.com/localnerve/unilib/docs/api" // Swagger docs
)

// @title Unilib API
// @version 1.0.0
// @description Multi-tenant university library service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/unilib
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:5002
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth_token

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

	// Create Fiber app
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	if cfg.ClientOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.ClientOrigin,
			AllowCredentials: true,
		}))
	}

	// Prometheus metrics
	prometheus := fiberprometheus.New("unilib")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// General rate limit, with a stricter tier on credential routes
	api.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
	}))
	api.Use("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, Env: cfg.Env}
	onboardingHandler := &handlers.OnboardingHandler{DB: db, JWTSecret: cfg.JWTSecret, Env: cfg.Env}
	adminHandler := &handlers.AdminHandler{DB: db}
	studentHandler := &handlers.StudentHandler{DB: db}
	loanHandler := &handlers.LoanHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	// Public routes
	api.Get("/health", healthHandler.Check)
	api.Get("/universities", onboardingHandler.ListUniversities)
	api.Post("/onboarding/university", onboardingHandler.RegisterUniversity)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/status", authHandler.Status)

	// Authenticated routes
	auth := middleware.Auth(cfg.JWTSecret)

	api.Get("/university/settings", auth, onboardingHandler.GetSettings)

	student := api.Group("/student", auth)
	student.Get("/books/all", studentHandler.ListAll)
	student.Get("/books/available", studentHandler.ListAvailable)
	student.Get("/books/search", studentHandler.Search)
	student.Get("/books/predictions", studentHandler.Predictions)
	student.Get("/books/:id", studentHandler.GetBook)

	loans := api.Group("/loans", auth)
	loans.Post("/checkout", loanHandler.Checkout)
	loans.Post("/return/:loanId", loanHandler.Return)
	loans.Get("/mine", loanHandler.Mine)

	// Admin-only routes
	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	admin.Post("/books", adminHandler.CreateBook)
	admin.Get("/books", adminHandler.ListBooks)
	admin.Post("/books/import", adminHandler.ImportBooks)
	admin.Put("/books/:id", adminHandler.UpdateBook)
	admin.Delete("/books/:id", adminHandler.DeleteBook)
	admin.Get("/notifications", adminHandler.ListNotifications)
	admin.Put("/settings", adminHandler.UpdateSettings)

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
