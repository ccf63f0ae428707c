package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"refcheck/internal/config"
	"refcheck/internal/handlers"
	"refcheck/internal/services"
	"refcheck/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize the domain store on top of the key-value provider
	provider := store.NewGormProvider(db)
	domainStore, err := store.New(provider)
	if err != nil {
		log.Fatalf("❌ Failed to load domain store: %v", err)
	}
	log.Println("✅ Domain store loaded successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	if cfg.Gemini.APIKey == "" {
		log.Println("⚠️  GEMINI_API_KEY not set; analysis requests will be rejected")
	} else {
		log.Println("✅ Gemini AI initialized successfully")
	}

	// Initialize analyzer
	analyzerService := services.NewAnalyzerService(domainStore, geminiService, cfg.Analysis.Timeout)
	log.Println("✅ Analyzer service initialized")

	// Initialize Handlers
	validate := validator.New()
	candidateHandler := handlers.NewCandidateHandler(domainStore, validate)
	referenceHandler := handlers.NewReferenceHandler(domainStore, validate)
	surveyHandler := handlers.NewSurveyHandler(domainStore, validate)
	analysisHandler := handlers.NewAnalysisHandler(analyzerService)
	dashboardHandler := handlers.NewDashboardHandler(domainStore)
	settingsHandler := handlers.NewSettingsHandler(domainStore)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "RefCheck API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Get("/dashboard", dashboardHandler.HandleStats)
	api.Get("/candidates", candidateHandler.HandleList)
	api.Post("/candidates", candidateHandler.HandleCreate)
	api.Get("/candidates/:id", candidateHandler.HandleDetail)
	api.Patch("/candidates/:id/status", candidateHandler.HandleUpdateStatus)
	api.Post("/candidates/:id/references", referenceHandler.HandleCreate)
	api.Post("/candidates/:id/analysis", analysisHandler.HandleAnalyze)
	api.Post("/settings/reset", settingsHandler.HandleReset)

	// Public survey routes; the reference ID in the URL is the capability token
	app.Get("/survey/:refID", surveyHandler.HandleGetSurvey)
	app.Post("/survey/:refID", surveyHandler.HandleSubmit)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "RefCheck API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/dashboard",
				"GET /api/v1/candidates",
				"POST /api/v1/candidates",
				"GET /api/v1/candidates/:id",
				"PATCH /api/v1/candidates/:id/status",
				"POST /api/v1/candidates/:id/references",
				"POST /api/v1/candidates/:id/analysis",
				"POST /api/v1/settings/reset",
				"GET /survey/:refID",
				"POST /survey/:refID",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
