package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/handlers"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Load static data: question bank and skill taxonomy
	bank, err := services.LoadQuestionBank(cfg.Bank.QuestionBankPath)
	if err != nil {
		log.Fatalf("❌ Failed to load question bank: %v", err)
	}
	log.Printf("✅ Question bank loaded (%d entries)", bank.Size())

	taxonomy, err := services.LoadSkillTaxonomy(cfg.Bank.TaxonomyPath)
	if err != nil {
		log.Fatalf("❌ Failed to load skill taxonomy: %v", err)
	}
	log.Printf("✅ Skill taxonomy loaded (%d categories)", len(taxonomy.Categories()))

	// Initialize audit log
	audit, err := services.NewAuditLogger(cfg.Audit.LogPath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize audit log: %v", err)
	}
	defer audit.Sync()

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryInitialDelay, audit)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Reference cache is optional: evaluations fall back to direct
	// generation when Qdrant is unavailable.
	var refCache services.ReferenceCacheService
	refCache, err = services.NewReferenceCacheService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.ScoreThreshold,
	)
	if err != nil {
		log.Printf("⚠️  Reference cache unavailable, continuing without it: %v", err)
		refCache = nil
	} else if err := refCache.InitCollection(); err != nil {
		log.Printf("⚠️  Failed to initialize reference cache collection, continuing without it: %v", err)
		refCache = nil
	} else {
		log.Println("✅ Reference cache initialized successfully")
	}

	structurer := services.NewResumeStructurerService(taxonomy, geminiService, cfg.Worker.RetryMaxAttempts)
	personalizer := services.NewPersonalizerService(geminiService, cfg.Worker.RetryMaxAttempts)

	sessionService := services.NewSessionService(
		sessionRepo,
		docRepo,
		pdfParser,
		structurer,
		bank,
		personalizer,
		cfg.Bank.RetrieveLimit,
	)

	evaluatorService := services.NewEvaluatorService(
		evalRepo,
		sessionRepo,
		geminiService,
		refCache,
		audit,
		cfg.Scoring.RubricWeight,
		cfg.Scoring.SemanticWeight,
		cfg.Worker.RetryMaxAttempts,
	)

	reportService := services.NewReportService(bank)
	log.Println("✅ Services initialized successfully")

	// Initialize worker
	worker := services.NewWorker(evalRepo, evaluatorService, cfg.Worker.Concurrency)
	worker.Start(context.Background())
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	sessionHandler := handlers.NewSessionHandler(sessionService, sessionRepo)
	answerHandler := handlers.NewAnswerHandler(evalRepo, sessionRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)
	reportHandler := handlers.NewReportHandler(sessionRepo, evalRepo, reportService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Coach API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
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
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
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
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/sessions", sessionHandler.HandleCreateSession)
	api.Get("/sessions/:id", sessionHandler.HandleGetSession)
	api.Post("/sessions/:id/answers", answerHandler.HandleSubmitAnswer)
	api.Get("/answers/:id", resultHandler.HandleGetResult)
	api.Get("/sessions/:id/report", reportHandler.HandleGetReport)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Coach API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/answers",
				"GET /api/v1/answers/:id",
				"GET /api/v1/sessions/:id/report",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
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
