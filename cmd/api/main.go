package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/thecyberprinciples/meetingmind/pkg/validator"

	"github.com/thecyberprinciples/meetingmind/internal/adapter/handler"
	"github.com/thecyberprinciples/meetingmind/internal/adapter/repository"
	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/cache"
	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/database"
	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/storage"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/epitaph"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/escalation"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/generation"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/insights"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/pipeline"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/similarity"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/transcription"
	pkgai "github.com/thecyberprinciples/meetingmind/pkg/ai"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	store := cache.NewRedisStore(redisClient)

	// Initialize object storage
	log.Println("🗄️  Connecting to object storage...")
	storageClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	candidates := make([]pkgai.TextGenerator, 0, len(cfg.Groq.Models))
	for _, model := range cfg.Groq.Models {
		candidates = append(candidates, pkgai.NewGroqClient(&cfg.Groq, model))
	}
	// Extraction runs against the primary model only; exhausting its retries
	// fails the meeting. The epitaph batch walks the full model ladder and can
	// degrade to canned text.
	extractionChain := generation.NewChain(candidates[:1], logger,
		generation.WithMaxAttempts(cfg.Pipeline.ChainMaxAttempts),
		generation.WithBaseDelay(cfg.Pipeline.ChainBaseDelay),
	)
	epitaphChain := generation.NewChain(candidates, logger,
		generation.WithMaxAttempts(cfg.Pipeline.ChainMaxAttempts),
		generation.WithBaseDelay(cfg.Pipeline.ChainBaseDelay),
		generation.WithFallback(epitaph.FallbackEpitaph),
	)
	embeddingsClient := pkgai.NewEmbeddingsClient(&cfg.Embeddings)
	embedder := similarity.NewEmbedder(embeddingsClient, store, cfg.Embeddings.Dimensions, cfg.Embeddings.CacheTTL, logger)

	// Initialize usecase services
	log.Println("✨ Initializing services...")
	speechClient := transcription.NewAssemblySpeechClient(cfg.Assembly.APIKey)
	transcriptionService := transcription.NewService(speechClient, store, &cfg.Pipeline, logger)
	insightsService := insights.NewService(extractionChain, cfg.Pipeline.PromptMaxChars, logger)
	pipelineService := pipeline.NewService(meetingRepo, transcriptionService, insightsService, storageClient, embedder, &cfg.Pipeline, logger)
	similarityService := similarity.NewService(meetingRepo, embedder, &cfg.Similarity, logger)
	epitaphService := epitaph.NewService(meetingRepo, epitaphChain, &cfg.Epitaph, logger)
	escalationService := escalation.NewService(meetingRepo, escalation.NewLogNotifier(logger), logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	webhookHandler := handler.NewWebhook(pipelineService, escalationService, logger)
	actionHandler := handler.NewAction(similarityService, logger)
	meetingHandler := handler.NewMeeting(meetingRepo, logger)
	adminHandler := handler.NewAdmin(epitaphService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, storageClient, webhookHandler, actionHandler, meetingHandler, adminHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
