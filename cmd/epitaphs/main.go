package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/internal/adapter/repository"
	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/database"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/epitaph"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/generation"
	pkgai "github.com/thecyberprinciples/meetingmind/pkg/ai"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// One-shot epitaph batch, run nightly by the scheduler.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	meetingRepo := repository.NewMeetingRepository(db)

	candidates := make([]pkgai.TextGenerator, 0, len(cfg.Groq.Models))
	for _, model := range cfg.Groq.Models {
		candidates = append(candidates, pkgai.NewGroqClient(&cfg.Groq, model))
	}
	chain := generation.NewChain(candidates, logger,
		generation.WithMaxAttempts(cfg.Pipeline.ChainMaxAttempts),
		generation.WithBaseDelay(cfg.Pipeline.ChainBaseDelay),
		generation.WithFallback(epitaph.FallbackEpitaph),
	)

	service := epitaph.NewService(meetingRepo, chain, &cfg.Epitaph, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := service.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Epitaph batch failed: %v", err)
	}

	log.Printf("✅ Epitaph batch done: scanned=%d eligible=%d succeeded=%d failed=%d",
		summary.TotalScanned, summary.Eligible, summary.Succeeded, summary.Failed)
}
