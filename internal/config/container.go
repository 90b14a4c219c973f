package config

import (
	"context"

	"fin-statement-analyzer/internal/ai"
	"fin-statement-analyzer/internal/domain"
	"fin-statement-analyzer/internal/ocr"
	"fin-statement-analyzer/internal/repository"
	"fin-statement-analyzer/internal/service"
	"fin-statement-analyzer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	SessionStore      *repository.MemorySessionStore
	ExtractionService domain.ExtractionService
	ChatService       domain.ChatService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	// The model client is optional: without an API key the keyword tier
	// still works and the chat endpoints report the assistant as absent.
	var model domain.ModelClient
	if cfg.GetGeminiAPIKey() != "" {
		gemini, err := ai.NewGemini(context.Background(), cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			appLogger.Warn("Gemini client unavailable; model tier disabled", "error", err)
		} else {
			model = gemini
		}
	} else {
		appLogger.Warn("GEMINI_API_KEY not set; model tier and assistant disabled")
	}

	ocrEngine := ocr.NewEngine(ocr.Config{
		Tesseract: cfg.GetTesseractPath(),
		Language:  cfg.GetTesseractLang(),
		PSM:       6, // statements are a uniform block of table text
	}, nil, appLogger)

	loader := service.NewLoader(ocrEngine, cfg.GetOCRDPI(), appLogger)
	resolver := service.NewResolver(model, appLogger)
	store := repository.NewMemorySessionStore(cfg.GetSessionTTL(), appLogger)

	return &Container{
		Config:            cfg,
		Logger:            appLogger,
		SessionStore:      store,
		ExtractionService: service.NewAnalysisService(loader, resolver, store, appLogger),
		ChatService:       service.NewChatService(model, store, appLogger),
	}
}

// Close releases container-held resources.
func (c *Container) Close() {
	c.SessionStore.Close()
}
