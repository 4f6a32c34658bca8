package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/handlers"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/services/answer"
	"github.com/ternarybob/nuntius/internal/services/embeddings"
	"github.com/ternarybob/nuntius/internal/services/events"
	"github.com/ternarybob/nuntius/internal/services/extractor"
	"github.com/ternarybob/nuntius/internal/services/ingest"
	"github.com/ternarybob/nuntius/internal/services/llm"
	"github.com/ternarybob/nuntius/internal/services/sources"
	"github.com/ternarybob/nuntius/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// LLM services: Gemini always serves embeddings; generation follows
	// the configured provider.
	LLMService        interfaces.LLMService
	GenerationService interfaces.GenerationService
	EmbeddingService  interfaces.EmbeddingService

	// Pipelines
	EventService  interfaces.EventService
	AnswerService interfaces.AnswerService
	IngestService interfaces.IngestService
	Scheduler     *ingest.Scheduler

	// HTTP handlers
	AskHandler    *handlers.AskHandler
	StatusHandler *handlers.StatusHandler
	WSHandler     *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger, cfg.Gemini.EmbedDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	llmService, generationService, err := llm.NewLLMService(cfg, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize LLM services: %w", err)
	}
	app.LLMService = llmService
	app.GenerationService = generationService

	app.EmbeddingService = embeddings.NewService(llmService, cfg.Gemini.EmbedDimension, logger)
	app.EventService = events.NewService(logger)

	app.AnswerService = answer.NewService(
		&cfg.Answer,
		app.EmbeddingService,
		storageManager.ArticleStorage(),
		generationService,
		logger,
	)

	sourceLoader := sources.NewLoader(&cfg.Ingest, logger)
	app.IngestService = ingest.NewPipeline(
		sourceLoader,
		func() (interfaces.ExtractorService, error) {
			return extractor.NewService(&cfg.Ingest, logger)
		},
		app.EmbeddingService,
		storageManager.ArticleStorage(),
		app.EventService,
		logger,
	)
	app.Scheduler = ingest.NewScheduler(app.IngestService, logger)

	wsHandler, err := handlers.NewWebSocketHandler(app.EventService, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize WebSocket handler: %w", err)
	}
	app.WSHandler = wsHandler
	app.AskHandler = handlers.NewAskHandler(app.AnswerService, logger)
	app.StatusHandler = handlers.NewStatusHandler(
		storageManager.ArticleStorage(),
		string(cfg.LLM.DefaultProvider),
		logger,
	)

	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Bool("ingest_enabled", cfg.Ingest.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// StartScheduler begins scheduled ingestion when enabled and configured.
func (a *App) StartScheduler() error {
	if !a.Config.Ingest.Enabled || a.Config.Ingest.Schedule == "" {
		a.Logger.Debug().Msg("Scheduled ingestion disabled")
		return nil
	}
	return a.Scheduler.Start(a.Config.Ingest.Schedule)
}

// Close releases all application resources in reverse initialization order.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.WSHandler != nil {
		a.WSHandler.Close()
	}
	if a.EventService != nil {
		a.EventService.Close()
	}
	if a.GenerationService != nil && a.GenerationService != interfaces.GenerationService(a.LLMService) {
		a.GenerationService.Close()
	}
	if a.LLMService != nil {
		a.LLMService.Close()
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
