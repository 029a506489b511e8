package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/handlers"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/services/answer"
	"github.com/ternarybob/verba/internal/services/chunker"
	"github.com/ternarybob/verba/internal/services/embeddings"
	"github.com/ternarybob/verba/internal/services/index"
	"github.com/ternarybob/verba/internal/services/lexical"
	"github.com/ternarybob/verba/internal/services/llm"
	"github.com/ternarybob/verba/internal/services/retrieval"
	"github.com/ternarybob/verba/internal/services/scheduler"
	"github.com/ternarybob/verba/internal/services/transcripts"
	"github.com/ternarybob/verba/internal/services/videos"
	"github.com/ternarybob/verba/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	// Pipeline services
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService
	IndexService     interfaces.IndexService
	RetrievalService interfaces.RetrievalService
	AnswerService    interfaces.AnswerService
	VideoService     interfaces.VideoService

	SchedulerService *scheduler.Service

	// HTTP handlers
	VideoHandler  *handlers.VideoHandler
	AskHandler    *handlers.AskHandler
	SearchHandler *handlers.SearchHandler
	StatusHandler *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager
	logger.Debug().
		Str("storage", "badger").
		Str("path", cfg.Storage.Badger.Path).
		Msg("Storage layer initialized")

	llmService, err := llm.NewService(cfg, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	app.LLMService = llmService

	app.EmbeddingService = embeddings.NewService(llmService, cfg, logger)

	chunkStorage := storageManager.ChunkStorage()
	videoStorage := storageManager.VideoStorage()

	indexService := index.NewService(chunkStorage, cfg.Embedding.Dimension, logger)
	lexicalManager := lexical.NewManager(chunkStorage, logger)
	indexService.RegisterInvalidator(lexicalManager)
	app.IndexService = indexService

	app.RetrievalService = retrieval.NewService(app.EmbeddingService, indexService, lexicalManager, logger)
	app.AnswerService = answer.NewService(app.RetrievalService, llmService, cfg.Retrieval.TopK, logger)

	source := transcripts.NewDirectorySource(&cfg.Transcripts, logger)
	chunkerService := chunker.NewService(&cfg.Chunking, logger)

	app.VideoService = videos.NewService(
		videoStorage,
		source,
		chunkerService,
		app.EmbeddingService,
		indexService,
		app.AnswerService,
		logger,
	)

	if cfg.Processing.Enabled {
		app.SchedulerService = scheduler.NewService(
			chunkStorage,
			app.EmbeddingService,
			indexService,
			&cfg.Processing,
			logger,
		)
		if err := app.SchedulerService.Start(); err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	app.VideoHandler = handlers.NewVideoHandler(app.VideoService, logger)
	app.AskHandler = handlers.NewAskHandler(app.VideoService, logger)
	app.SearchHandler = handlers.NewSearchHandler(app.RetrievalService, videoStorage, cfg.Retrieval.TopK, logger)
	app.StatusHandler = handlers.NewStatusHandler(videoStorage, llmService, app.EmbeddingService, logger)

	logger.Info().
		Str("provider", llmService.Provider()).
		Bool("processing_enabled", cfg.Processing.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// Close shuts down background services and the storage layer.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage layer closed")
	}

	return nil
}
