package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
)

const sweepTimeout = 10 * time.Minute

// Service periodically re-embeds chunks that were persisted without an
// embedding, typically after an embedding provider outage or quota hit.
type Service struct {
	storage  interfaces.ChunkStorage
	embedder interfaces.EmbeddingService
	index    interfaces.IndexService
	config   *common.ProcessingConfig
	cron     *cron.Cron
	logger   arbor.ILogger
}

func NewService(
	storage interfaces.ChunkStorage,
	embedder interfaces.EmbeddingService,
	index interfaces.IndexService,
	config *common.ProcessingConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		storage:  storage,
		embedder: embedder,
		index:    index,
		config:   config,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start registers the sweep on the configured cron schedule.
func (s *Service) Start() error {
	schedule := s.config.Schedule
	if schedule == "" {
		// Default: every 10 minutes
		schedule = "0 */10 * * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid processing schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Int("limit", s.config.Limit).
		Msg("Pending chunk sweep scheduler started")

	return nil
}

// Stop stops the scheduler. Running sweeps are not interrupted.
func (s *Service) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Pending chunk sweep scheduler stopped")
}

// RunNow triggers an immediate sweep.
func (s *Service) RunNow() {
	s.logger.Info().Msg("Triggering immediate pending chunk sweep")
	go s.runSweep()
}

func (s *Service) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	embedded, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Pending chunk sweep failed")
		return
	}

	if embedded > 0 {
		s.logger.Info().
			Int("embedded", embedded).
			Msg("Pending chunk sweep completed")
	}
}

// Sweep embeds up to the configured limit of pending chunks, persists them,
// and invalidates the indexes of every affected collection. It returns the
// number of chunks that received an embedding.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	limit := s.config.Limit
	if limit <= 0 {
		limit = 500
	}

	pending, err := s.storage.GetPendingChunks(limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending chunks: %w", err)
	}
	if len(pending) == 0 {
		s.logger.Debug().Msg("No pending chunks to embed")
		return 0, nil
	}

	s.logger.Info().
		Int("pending", len(pending)).
		Msg("Embedding pending chunks")

	if err := s.embedder.EmbedChunks(ctx, pending); err != nil {
		return 0, fmt.Errorf("failed to embed pending chunks: %w", err)
	}

	embedded := make([]*models.Chunk, 0, len(pending))
	collections := make(map[string]struct{})
	for _, chunk := range pending {
		if chunk.Pending {
			continue
		}
		embedded = append(embedded, chunk)
		collections[chunk.Collection] = struct{}{}
	}
	if len(embedded) == 0 {
		return 0, nil
	}

	if err := s.storage.SaveChunks(embedded); err != nil {
		return 0, fmt.Errorf("failed to persist embedded chunks: %w", err)
	}

	for collection := range collections {
		s.index.Invalidate(collection)
	}

	return len(embedded), nil
}
