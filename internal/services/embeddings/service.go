package embeddings

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
	"golang.org/x/time/rate"
)

// Service wraps the LLM provider's embedding endpoint with rate limiting and
// dimension checks, and handles batch embedding of chunk records.
type Service struct {
	llm       interfaces.LLMService
	limiter   *rate.Limiter
	dimension int
	batchSize int
	modelName string
	logger    arbor.ILogger
}

// NewService creates the embedding service. The rate limiter spaces provider
// calls to stay under the configured requests-per-second quota.
func NewService(llm interfaces.LLMService, config *common.Config, logger arbor.ILogger) *Service {
	rps := config.Embedding.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	batchSize := config.Embedding.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	return &Service{
		llm:       llm,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		dimension: config.Embedding.Dimension,
		batchSize: batchSize,
		modelName: config.LLM.Gemini.EmbedModel,
		logger:    logger,
	}
}

// GenerateEmbedding embeds a document text.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	vector, err := s.llm.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}
	return vector, nil
}

// GenerateQueryEmbedding embeds a search query. Queries use the same
// preparation as documents with this provider.
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// EmbedChunks generates embeddings for each chunk in order and clears the
// pending flag. The whole batch fails on the first provider error, leaving
// un-embedded chunks pending for the sweep to retry.
func (s *Service) EmbedChunks(ctx context.Context, chunks []*models.Chunk) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait cancelled: %w", err)
		}

		vectors, err := s.llm.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch starting at chunk %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding batch size mismatch: sent %d texts, got %d vectors", len(batch), len(vectors))
		}

		for i, vector := range vectors {
			if len(vector) != s.dimension {
				return fmt.Errorf("embedding dimension mismatch for chunk %s: expected %d, got %d", batch[i].ID, s.dimension, len(vector))
			}
			batch[i].Embedding = vector
			batch[i].Pending = false
		}
	}

	s.logger.Debug().
		Int("chunks", len(chunks)).
		Str("model", s.modelName).
		Msg("Embedded chunk batch")

	return nil
}

// ModelName returns the provider embedding model in use.
func (s *Service) ModelName() string {
	return s.modelName
}

// Dimension returns the fixed embedding dimension.
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable reports whether the provider is reachable.
func (s *Service) IsAvailable(ctx context.Context) bool {
	return s.llm.HealthCheck(ctx) == nil
}
