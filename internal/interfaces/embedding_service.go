package interfaces

import (
	"context"

	"github.com/ternarybob/verba/internal/models"
)

// EmbeddingService generates dimension-checked vector embeddings
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Generate query embedding (may have different preparation than document embedding)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// EmbedChunks generates and sets embeddings for a batch of chunks,
	// clearing their pending flag. Order-preserving.
	EmbedChunks(ctx context.Context, chunks []*models.Chunk) error

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}
