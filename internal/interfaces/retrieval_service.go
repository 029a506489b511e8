package interfaces

import (
	"context"

	"github.com/ternarybob/verba/internal/models"
)

// IndexService is the persisted dense vector index over a collection's
// chunks: append plus nearest-neighbor query by cosine similarity.
type IndexService interface {
	// Add appends chunks to a collection. Chunks with a mismatched embedding
	// dimension or missing required fields are skipped with a warning; the
	// call still succeeds for the valid remainder. Returns the number of
	// chunks stored.
	Add(ctx context.Context, collection string, chunks []*models.Chunk) (int, error)

	// Query returns up to k chunks ordered by descending similarity to the
	// query vector. A missing or empty collection yields an empty slice and
	// a nil error.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]*models.SearchResult, error)

	// Invalidate drops any cached index state for the collection.
	Invalidate(collection string)

	Dimension() int
}

// RetrievalService fuses dense and lexical retrieval into one ranked list.
type RetrievalService interface {
	// Search returns up to k chunks for the query, ranked by the fused
	// score. Empty or missing collections yield an empty slice, nil error.
	Search(ctx context.Context, collection, query string, k int) ([]*models.SearchResult, error)
}

// AnswerService turns a question into a cited answer over one collection.
type AnswerService interface {
	Answer(ctx context.Context, question, collection string) (*models.Answer, error)
}

// VideoService is the ingestion and question-answering pipeline.
type VideoService interface {
	// Process acquires, chunks, embeds, and indexes one video. Re-processing
	// an already-ingested URL returns the existing record.
	Process(ctx context.Context, url string) (*models.Video, error)

	// Ask answers a question against one video, or against all processed
	// videos when videoID is empty.
	Ask(ctx context.Context, question, videoID string) (string, error)

	List(ctx context.Context) ([]*models.Video, error)
}
