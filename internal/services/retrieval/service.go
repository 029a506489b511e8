package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
	"github.com/ternarybob/verba/internal/services/lexical"
)

// lexicalBoost is the fixed score bonus for a chunk that matches both the
// dense and the lexical result sets.
const lexicalBoost = 0.5

// lexicalIndex is the sparse side of hybrid search.
type lexicalIndex interface {
	Query(collection, query string, k int) ([]lexical.Result, error)
}

// Service fuses dense vector similarity with lexical BM25 matching into one
// ranked result list.
//
// The fusion is asymmetric: candidates come only from the dense result set,
// and a lexical match boosts a dense candidate's score rather than admitting
// new candidates. A chunk matched only by the lexical index never appears in
// the output.
type Service struct {
	embedder interfaces.EmbeddingService
	index    interfaces.IndexService
	lexical  lexicalIndex
	logger   arbor.ILogger
}

// NewService creates the hybrid retriever.
func NewService(embedder interfaces.EmbeddingService, index interfaces.IndexService, lexical lexicalIndex, logger arbor.ILogger) *Service {
	return &Service{
		embedder: embedder,
		index:    index,
		lexical:  lexical,
		logger:   logger,
	}
}

// Search returns up to k chunks for the query, ranked by fused score. An
// empty or missing collection yields an empty slice and a nil error; an
// empty question is an error.
func (s *Service) Search(ctx context.Context, collection, query string, k int) ([]*models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, interfaces.ErrEmptyQuestion
	}
	if k <= 0 {
		k = 3
	}

	queryVector, err := s.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Dense candidates: over-fetch so the fused reordering has room to work
	dense, err := s.index.Query(ctx, collection, queryVector, k*2)
	if err != nil {
		return nil, fmt.Errorf("dense query failed: %w", err)
	}
	if len(dense) == 0 {
		return nil, nil
	}

	// Lexical candidates over the same collection. A lexical failure
	// degrades to dense-only ranking rather than failing the search.
	lexicalIDs := make(map[string]struct{})
	lexicalResults, err := s.lexical.Query(collection, query, k*2)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("collection", collection).
			Msg("Lexical query failed, ranking on dense scores only")
	} else {
		for _, r := range lexicalResults {
			lexicalIDs[r.ChunkID] = struct{}{}
		}
	}

	// Boost dense candidates that also matched lexically. Lexical-only
	// matches are not admitted.
	for _, result := range dense {
		if _, ok := lexicalIDs[result.Chunk.ID]; ok {
			result.LexicalMatch = true
			result.Score = result.DenseScore + lexicalBoost
		}
	}

	sort.SliceStable(dense, func(i, j int) bool { return dense[i].Score > dense[j].Score })

	if len(dense) > k {
		dense = dense[:k]
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("results", len(dense)).
		Int("lexical_matches", len(lexicalIDs)).
		Msg("Hybrid search complete")

	return dense, nil
}
