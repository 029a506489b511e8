package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChunkStorage) SaveChunk(chunk *models.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}
	if chunk.Collection == "" {
		return fmt.Errorf("chunk collection is required")
	}

	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}

	// Upsert by ID: re-processing a video overwrites rather than duplicates.
	if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
		return fmt.Errorf("failed to save chunk: %w", err)
	}
	return nil
}

func (s *ChunkStorage) SaveChunks(chunks []*models.Chunk) error {
	for _, chunk := range chunks {
		if err := s.SaveChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *ChunkStorage) GetChunk(id string) (*models.Chunk, error) {
	var chunk models.Chunk
	if err := s.db.Store().Get(id, &chunk); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("chunk not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get chunk: %w", err)
	}
	return &chunk, nil
}

func (s *ChunkStorage) GetChunksByCollection(collection string) ([]*models.Chunk, error) {
	var chunks []models.Chunk
	err := s.db.Store().Find(&chunks, badgerhold.Where("Collection").Eq(collection).SortBy("ChunkIndex"))
	if err != nil {
		return nil, fmt.Errorf("failed to find chunks: %w", err)
	}

	result := make([]*models.Chunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result, nil
}

func (s *ChunkStorage) GetPendingChunks(limit int) ([]*models.Chunk, error) {
	var chunks []models.Chunk
	query := badgerhold.Where("Pending").Eq(true)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&chunks, query); err != nil {
		return nil, fmt.Errorf("failed to find pending chunks: %w", err)
	}

	result := make([]*models.Chunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result, nil
}

func (s *ChunkStorage) CountChunks(collection string) (int, error) {
	count, err := s.db.Store().Count(&models.Chunk{}, badgerhold.Where("Collection").Eq(collection))
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}
