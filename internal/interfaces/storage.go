package interfaces

import "github.com/ternarybob/verba/internal/models"

// ChunkStorage persists chunks, keyed by chunk id and scoped by collection.
// Collections are append-only and fully isolated from each other.
type ChunkStorage interface {
	SaveChunk(chunk *models.Chunk) error
	SaveChunks(chunks []*models.Chunk) error
	GetChunk(id string) (*models.Chunk, error)

	// GetChunksByCollection returns all chunks of a collection ordered by
	// chunk index. A missing collection yields an empty slice, not an error.
	GetChunksByCollection(collection string) ([]*models.Chunk, error)

	// GetPendingChunks returns up to limit chunks persisted without an
	// embedding, for the re-embed sweep.
	GetPendingChunks(limit int) ([]*models.Chunk, error)

	CountChunks(collection string) (int, error)
}

// VideoStorage persists ingestion records for processed videos.
type VideoStorage interface {
	SaveVideo(video *models.Video) error
	GetVideo(id string) (*models.Video, error)

	// GetVideoByURL returns nil, nil when no video with that URL exists.
	GetVideoByURL(url string) (*models.Video, error)

	ListVideos() ([]*models.Video, error)
}

// StorageManager owns the database connection and exposes the typed stores.
type StorageManager interface {
	ChunkStorage() ChunkStorage
	VideoStorage() VideoStorage
	Close() error
}
