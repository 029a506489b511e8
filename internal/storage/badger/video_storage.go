package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// VideoStorage implements the VideoStorage interface for Badger
type VideoStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewVideoStorage creates a new VideoStorage instance
func NewVideoStorage(db *BadgerDB, logger arbor.ILogger) interfaces.VideoStorage {
	return &VideoStorage{
		db:     db,
		logger: logger,
	}
}

func (s *VideoStorage) SaveVideo(video *models.Video) error {
	if video.ID == "" {
		return fmt.Errorf("video ID is required")
	}

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	if err := s.db.Store().Upsert(video.ID, video); err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}

func (s *VideoStorage) GetVideo(id string) (*models.Video, error) {
	var video models.Video
	if err := s.db.Store().Get(id, &video); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

// GetVideoByURL returns nil, nil when no video with that URL exists, so
// callers can distinguish "not yet processed" from a storage failure.
func (s *VideoStorage) GetVideoByURL(url string) (*models.Video, error) {
	var videos []models.Video
	err := s.db.Store().Find(&videos, badgerhold.Where("URL").Eq(url))
	if err != nil {
		return nil, fmt.Errorf("failed to find video by URL: %w", err)
	}
	if len(videos) == 0 {
		return nil, nil
	}
	return &videos[0], nil
}

func (s *VideoStorage) ListVideos() ([]*models.Video, error) {
	var videos []models.Video
	if err := s.db.Store().Find(&videos, badgerhold.Where("ID").Ne("").SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	result := make([]*models.Video, len(videos))
	for i := range videos {
		result[i] = &videos[i]
	}
	return result, nil
}
