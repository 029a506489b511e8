package videos

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
	"github.com/ternarybob/verba/internal/services/chunker"
)

// NoVideosProcessed is the terminal answer when asking before any ingestion.
const NoVideosProcessed = "No videos processed yet."

// NoRelevantInAnyVideo is the terminal answer when a cross-video question
// matches nothing.
const NoRelevantInAnyVideo = "No relevant information found in any video."

const resultDivider = "=================================================="

// Service is the ingestion and question-answering pipeline: acquire a
// transcript, chunk it, embed the chunks, index them into the video's own
// collection, and answer questions against one or all videos.
type Service struct {
	videos   interfaces.VideoStorage
	source   interfaces.TranscriptSource
	chunker  *chunker.Service
	embedder interfaces.EmbeddingService
	index    interfaces.IndexService
	answerer interfaces.AnswerService
	logger   arbor.ILogger
}

// NewService wires the pipeline from its collaborators.
func NewService(
	videos interfaces.VideoStorage,
	source interfaces.TranscriptSource,
	chunkerSvc *chunker.Service,
	embedder interfaces.EmbeddingService,
	index interfaces.IndexService,
	answerer interfaces.AnswerService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		videos:   videos,
		source:   source,
		chunker:  chunkerSvc,
		embedder: embedder,
		index:    index,
		answerer: answerer,
		logger:   logger,
	}
}

// Process ingests one video: transcript acquisition, chunking, embedding,
// and indexing into the video's collection. An already-processed URL returns
// the existing record without re-ingesting. An embedding failure does not
// abort ingestion; chunks are stored pending and backfilled later.
func (s *Service) Process(ctx context.Context, url string) (*models.Video, error) {
	url = strings.TrimSpace(url)
	if !common.IsYouTubeURL(url) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrInvalidURL, url)
	}

	existing, err := s.videos.GetVideoByURL(url)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info().
			Str("video_id", existing.ID).
			Str("title", existing.Title).
			Msg("Video already processed")
		return existing, nil
	}

	transcript, err := s.source.Acquire(ctx, url)
	if err != nil {
		return nil, err
	}

	videoID := common.NewVideoID()
	video := &models.Video{
		ID:             videoID,
		URL:            url,
		Title:          transcript.Title,
		Uploader:       transcript.Uploader,
		Duration:       transcript.Duration,
		Collection:     common.CollectionName(videoID),
		TranscriptType: transcript.SourceType,
	}
	if video.Title == "" {
		video.Title = "Unknown"
	}

	chunks := s.chunker.Chunk(transcript, video)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("transcript for %s produced no chunks", url)
	}

	// Embedding failure leaves chunks pending; they are still persisted and
	// the scheduled sweep retries them
	if err := s.embedder.EmbedChunks(ctx, chunks); err != nil {
		s.logger.Warn().
			Err(err).
			Str("video_id", videoID).
			Msg("Embedding failed, storing chunks as pending")
	}

	stored, err := s.index.Add(ctx, video.Collection, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to index chunks: %w", err)
	}
	video.ChunkCount = stored

	if err := s.videos.SaveVideo(video); err != nil {
		return nil, fmt.Errorf("failed to save video record: %w", err)
	}

	s.logger.Info().
		Str("video_id", videoID).
		Str("title", video.Title).
		Int("chunks", stored).
		Msg("Video processed")

	return video, nil
}

// Ask answers a question against one video, or against every processed
// video when videoID is empty. Cross-video answers are concatenated per
// matching video; videos with nothing relevant are skipped.
func (s *Service) Ask(ctx context.Context, question, videoID string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", interfaces.ErrEmptyQuestion
	}

	if videoID != "" {
		video, err := s.videos.GetVideo(videoID)
		if err != nil {
			return "", err
		}
		result, err := s.answerer.Answer(ctx, question, video.Collection)
		if err != nil {
			return "", err
		}
		return result.Text, nil
	}

	videos, err := s.videos.ListVideos()
	if err != nil {
		return "", err
	}
	if len(videos) == 0 {
		return NoVideosProcessed, nil
	}

	var results []string
	for _, video := range videos {
		result, err := s.answerer.Answer(ctx, question, video.Collection)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("video_id", video.ID).
				Msg("Answer failed for video, skipping")
			continue
		}
		if result.Found {
			results = append(results, fmt.Sprintf("From '%s':\n%s", video.Title, result.Text))
		}
	}

	if len(results) == 0 {
		return NoRelevantInAnyVideo, nil
	}
	return strings.Join(results, "\n\n"+resultDivider+"\n\n"), nil
}

// List returns all processed video records.
func (s *Service) List(ctx context.Context) ([]*models.Video, error) {
	return s.videos.ListVideos()
}
