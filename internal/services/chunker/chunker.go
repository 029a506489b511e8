package chunker

import (
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/models"
)

// Service splits a transcript into overlapping text chunks and aligns each
// chunk back to the segment timeline for citation tracking.
type Service struct {
	splitter *Splitter
	logger   arbor.ILogger
}

// NewService creates a chunker service from the configured window sizes.
func NewService(config *common.ChunkingConfig, logger arbor.ILogger) *Service {
	return &Service{
		splitter: NewSplitter(config.WindowChars, config.OverlapChars),
		logger:   logger,
	}
}

// Chunk produces the chunk records for one video's transcript. Chunk IDs are
// deterministic per (URL, index, text prefix), so re-chunking the same video
// yields the same IDs. Embeddings are left empty; the embedding service
// fills them in later.
func (s *Service) Chunk(transcript *models.Transcript, video *models.Video) []*models.Chunk {
	texts := s.splitter.Split(transcript.FullText)

	s.logger.Debug().
		Str("video_id", video.ID).
		Int("segments", len(transcript.Segments)).
		Int("chunks", len(texts)).
		Msg("Split transcript into chunks")

	chunks := make([]*models.Chunk, 0, len(texts))
	for i, text := range texts {
		start, end := alignChunk(text, transcript.Segments)

		chunks = append(chunks, &models.Chunk{
			ID:           common.ChunkID(video.URL, i, text),
			Collection:   video.Collection,
			ChunkIndex:   i,
			Text:         text,
			Pending:      true,
			StartSeconds: start,
			EndSeconds:   end,
			StartTime:    common.FormatTimecode(start),
			EndTime:      common.FormatTimecode(end),
			Duration:     end - start,
			VideoTitle:   video.Title,
			VideoURL:     video.URL,
			Uploader:     video.Uploader,
			WordCount:    len(strings.Fields(text)),
			CreatedAt:    time.Now(),
		})
	}

	return chunks
}
