package transcripts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
)

// DirectorySource acquires transcripts from a local directory, keyed by the
// YouTube video key: <key>.json (pre-segmented transcript) or <key>.srt
// (subtitle file). Audio download and speech-to-text live outside this
// process; whatever produced the files, this source is the single acquisition
// interface the pipeline sees.
type DirectorySource struct {
	dir    string
	logger arbor.ILogger
}

// NewDirectorySource creates a transcript source over the configured
// directory.
func NewDirectorySource(config *common.TranscriptConfig, logger arbor.ILogger) *DirectorySource {
	return &DirectorySource{
		dir:    config.Dir,
		logger: logger,
	}
}

// Acquire loads the transcript for a video URL. Returns ErrNoTranscript when
// no transcript file exists for the video.
func (s *DirectorySource) Acquire(ctx context.Context, url string) (*models.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := common.YouTubeVideoKey(url)
	if key == "" {
		return nil, fmt.Errorf("%w: cannot derive video key from %s", interfaces.ErrInvalidURL, url)
	}

	jsonPath := filepath.Join(s.dir, key+".json")
	if transcript, err := s.loadJSON(jsonPath); err == nil {
		return transcript, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	srtPath := filepath.Join(s.dir, key+".srt")
	if transcript, err := s.loadSRT(srtPath); err == nil {
		return transcript, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	s.logger.Debug().
		Str("video_key", key).
		Str("dir", s.dir).
		Msg("No transcript file found")

	return nil, interfaces.ErrNoTranscript
}

func (s *DirectorySource) loadJSON(path string) (*models.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var transcript models.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("failed to parse transcript %s: %w", path, err)
	}

	if transcript.FullText == "" {
		transcript.FullText = joinSegments(transcript.Segments)
	}
	if transcript.SourceType == "" {
		transcript.SourceType = "captions"
	}

	if err := validateSegments(transcript.Segments); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}

	s.logger.Debug().
		Str("path", path).
		Int("segments", len(transcript.Segments)).
		Msg("Loaded JSON transcript")

	return &transcript, nil
}

func (s *DirectorySource) loadSRT(path string) (*models.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	segments := ParseSRT(string(data))
	if len(segments) == 0 {
		return nil, fmt.Errorf("transcript %s: no cues parsed", path)
	}
	if err := validateSegments(segments); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}

	transcript := &models.Transcript{
		FullText:      joinSegments(segments),
		Segments:      segments,
		SourceType:    "srt",
		TotalDuration: segments[len(segments)-1].EndSeconds,
	}

	s.logger.Debug().
		Str("path", path).
		Int("segments", len(segments)).
		Msg("Loaded SRT transcript")

	return transcript, nil
}

// validateSegments enforces the segment ordering invariant: start times
// non-decreasing and every segment's range non-negative.
func validateSegments(segments []models.Segment) error {
	prev := -1.0
	for i, seg := range segments {
		if seg.EndSeconds < seg.StartSeconds {
			return fmt.Errorf("segment %d has end %.3f before start %.3f", i, seg.EndSeconds, seg.StartSeconds)
		}
		if seg.StartSeconds < prev {
			return fmt.Errorf("segment %d start %.3f breaks monotonic ordering", i, seg.StartSeconds)
		}
		prev = seg.StartSeconds
	}
	return nil
}

func joinSegments(segments []models.Segment) string {
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}
