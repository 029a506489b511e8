package interfaces

import (
	"context"

	"github.com/ternarybob/verba/internal/models"
)

// TranscriptSource acquires the time-coded transcript for a video. The
// fallback order between caption formats is an internal policy of the
// implementation, not a concern of the retrieval core. Returns
// ErrNoTranscript when nothing can be acquired.
type TranscriptSource interface {
	Acquire(ctx context.Context, url string) (*models.Transcript, error)
}
