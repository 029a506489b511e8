package citations

import (
	"fmt"

	"github.com/ternarybob/verba/internal/models"
)

// Format renders a chunk as a numbered, human-readable source reference:
//
//	Source 1: 'Video Title' at 0:02:30-0:02:45 (https://...&t=150s)
//
// The timestamped deep link is appended only when the chunk carries a video
// URL and a positive start offset; a zero offset would deep-link to the
// video start, which carries no information.
func Format(number int, chunk *models.Chunk) string {
	title := chunk.VideoTitle
	if title == "" {
		title = "Unknown"
	}
	start := chunk.StartTime
	if start == "" {
		start = "Unknown"
	}
	end := chunk.EndTime
	if end == "" {
		end = "Unknown"
	}

	citation := fmt.Sprintf("Source %d: '%s' at %s-%s", number, title, start, end)
	if chunk.VideoURL != "" && chunk.StartSeconds > 0 {
		citation += fmt.Sprintf(" (%s&t=%ds)", chunk.VideoURL, int(chunk.StartSeconds))
	}
	return citation
}
