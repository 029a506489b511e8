package common

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewVideoID generates a short unique video ID (first 8 hex chars of a UUID).
func NewVideoID() string {
	return uuid.New().String()[:8]
}

// CollectionName derives the per-video chunk collection name.
func CollectionName(videoID string) string {
	return "video_" + videoID
}

// ChunkID derives a deterministic chunk ID from the video URL, the chunk's
// position, and a prefix of its text. Re-processing the same video produces
// the same IDs, so writes overwrite rather than duplicate.
func ChunkID(videoURL string, chunkIndex int, text string) string {
	prefix := text
	if runes := []rune(text); len(runes) > 50 {
		prefix = string(runes[:50])
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d_%s", videoURL, chunkIndex, prefix)))
	return hex.EncodeToString(sum[:])
}
