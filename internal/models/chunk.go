package models

import "time"

// Chunk is a bounded window of transcript text with a best-effort time range
// alignment and a dense embedding. Chunks are created once during chunking,
// persisted, and never mutated apart from the embedding backfill performed by
// the re-embed sweep.
type Chunk struct {
	// Identity
	ID         string `json:"id"`
	Collection string `json:"collection" badgerholdIndex:"Collection"`
	ChunkIndex int    `json:"chunk_index"`

	// Content
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`

	// Pending marks a chunk that was persisted before its embedding could be
	// generated; the scheduler sweep picks these up.
	Pending bool `json:"pending,omitempty" badgerholdIndex:"Pending"`

	// Time alignment (derived, approximate; always within the transcript's
	// segment bounds)
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	StartTime    string  `json:"start_time"` // H:MM:SS
	EndTime      string  `json:"end_time"`   // H:MM:SS
	Duration     float64 `json:"duration"`

	// Video metadata
	VideoTitle string `json:"video_title"`
	VideoURL   string `json:"video_url"`
	Uploader   string `json:"uploader"`
	WordCount  int    `json:"word_count"`

	CreatedAt time.Time `json:"created_at"`
}
