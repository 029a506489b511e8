package models

import "time"

// Video is the ingestion record for one processed video. The Collection field
// names the isolated chunk namespace all of the video's chunks live in.
type Video struct {
	ID         string  `json:"id"` // 8-char short id
	URL        string  `json:"url" badgerholdIndex:"URL"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	Collection string  `json:"collection"`

	ChunkCount     int    `json:"chunk_count"`
	TranscriptType string `json:"transcript_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
