package models

// Segment is one time-coded span of a video transcript. Segments are produced
// by the transcript source, ordered by StartSeconds non-decreasing, and never
// modified after acquisition.
type Segment struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// Transcript is the complete output of a transcript source for one video:
// the full concatenated text plus the ordered segment sequence it was built
// from. Title and Uploader are optional metadata populated at acquisition
// time when the source has them.
type Transcript struct {
	Language      string    `json:"language"`
	FullText      string    `json:"full_text"`
	Segments      []Segment `json:"segments"`
	TotalDuration float64   `json:"total_duration"`
	SourceType    string    `json:"source_type"` // "captions", "srt"

	Title    string  `json:"title,omitempty"`
	Uploader string  `json:"uploader,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}
