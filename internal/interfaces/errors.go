package interfaces

import "errors"

// Typed failures surfaced to callers. Input errors are rejected before
// reaching the retrieval core; collaborator failures are recovered locally
// where a safe fallback exists.
var (
	// ErrInvalidURL is returned when the supplied URL is not a recognizable
	// video URL.
	ErrInvalidURL = errors.New("invalid video URL")

	// ErrEmptyQuestion is returned when a question is empty or whitespace.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrNoTranscript is returned by a transcript source when no transcript
	// can be acquired for a video.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrVideoNotFound is returned when a video id does not match a
	// processed video.
	ErrVideoNotFound = errors.New("video not found")
)
