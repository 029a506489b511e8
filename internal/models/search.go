package models

// SearchResult is one ranked chunk from dense or hybrid retrieval.
type SearchResult struct {
	Chunk *Chunk `json:"chunk"`

	// Score is the final ranking score. For dense results this is the cosine
	// similarity (1 - cosine distance); hybrid retrieval adds a fixed boost
	// when the chunk also matched the lexical index.
	Score float64 `json:"score"`

	// DenseScore is the raw similarity before any lexical boost.
	DenseScore float64 `json:"dense_score"`

	// LexicalMatch records whether the chunk also appeared in the lexical
	// result set.
	LexicalMatch bool `json:"lexical_match"`
}

// Answer is the final response to a question, with its supporting citations.
type Answer struct {
	Text      string          `json:"text"`
	Citations []string        `json:"citations,omitempty"`
	Sources   []*SearchResult `json:"sources,omitempty"`

	// Found is false when retrieval produced no relevant chunks. That is a
	// normal terminal state, not an error.
	Found bool `json:"found"`

	// LowConfidence marks answers assembled from the template fallback after
	// an answer-generator failure.
	LowConfidence bool `json:"low_confidence,omitempty"`
}
