package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
)

// SearchResult is one retrieved chunk in the GET /api/search response.
type SearchResult struct {
	ChunkID      string  `json:"chunk_id"`
	Text         string  `json:"text"`
	Score        float64 `json:"score"`
	DenseScore   float64 `json:"dense_score"`
	LexicalMatch bool    `json:"lexical_match"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	VideoTitle   string  `json:"video_title"`
	VideoURL     string  `json:"video_url"`
}

// SearchHandler exposes raw hybrid retrieval over one video's chunks.
type SearchHandler struct {
	retrieval interfaces.RetrievalService
	videos    interfaces.VideoStorage
	topK      int
	logger    arbor.ILogger
}

// NewSearchHandler creates a new SearchHandler. topK is the default result
// count when the request does not pass k.
func NewSearchHandler(retrieval interfaces.RetrievalService, videos interfaces.VideoStorage, topK int, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		retrieval: retrieval,
		videos:    videos,
		topK:      topK,
		logger:    logger,
	}
}

// SearchHandler handles GET /api/search?q=query&video_id=id&k=n
func (h *SearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	videoID := r.URL.Query().Get("video_id")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "A 'q' query parameter is required")
		return
	}
	if videoID == "" {
		WriteError(w, http.StatusBadRequest, "A 'video_id' query parameter is required")
		return
	}

	k := h.topK
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		if parsed, err := strconv.Atoi(kStr); err == nil && parsed > 0 {
			k = parsed
		}
	}
	if k > 50 {
		k = 50
	}

	video, err := h.videos.GetVideo(videoID)
	if err != nil {
		if errors.Is(err, interfaces.ErrVideoNotFound) {
			WriteError(w, http.StatusNotFound, "Video not found")
			return
		}
		h.logger.Error().Err(err).Str("video_id", videoID).Msg("Failed to load video")
		WriteError(w, http.StatusInternalServerError, "Failed to load video")
		return
	}

	matches, err := h.retrieval.Search(r.Context(), video.Collection, query, k)
	if err != nil {
		if errors.Is(err, interfaces.ErrEmptyQuestion) {
			WriteError(w, http.StatusBadRequest, "Query must not be empty")
			return
		}
		h.logger.Error().
			Err(err).
			Str("query", query).
			Str("video_id", videoID).
			Msg("Failed to execute search")
		WriteError(w, http.StatusInternalServerError, "Failed to execute search")
		return
	}

	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, SearchResult{
			ChunkID:      match.Chunk.ID,
			Text:         match.Chunk.Text,
			Score:        match.Score,
			DenseScore:   match.DenseScore,
			LexicalMatch: match.LexicalMatch,
			StartTime:    match.Chunk.StartTime,
			EndTime:      match.Chunk.EndTime,
			VideoTitle:   match.Chunk.VideoTitle,
			VideoURL:     match.Chunk.VideoURL,
		})
	}

	h.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Search completed")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":  results,
		"count":    len(results),
		"query":    query,
		"video_id": videoID,
	})
}
