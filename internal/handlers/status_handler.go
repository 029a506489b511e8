package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/interfaces"
)

// StatusHandler reports service health and ingestion counts.
type StatusHandler struct {
	videos   interfaces.VideoStorage
	llm      interfaces.LLMService
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(videos interfaces.VideoStorage, llm interfaces.LLMService, embedder interfaces.EmbeddingService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		videos:   videos,
		llm:      llm,
		embedder: embedder,
		logger:   logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	videos, err := h.videos.ListVideos()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count videos")
		WriteError(w, http.StatusInternalServerError, "Failed to read status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "ok",
		"version":             common.GetFullVersion(),
		"videos":              len(videos),
		"llm_provider":        h.llm.Provider(),
		"embedding_model":     h.embedder.ModelName(),
		"embedding_available": h.embedder.IsAvailable(r.Context()),
	})
}
