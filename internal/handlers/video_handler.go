package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
)

// ProcessVideoRequest is the body of POST /api/videos.
type ProcessVideoRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// VideoHandler handles video ingestion and listing requests.
type VideoHandler struct {
	videos   interfaces.VideoService
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videos interfaces.VideoService, logger arbor.ILogger) *VideoHandler {
	return &VideoHandler{
		videos:   videos,
		validate: validator.New(),
		logger:   logger,
	}
}

// ProcessHandler handles POST /api/videos
func (h *VideoHandler) ProcessHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ProcessVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "A valid 'url' field is required")
		return
	}

	h.logger.Info().
		Str("url", req.URL).
		Msg("Video processing request received")

	video, err := h.videos.Process(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrInvalidURL):
			WriteError(w, http.StatusBadRequest, "Not a YouTube URL")
		case errors.Is(err, interfaces.ErrNoTranscript):
			WriteError(w, http.StatusUnprocessableEntity, "No transcript available for this video")
		default:
			h.logger.Error().
				Err(err).
				Str("url", req.URL).
				Msg("Failed to process video")
			WriteError(w, http.StatusInternalServerError, "Failed to process video")
		}
		return
	}

	WriteJSON(w, http.StatusOK, video)
}

// ListHandler handles GET /api/videos
func (h *VideoHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	videos, err := h.videos.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list videos")
		WriteError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"videos": videos,
		"count":  len(videos),
	})
}
