package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
)

// AskRequest is the body of POST /api/ask. An empty VideoID asks across every
// processed video.
type AskRequest struct {
	Question string `json:"question" validate:"required"`
	VideoID  string `json:"video_id"`
}

// AskHandler handles question-answering requests.
type AskHandler struct {
	videos   interfaces.VideoService
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(videos interfaces.VideoService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		videos:   videos,
		validate: validator.New(),
		logger:   logger,
	}
}

// AskHandler handles POST /api/ask
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "A 'question' field is required")
		return
	}

	h.logger.Info().
		Str("question", req.Question).
		Str("video_id", req.VideoID).
		Msg("Ask request received")

	answer, err := h.videos.Ask(r.Context(), req.Question, req.VideoID)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrEmptyQuestion):
			WriteError(w, http.StatusBadRequest, "Question must not be empty")
		case errors.Is(err, interfaces.ErrVideoNotFound):
			WriteError(w, http.StatusNotFound, "Video not found")
		default:
			h.logger.Error().
				Err(err).
				Str("video_id", req.VideoID).
				Msg("Failed to answer question")
			WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"question": req.Question,
		"answer":   answer,
	})
}
