package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
)

// AskHandler handles question-answering HTTP requests
type AskHandler struct {
	answerService interfaces.AnswerService
	logger        arbor.ILogger
}

// AskRequest is the POST /ask request body
type AskRequest struct {
	Question string `json:"question"`
}

// NewAskHandler creates a new ask handler
func NewAskHandler(answerService interfaces.AnswerService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		answerService: answerService,
		logger:        logger,
	}
}

// AskHandler handles POST /ask requests. The fallback answer is a 200: an
// honest "nothing relevant stored" is a successful response, not an error.
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode ask request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answer, err := h.answerService.Answer(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, "Question field is required")
			return
		}

		h.logger.Error().Err(err).Msg("Failed to answer question")
		WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	WriteJSON(w, http.StatusOK, answer)
}

// HealthHandler handles GET /api/health requests
func (h *AskHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if err := h.answerService.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Answer service health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"healthy": false,
			"error":   err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"healthy": true,
	})
}
