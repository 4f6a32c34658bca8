package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/interfaces"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	storage   interfaces.ArticleStorage
	provider  string
	startTime time.Time
	logger    arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(storage interfaces.ArticleStorage, provider string, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		storage:   storage,
		provider:  provider,
		startTime: time.Now(),
		logger:    logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	count, err := h.storage.CountArticles(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count articles")
		WriteError(w, http.StatusInternalServerError, "Failed to read article store")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       common.GetVersion(),
		"provider":      h.provider,
		"article_count": count,
		"uptime":        time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ListArticlesHandler handles GET /api/articles for store inspection
func (h *StatusHandler) ListArticlesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, offset := GetPageParams(r)
	articles, err := h.storage.ListArticles(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list articles")
		WriteError(w, http.StatusInternalServerError, "Failed to read article store")
		return
	}

	// Embeddings are large and useless to API consumers
	type articleView struct {
		ID        string    `json:"id"`
		Source    string    `json:"source"`
		Title     string    `json:"title"`
		URL       string    `json:"url"`
		CreatedAt time.Time `json:"created_at"`
	}
	views := make([]articleView, len(articles))
	for i, a := range articles {
		views[i] = articleView{
			ID:        a.ID,
			Source:    a.Source,
			Title:     a.Title,
			URL:       a.URL,
			CreatedAt: a.CreatedAt,
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": views,
		"count":    len(views),
	})
}
