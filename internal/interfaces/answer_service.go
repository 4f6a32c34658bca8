package interfaces

import (
	"context"

	"github.com/ternarybob/nuntius/internal/models"
)

// AnswerService answers natural-language questions from the article store.
// Stateless per request; safe for concurrent use.
type AnswerService interface {
	// Answer embeds the question, retrieves the most relevant articles and
	// generates a grounded answer. An empty question fails with
	// models.ErrInvalidInput before any external call; failures of the
	// embedding, search or generation steps surface as *models.UpstreamError.
	// When no article clears the similarity threshold the configured
	// fallback answer is returned with an empty source list and a nil error.
	Answer(ctx context.Context, question string) (*models.Answer, error)

	// HealthCheck verifies the upstream clients are reachable
	HealthCheck(ctx context.Context) error
}
