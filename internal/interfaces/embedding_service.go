package interfaces

import (
	"context"

	"github.com/ternarybob/nuntius/internal/models"
)

// EmbeddingService converts text into fixed-dimension embedding vectors.
// Every vector it returns has exactly Dimension() elements; the article store
// rejects anything else.
type EmbeddingService interface {
	// GenerateEmbedding creates a vector embedding for text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// EmbedArticle generates and sets the embedding for an article
	EmbedArticle(ctx context.Context, article *models.Article) error

	// Dimension returns the embedding dimension
	Dimension() int
}
