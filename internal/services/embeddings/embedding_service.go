package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
)

// Service implements the EmbeddingService interface on top of the LLM
// service. All stored article vectors and query vectors pass through here,
// so the dimension check guards the storage invariant that every vector in
// the index has the same length.
type Service struct {
	llmService interfaces.LLMService
	dimension  int
	logger     arbor.ILogger
}

// NewService creates a new embedding service
func NewService(llmService interfaces.LLMService, dimension int, logger arbor.ILogger) interfaces.EmbeddingService {
	return &Service{
		llmService: llmService,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.llmService.Embed(ctx, text)
	duration := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	s.logger.Debug().
		Int("embedding_dim", len(embedding)).
		Dur("duration", duration).
		Msg("Generated embedding")

	return embedding, nil
}

// EmbedArticle generates and sets the embedding for an article. The title
// is concatenated ahead of the content so headline terms carry weight in
// similarity search.
func (s *Service) EmbedArticle(ctx context.Context, article *models.Article) error {
	text := s.prepareArticleText(article)

	embedding, err := s.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	article.Embedding = embedding

	s.logger.Debug().
		Str("article_id", article.ID).
		Int("embedding_dim", len(embedding)).
		Int("text_length", len(text)).
		Msg("Generated article embedding")

	return nil
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.dimension
}

func (s *Service) prepareArticleText(article *models.Article) string {
	if article.Title == "" {
		return article.Content
	}
	return fmt.Sprintf("%s\n\n%s", article.Title, article.Content)
}
