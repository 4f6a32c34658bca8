package answer

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
)

// Service implements AnswerService: embed the question, retrieve the most
// similar articles, and generate an answer grounded in them. When nothing
// clears the similarity threshold the configured fallback text is returned
// with no sources and the generation client is never invoked.
type Service struct {
	config    *common.AnswerConfig
	embedder  interfaces.EmbeddingService
	storage   interfaces.ArticleStorage
	generator interfaces.GenerationService
	logger    arbor.ILogger
}

// NewService creates the answering service
func NewService(
	config *common.AnswerConfig,
	embedder interfaces.EmbeddingService,
	storage interfaces.ArticleStorage,
	generator interfaces.GenerationService,
	logger arbor.ILogger,
) interfaces.AnswerService {
	return &Service{
		config:    config,
		embedder:  embedder,
		storage:   storage,
		generator: generator,
		logger:    logger,
	}
}

// Answer produces a grounded answer for the question.
func (s *Service) Answer(ctx context.Context, question string) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrInvalidInput
	}

	startTime := time.Now()

	vector, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, models.NewUpstreamError("question embedding", err)
	}

	matches, err := s.storage.SearchSimilar(ctx, vector, s.config.SimilarityThreshold, s.config.TopK)
	if err != nil {
		return nil, models.NewUpstreamError("similarity search", err)
	}

	if len(matches) == 0 {
		s.logger.Info().
			Int("question_length", len(question)).
			Dur("duration", time.Since(startTime)).
			Msg("No articles cleared the similarity threshold, returning fallback")
		return &models.Answer{
			Text:    s.config.FallbackMessage,
			Sources: []models.SourceRef{},
		}, nil
	}

	contextBlock := buildContextBlock(matches)
	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(contextBlock, question)},
	}

	text, err := s.generator.Chat(ctx, messages)
	if err != nil {
		return nil, models.NewUpstreamError("answer generation", err)
	}

	sources := make([]models.SourceRef, len(matches))
	for i, match := range matches {
		sources[i] = models.SourceRef{
			Title: match.Title,
			URL:   match.URL,
		}
	}

	s.logger.Info().
		Int("question_length", len(question)).
		Int("match_count", len(matches)).
		Int("answer_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Question answered")

	return &models.Answer{
		Text:    text,
		Sources: sources,
	}, nil
}

// HealthCheck verifies the upstream clients are reachable
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.generator.HealthCheck(ctx)
}
