package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
)

// Mock implementations

// mockEmbedder implements interfaces.EmbeddingService
type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedArticle(ctx context.Context, article *models.Article) error {
	return errors.New("not implemented")
}

func (m *mockEmbedder) Dimension() int { return len(m.vector) }

// mockSearchStorage implements interfaces.ArticleStorage
type mockSearchStorage struct {
	matches       []*models.ScoredArticle
	err           error
	lastThreshold float32
	lastTopK      int
}

func (m *mockSearchStorage) SearchSimilar(ctx context.Context, vector []float32, threshold float32, topK int) ([]*models.ScoredArticle, error) {
	m.lastThreshold = threshold
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func (m *mockSearchStorage) SaveArticle(ctx context.Context, article *models.Article) error {
	return errors.New("not implemented")
}

func (m *mockSearchStorage) GetArticleByURL(ctx context.Context, url string) (*models.Article, error) {
	return nil, models.ErrArticleNotFound
}

func (m *mockSearchStorage) ExistsByURL(ctx context.Context, url string) (bool, error) {
	return false, nil
}

func (m *mockSearchStorage) CountArticles(ctx context.Context) (int, error) { return 0, nil }

func (m *mockSearchStorage) ListArticles(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	return nil, nil
}

// mockGenerator implements interfaces.GenerationService
type mockGenerator struct {
	response     string
	err          error
	calls        int
	lastMessages []interfaces.Message
}

func (m *mockGenerator) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	m.calls++
	m.lastMessages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) HealthCheck(ctx context.Context) error { return nil }
func (m *mockGenerator) Close() error                          { return nil }

func scoredArticle(title, url, content string, similarity float32) *models.ScoredArticle {
	return &models.ScoredArticle{
		Article: models.Article{
			Source:  "Emol",
			Title:   title,
			URL:     url,
			Content: content,
		},
		Similarity: similarity,
	}
}

func testConfig() *common.AnswerConfig {
	return &common.AnswerConfig{
		TopK:                5,
		SimilarityThreshold: 0.70,
		FallbackMessage:     "I could not find relevant news about that topic in my database.",
	}
}

func newFixture(embedder *mockEmbedder, storage *mockSearchStorage, generator *mockGenerator) interfaces.AnswerService {
	return NewService(testConfig(), embedder, storage, generator, arbor.NewLogger())
}

func TestAnswer_GroundedResponse(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0, 0}}
	storage := &mockSearchStorage{matches: []*models.ScoredArticle{
		scoredArticle("Resultados de la elección", "https://e.com/eleccion", "El candidato A ganó con 52%.", 0.91),
		scoredArticle("Participación electoral", "https://e.com/participacion", "La participación alcanzó el 85%.", 0.82),
	}}
	generator := &mockGenerator{response: "El candidato A ganó la elección con el 52% de los votos."}

	answer, err := newFixture(embedder, storage, generator).Answer(context.Background(), "¿Quién ganó la elección?")
	require.NoError(t, err)

	assert.Equal(t, generator.response, answer.Text)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "Resultados de la elección", answer.Sources[0].Title, "sources keep relevance order")
	assert.Equal(t, "https://e.com/eleccion", answer.Sources[0].URL)
	assert.Equal(t, float32(0.70), storage.lastThreshold)
	assert.Equal(t, 5, storage.lastTopK)
}

func TestAnswer_PromptContainsContextAndQuestion(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0, 0}}
	storage := &mockSearchStorage{matches: []*models.ScoredArticle{
		scoredArticle("Titular principal", "https://e.com/a", "Cuerpo de la noticia.", 0.9),
		scoredArticle("Titular secundario", "https://e.com/b", "Cuerpo adicional.", 0.8),
	}}
	generator := &mockGenerator{response: "Respuesta."}

	_, err := newFixture(embedder, storage, generator).Answer(context.Background(), "¿Qué pasó?")
	require.NoError(t, err)

	require.Len(t, generator.lastMessages, 2)
	assert.Equal(t, "system", generator.lastMessages[0].Role)
	assert.Contains(t, generator.lastMessages[0].Content, "ONLY")

	userPrompt := generator.lastMessages[1].Content
	assert.Contains(t, userPrompt, "Source: Titular principal")
	assert.Contains(t, userPrompt, "Content: Cuerpo de la noticia.")
	assert.Contains(t, userPrompt, "Question: ¿Qué pasó?")

	first := strings.Index(userPrompt, "Source: Titular principal")
	second := strings.Index(userPrompt, "Source: Titular secundario")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "context block preserves relevance order, most relevant first")
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0, 0}}
	generator := &mockGenerator{}
	svc := newFixture(embedder, &mockSearchStorage{}, generator)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := svc.Answer(context.Background(), question)
		require.ErrorIs(t, err, models.ErrInvalidInput)
	}
	assert.Equal(t, 0, embedder.calls, "invalid input never reaches the embedder")
	assert.Equal(t, 0, generator.calls)
}

func TestAnswer_NoMatchesFallback(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0, 0}}
	storage := &mockSearchStorage{matches: nil}
	generator := &mockGenerator{}

	answer, err := newFixture(embedder, storage, generator).Answer(context.Background(), "¿Hay noticias sobre criptomonedas?")
	require.NoError(t, err, "the fallback is a successful answer")

	assert.Equal(t, testConfig().FallbackMessage, answer.Text)
	assert.NotNil(t, answer.Sources)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, generator.calls, "no generation call on the fallback path")
}

func TestAnswer_EmbedFailure(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("embedding API down")}
	generator := &mockGenerator{}

	_, err := newFixture(embedder, &mockSearchStorage{}, generator).Answer(context.Background(), "¿Qué pasó hoy?")
	require.Error(t, err)
	assert.True(t, models.IsUpstreamError(err))
	assert.Equal(t, 0, generator.calls)
}

func TestAnswer_SearchFailure(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0, 0}}
	storage := &mockSearchStorage{err: errors.New("store unavailable")}

	_, err := newFixture(embedder, storage, &mockGenerator{}).Answer(context.Background(), "¿Qué pasó hoy?")
	require.Error(t, err)
	assert.True(t, models.IsUpstreamError(err))
}

func TestAnswer_GenerationFailure(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{1, 0, 0}}
	storage := &mockSearchStorage{matches: []*models.ScoredArticle{
		scoredArticle("Titular", "https://e.com/a", "Cuerpo.", 0.9),
	}}
	generator := &mockGenerator{err: errors.New("model overloaded")}

	_, err := newFixture(embedder, storage, generator).Answer(context.Background(), "¿Qué pasó?")
	require.Error(t, err)
	assert.True(t, models.IsUpstreamError(err))

	var ue *models.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "answer generation", ue.Op)
}
