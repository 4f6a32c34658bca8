package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

const testDimension = 4

func newTestStorage(t *testing.T) interfaces.ArticleStorage {
	t.Helper()

	options := badgerhold.DefaultOptions
	options.Dir = t.TempDir()
	options.ValueDir = options.Dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	db := &BadgerDB{store: store}
	return NewArticleStorage(db, testDimension, arbor.NewLogger())
}

func testArticle(url string, embedding []float32) *models.Article {
	return &models.Article{
		Source:    "Emol",
		Title:     "Test article",
		URL:       url,
		Content:   "Some article content.",
		Embedding: embedding,
	}
}

func TestSaveAndGetArticle(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	article := testArticle("https://www.emol.com/noticias/one", []float32{1, 0, 0, 0})
	err := storage.SaveArticle(ctx, article)
	require.NoError(t, err)

	assert.NotEmpty(t, article.ID, "save assigns an ID")
	assert.False(t, article.CreatedAt.IsZero(), "save assigns a timestamp")

	got, err := storage.GetArticleByURL(ctx, article.URL)
	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)
	assert.Equal(t, article.Content, got.Content)
	assert.Equal(t, article.Embedding, got.Embedding)
}

func TestGetArticleByURL_NotFound(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.GetArticleByURL(context.Background(), "https://www.emol.com/missing")
	require.ErrorIs(t, err, models.ErrArticleNotFound)
}

func TestSaveArticle_DuplicateURL(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	first := testArticle("https://www.emol.com/noticias/dup", []float32{1, 0, 0, 0})
	require.NoError(t, storage.SaveArticle(ctx, first))

	second := testArticle("https://www.emol.com/noticias/dup", []float32{0, 1, 0, 0})
	err := storage.SaveArticle(ctx, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	count, err := storage.CountArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveArticle_DimensionMismatch(t *testing.T) {
	storage := newTestStorage(t)

	article := testArticle("https://www.emol.com/noticias/short", []float32{1, 0})
	err := storage.SaveArticle(context.Background(), article)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestSaveArticle_Invalid(t *testing.T) {
	storage := newTestStorage(t)

	article := testArticle("https://www.emol.com/noticias/empty", []float32{1, 0, 0, 0})
	article.Content = ""

	err := storage.SaveArticle(context.Background(), article)
	require.Error(t, err)
}

func TestExistsByURL(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	exists, err := storage.ExistsByURL(ctx, "https://www.emol.com/noticias/x")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, storage.SaveArticle(ctx, testArticle("https://www.emol.com/noticias/x", []float32{1, 0, 0, 0})))

	exists, err = storage.ExistsByURL(ctx, "https://www.emol.com/noticias/x")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSearchSimilar(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	// Orthogonal and near-parallel vectors give predictable similarities
	require.NoError(t, storage.SaveArticle(ctx, testArticle("https://e.com/exact", []float32{1, 0, 0, 0})))
	require.NoError(t, storage.SaveArticle(ctx, testArticle("https://e.com/close", []float32{0.9, 0.1, 0, 0})))
	require.NoError(t, storage.SaveArticle(ctx, testArticle("https://e.com/orthogonal", []float32{0, 1, 0, 0})))

	results, err := storage.SearchSimilar(ctx, []float32{1, 0, 0, 0}, 0.7, 5)
	require.NoError(t, err)
	require.Len(t, results, 2, "orthogonal vector falls below threshold")

	assert.Equal(t, "https://e.com/exact", results[0].URL, "most similar first")
	assert.Equal(t, "https://e.com/close", results[1].URL)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	assert.GreaterOrEqual(t, results[1].Similarity, float32(0.7))
}

func TestSearchSimilar_TopK(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		url := fmt.Sprintf("https://e.com/article-%d", i)
		require.NoError(t, storage.SaveArticle(ctx, testArticle(url, []float32{1, float32(i) * 0.01, 0, 0})))
	}

	results, err := storage.SearchSimilar(ctx, []float32{1, 0, 0, 0}, 0.5, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchSimilar_ThresholdMonotonicity(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	// Similarities to the query spread across the threshold range
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0.95, 0.05, 0, 0},
		{0.7, 0.3, 0, 0},
		{0.4, 0.6, 0, 0},
		{0, 1, 0, 0},
	}
	for i, vector := range vectors {
		url := fmt.Sprintf("https://e.com/mono-%d", i)
		require.NoError(t, storage.SaveArticle(ctx, testArticle(url, vector)))
	}

	query := []float32{1, 0, 0, 0}
	prev := len(vectors)
	for _, threshold := range []float32{0, 0.25, 0.5, 0.7, 0.9, 0.99} {
		results, err := storage.SearchSimilar(ctx, query, threshold, 10)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), prev, "raising the threshold must not add matches (t=%v)", threshold)
		prev = len(results)
	}
	assert.Less(t, prev, len(vectors), "the strictest threshold filtered something out")
}

func TestSearchSimilar_EmptyStore(t *testing.T) {
	storage := newTestStorage(t)

	results, err := storage.SearchSimilar(context.Background(), []float32{1, 0, 0, 0}, 0.7, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSimilar_BadInput(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.SearchSimilar(ctx, []float32{1, 0}, 0.7, 5)
	require.Error(t, err)

	_, err = storage.SearchSimilar(ctx, []float32{1, 0, 0, 0}, 0.7, 0)
	require.Error(t, err)
}

func TestListArticles(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		url := fmt.Sprintf("https://e.com/list-%d", i)
		require.NoError(t, storage.SaveArticle(ctx, testArticle(url, []float32{1, 0, 0, 0})))
	}

	page, err := storage.ListArticles(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := storage.ListArticles(ctx, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{1, 0}, []float32{1}), "mismatched lengths rank as zero")
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 0}), "zero vector ranks as zero")
}
