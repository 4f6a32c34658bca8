package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ArticleStorage implements the ArticleStorage interface for Badger.
//
// Similarity search is a brute-force cosine scan over all stored embeddings.
// The corpus is one news site's recent articles, small enough that a full
// scan beats the operational cost of an external vector index.
type ArticleStorage struct {
	db        *BadgerDB
	dimension int
	logger    arbor.ILogger
}

// NewArticleStorage creates a new ArticleStorage instance. The dimension is
// enforced on every save so all stored vectors are comparable.
func NewArticleStorage(db *BadgerDB, dimension int, logger arbor.ILogger) interfaces.ArticleStorage {
	return &ArticleStorage{
		db:        db,
		dimension: dimension,
		logger:    logger,
	}
}

// SaveArticle persists a new article, assigning ID and creation timestamp.
func (s *ArticleStorage) SaveArticle(ctx context.Context, article *models.Article) error {
	if err := article.Validate(); err != nil {
		return fmt.Errorf("invalid article: %w", err)
	}

	if len(article.Embedding) != s.dimension {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(article.Embedding))
	}

	exists, err := s.ExistsByURL(ctx, article.URL)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("article with URL %s already exists", article.URL)
	}

	if article.ID == "" {
		article.ID = common.NewArticleID()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(article.ID, article); err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}

	s.logger.Debug().
		Str("article_id", article.ID).
		Str("url", article.URL).
		Msg("Article saved")

	return nil
}

// GetArticleByURL returns the article with the given canonical URL.
func (s *ArticleStorage) GetArticleByURL(ctx context.Context, url string) (*models.Article, error) {
	var articles []models.Article
	err := s.db.Store().Find(&articles, badgerhold.Where("URL").Eq(url).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to query article by URL: %w", err)
	}
	if len(articles) == 0 {
		return nil, models.ErrArticleNotFound
	}
	return &articles[0], nil
}

// ExistsByURL reports whether an article with the given URL is stored.
func (s *ArticleStorage) ExistsByURL(ctx context.Context, url string) (bool, error) {
	count, err := s.db.Store().Count(&models.Article{}, badgerhold.Where("URL").Eq(url))
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return count > 0, nil
}

// CountArticles returns the number of stored articles.
func (s *ArticleStorage) CountArticles(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Article{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return int(count), nil
}

// SearchSimilar scans all stored embeddings and returns up to topK articles
// at or above the similarity threshold, most similar first.
func (s *ArticleStorage) SearchSimilar(ctx context.Context, vector []float32, threshold float32, topK int) ([]*models.ScoredArticle, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	startTime := time.Now()

	var articles []models.Article
	if err := s.db.Store().Find(&articles, nil); err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}

	scored := make([]*models.ScoredArticle, 0, len(articles))
	for i := range articles {
		similarity := cosineSimilarity(vector, articles[i].Embedding)
		if similarity >= threshold {
			scored = append(scored, &models.ScoredArticle{
				Article:    articles[i],
				Similarity: similarity,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	s.logger.Debug().
		Int("scanned", len(articles)).
		Int("matched", len(scored)).
		Dur("duration", time.Since(startTime)).
		Msg("Similarity search completed")

	return scored, nil
}

// ListArticles returns stored articles ordered by creation time descending.
func (s *ArticleStorage) ListArticles(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var articles []models.Article
	err := s.db.Store().Find(&articles, badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse().Skip(offset).Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	result := make([]*models.Article, len(articles))
	for i := range articles {
		result[i] = &articles[i]
	}
	return result, nil
}
