package interfaces

import (
	"context"

	"github.com/ternarybob/nuntius/internal/models"
)

// ArticleStorage persists articles and executes similarity search over their
// stored embeddings. URL is unique across the store; SaveArticle assigns the
// ID and creation timestamp. Implementations must be safe for concurrent use.
type ArticleStorage interface {
	// SaveArticle persists a new article. The article must satisfy
	// models.Article.Validate and its embedding must match the store's
	// configured dimension. Saving a URL that already exists is an error.
	SaveArticle(ctx context.Context, article *models.Article) error

	// GetArticleByURL returns the article with the given canonical URL, or
	// models.ErrArticleNotFound.
	GetArticleByURL(ctx context.Context, url string) (*models.Article, error)

	// ExistsByURL reports whether an article with the given URL is stored.
	// This is the ingestion dedup check: one store round-trip per candidate.
	ExistsByURL(ctx context.Context, url string) (bool, error)

	// SearchSimilar returns up to topK articles whose embedding similarity
	// to vector is at least threshold, ordered by descending similarity.
	SearchSimilar(ctx context.Context, vector []float32, threshold float32, topK int) ([]*models.ScoredArticle, error)

	// CountArticles returns the number of stored articles.
	CountArticles(ctx context.Context) (int, error)

	// ListArticles returns stored articles for inspection endpoints.
	ListArticles(ctx context.Context, limit, offset int) ([]*models.Article, error)
}

// StorageManager owns the database connection and the storages built on it.
type StorageManager interface {
	ArticleStorage() ArticleStorage
	Close() error
}
