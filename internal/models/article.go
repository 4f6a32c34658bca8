package models

import (
	"fmt"
	"strings"
	"time"
)

// Article represents one ingested news article with its embedding vector.
// Articles are created once by the ingestion pipeline and never updated;
// URL is the dedup key and is unique across the store.
type Article struct {
	ID        string    `json:"id" badgerhold:"key"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	URL       string    `json:"url" badgerhold:"unique"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the article satisfies the persistence invariants:
// non-empty URL and content, and an embedding computed for that content.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("article URL is required")
	}
	if strings.TrimSpace(a.Content) == "" {
		return fmt.Errorf("article content is required")
	}
	if len(a.Embedding) == 0 {
		return fmt.Errorf("article embedding is required")
	}
	return nil
}

// ScoredArticle pairs an article with its similarity score against a query
// vector. Results from a similarity search are ordered by descending score.
type ScoredArticle struct {
	Article
	Similarity float32 `json:"similarity"`
}

// Candidate is a (title, url) pair discovered on a listing page, in listing
// order. The URL is absolute at this point.
type Candidate struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
