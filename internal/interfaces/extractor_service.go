package interfaces

import (
	"context"

	"github.com/ternarybob/nuntius/internal/models"
)

// ExtractorService renders pages in a real browser session and parses
// structured fields out of the rendered markup. One extractor owns one
// browser session; it is NOT safe for concurrent use, and navigations are
// strictly sequential (politeness toward the source site).
type ExtractorService interface {
	// DiscoverCandidates renders the source's listing page and returns the
	// (title, url) candidates found on it, in listing order, with URLs
	// resolved to canonical absolute form. Zero candidates is not an error.
	DiscoverCandidates(ctx context.Context, def *models.SourceDefinition) ([]models.Candidate, error)

	// ExtractContent renders an article page and returns its extracted body
	// text. A content-selector miss returns "" with a nil error; only
	// navigation failures are errors.
	ExtractContent(ctx context.Context, def *models.SourceDefinition, articleURL string) (string, error)

	// Close releases the browser session. Safe to call more than once.
	Close() error
}
