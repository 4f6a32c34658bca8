package interfaces

import (
	"context"

	"github.com/ternarybob/nuntius/internal/models"
)

// IngestService runs the ingestion pipeline: discover, dedupe, extract,
// embed, persist. A single run is strictly sequential; two runs must not
// execute concurrently against the same browser session.
type IngestService interface {
	// Run executes one ingestion pass over every configured source and
	// returns one report per source. Per-candidate failures are recovered
	// and counted; Run only errors when a source cannot be processed at all
	// (browser startup failure, unreachable listing page).
	Run(ctx context.Context) ([]*models.IngestReport, error)
}
