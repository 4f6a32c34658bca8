package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
)

// ExtractorFactory creates a fresh extractor (and its browser session) for
// one ingestion run. Sessions are per-run, never shared across runs.
type ExtractorFactory func() (interfaces.ExtractorService, error)

// SourceProvider returns the source definitions for a run.
type SourceProvider interface {
	Load() ([]*models.SourceDefinition, error)
}

// Pipeline implements IngestService: discover candidates on each source's
// listing page, skip URLs already stored, extract and embed the rest, and
// persist what survives. A candidate failing at any stage is counted and
// logged; it never aborts the run.
type Pipeline struct {
	sources      SourceProvider
	newExtractor ExtractorFactory
	embedder     interfaces.EmbeddingService
	storage      interfaces.ArticleStorage
	events       interfaces.EventService
	logger       arbor.ILogger
}

// NewPipeline creates the ingestion pipeline
func NewPipeline(
	sources SourceProvider,
	newExtractor ExtractorFactory,
	embedder interfaces.EmbeddingService,
	storage interfaces.ArticleStorage,
	events interfaces.EventService,
	logger arbor.ILogger,
) interfaces.IngestService {
	return &Pipeline{
		sources:      sources,
		newExtractor: newExtractor,
		embedder:     embedder,
		storage:      storage,
		events:       events,
		logger:       logger,
	}
}

// Run executes one ingestion pass over every configured source.
func (p *Pipeline) Run(ctx context.Context) ([]*models.IngestReport, error) {
	definitions, err := p.sources.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load source definitions: %w", err)
	}

	extractor, err := p.newExtractor()
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}
	defer extractor.Close()

	p.publish(ctx, interfaces.EventIngestStarted, map[string]interface{}{
		"source_count": len(definitions),
		"timestamp":    time.Now(),
	})

	reports := make([]*models.IngestReport, 0, len(definitions))
	for _, def := range definitions {
		if ctx.Err() != nil {
			return reports, ctx.Err()
		}

		report := p.runSource(ctx, extractor, def)
		reports = append(reports, report)

		p.logger.Info().
			Str("source", report.Source).
			Int("discovered", report.Discovered).
			Int("stored", report.Stored).
			Int("duplicates", report.Duplicates).
			Int("empty", report.Empty).
			Int("failed", report.Failed).
			Dur("duration", report.Duration).
			Msg("Source ingestion completed")
	}

	p.publish(ctx, interfaces.EventIngestCompleted, reports)

	return reports, nil
}

// runSource processes all candidates from one source's listing page.
func (p *Pipeline) runSource(ctx context.Context, extractor interfaces.ExtractorService, def *models.SourceDefinition) *models.IngestReport {
	report := &models.IngestReport{
		Source:     def.Name,
		ListingURL: def.ListingURL,
		StartedAt:  time.Now(),
	}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	candidates, err := extractor.DiscoverCandidates(ctx, def)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("source", def.Name).
			Str("listing_url", def.ListingURL).
			Msg("Failed to discover candidates")
		report.Failed++
		return report
	}

	report.Discovered = len(candidates)

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return report
		}
		p.processCandidate(ctx, extractor, def, candidate, report)
	}

	return report
}

// processCandidate runs one candidate through dedup, extract, embed, and
// persist. Each failure path increments exactly one counter.
func (p *Pipeline) processCandidate(ctx context.Context, extractor interfaces.ExtractorService, def *models.SourceDefinition, candidate models.Candidate, report *models.IngestReport) {
	exists, err := p.storage.ExistsByURL(ctx, candidate.URL)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("url", candidate.URL).
			Msg("Dedup check failed")
		report.Failed++
		return
	}
	if exists {
		p.logger.Debug().
			Str("url", candidate.URL).
			Msg("Skipping already-stored article")
		report.Duplicates++
		return
	}

	content, err := extractor.ExtractContent(ctx, def, candidate.URL)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("url", candidate.URL).
			Msg("Failed to extract article")
		report.Failed++
		return
	}
	if content == "" {
		p.logger.Debug().
			Str("url", candidate.URL).
			Msg("Skipping article with empty content")
		report.Empty++
		return
	}

	article := &models.Article{
		Source:  def.Name,
		Title:   candidate.Title,
		URL:     candidate.URL,
		Content: content,
	}

	if err := p.embedder.EmbedArticle(ctx, article); err != nil {
		p.logger.Error().
			Err(err).
			Str("url", candidate.URL).
			Msg("Failed to embed article")
		report.Failed++
		return
	}

	if err := p.storage.SaveArticle(ctx, article); err != nil {
		p.logger.Error().
			Err(err).
			Str("url", candidate.URL).
			Msg("Failed to save article")
		report.Failed++
		return
	}

	report.Stored++

	p.publish(ctx, interfaces.EventArticleStored, map[string]interface{}{
		"article_id": article.ID,
		"source":     article.Source,
		"title":      article.Title,
		"url":        article.URL,
	})

	p.logger.Info().
		Str("article_id", article.ID).
		Str("title", article.Title).
		Str("url", article.URL).
		Msg("Article ingested")
}

func (p *Pipeline) publish(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		p.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish event")
	}
}
