package extractor

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/interfaces"
	"github.com/ternarybob/nuntius/internal/models"
)

// Service implements ExtractorService by pairing one browser session with
// the selector-driven parser. Created per ingestion run and closed when the
// run ends.
type Service struct {
	browser *Browser
	parser  *Parser
	logger  arbor.ILogger
}

// NewService launches a browser session and returns an extractor bound to it.
func NewService(config *common.IngestConfig, logger arbor.ILogger) (interfaces.ExtractorService, error) {
	browser, err := NewBrowser(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	return &Service{
		browser: browser,
		parser:  NewParser(logger),
		logger:  logger,
	}, nil
}

// DiscoverCandidates renders the listing page and parses candidates from it.
func (s *Service) DiscoverCandidates(ctx context.Context, def *models.SourceDefinition) ([]models.Candidate, error) {
	html, err := s.browser.FetchRenderedHTML(ctx, def.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render listing page: %w", err)
	}

	candidates, err := s.parser.ParseListing(html, def)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("source", def.Name).
		Str("listing_url", def.ListingURL).
		Int("candidate_count", len(candidates)).
		Msg("Candidates discovered")

	return candidates, nil
}

// ExtractContent renders an article page and extracts its body.
func (s *Service) ExtractContent(ctx context.Context, def *models.SourceDefinition, articleURL string) (string, error) {
	html, err := s.browser.FetchRenderedHTML(ctx, articleURL)
	if err != nil {
		return "", fmt.Errorf("failed to render article page: %w", err)
	}

	return s.parser.ParseArticle(html, def)
}

// Close releases the browser session.
func (s *Service) Close() error {
	return s.browser.Close()
}
