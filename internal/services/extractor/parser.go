package extractor

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/models"
)

// Parser turns rendered listing and article markup into candidates and
// article content using the structural selectors from a source definition.
type Parser struct {
	logger arbor.ILogger
}

// NewParser creates a new parser
func NewParser(logger arbor.ILogger) *Parser {
	return &Parser{logger: logger}
}

// ParseListing scans rendered listing markup for candidate articles. Each
// element matched by the link selector contributes its first <a href>; the
// anchor text is the candidate title. Relative hrefs resolve against the
// source's base URL. Duplicate URLs within one listing collapse to the
// first occurrence.
func (p *Parser) ParseListing(html string, def *models.SourceDefinition) ([]models.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	var candidates []models.Candidate
	seen := make(map[string]bool)

	doc.Find(def.LinkSelector).Each(func(i int, s *goquery.Selection) {
		anchor := s.Find("a[href]").First()
		if anchor.Length() == 0 {
			// The matched element may itself be the anchor
			if s.Is("a[href]") {
				anchor = s
			} else {
				return
			}
		}

		href, exists := anchor.Attr("href")
		if !exists || href == "" {
			return
		}

		resolved, err := common.CanonicalURL(href, def.BaseURL)
		if err != nil {
			p.logger.Debug().
				Str("href", href).
				Str("source", def.Name).
				Msg("Skipping unresolvable candidate link")
			return
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true

		candidates = append(candidates, models.Candidate{
			Title: strings.TrimSpace(anchor.Text()),
			URL:   resolved,
		})
	})

	p.logger.Debug().
		Str("source", def.Name).
		Int("candidate_count", len(candidates)).
		Msg("Listing parsed")

	return candidates, nil
}

// ParseArticle extracts the article body from rendered article markup and
// converts it to markdown. A content selector miss means the page layout
// doesn't match the definition; that yields empty content, not an error,
// so the pipeline can skip the page and move on.
func (p *Parser) ParseArticle(html string, def *models.SourceDefinition) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse article HTML: %w", err)
	}

	selection := doc.Find(def.ContentSelector).First()
	if selection.Length() == 0 {
		return "", nil
	}

	// Strip elements that carry no article text
	selection.Find("script, style, noscript, iframe").Remove()

	bodyHTML, err := goquery.OuterHtml(selection)
	if err != nil {
		return "", fmt.Errorf("failed to serialize article body: %w", err)
	}

	mdConverter := md.NewConverter(def.BaseURL, true, nil)
	markdown, err := mdConverter.ConvertString(bodyHTML)
	if err != nil {
		// Fall back to plain text when conversion chokes on the markup
		p.logger.Warn().
			Err(err).
			Str("source", def.Name).
			Msg("Markdown conversion failed, using plain text")
		return strings.TrimSpace(selection.Text()), nil
	}

	return strings.TrimSpace(markdown), nil
}
