package models

import (
	"fmt"
	"net/url"
	"strings"
)

// SourceDefinition describes one crawl target: the listing page to render and
// the structural selectors that locate candidates and article bodies in the
// rendered markup. Definitions come from the [ingest] config block or from
// files in the sources directory.
type SourceDefinition struct {
	// Name is the publisher label stored on every article from this source.
	Name string `toml:"name" yaml:"name" json:"name" validate:"required"`

	// ListingURL is the page whose rendered markup is scanned for candidates.
	ListingURL string `toml:"listing_url" yaml:"listing_url" json:"listing_url" validate:"required,url"`

	// BaseURL resolves relative candidate links. Defaults to the listing
	// URL's scheme and host when empty.
	BaseURL string `toml:"base_url" yaml:"base_url" json:"base_url"`

	// LinkSelector matches the listing elements that each contain one
	// candidate link (an <a href> with the article title as text).
	LinkSelector string `toml:"link_selector" yaml:"link_selector" json:"link_selector" validate:"required"`

	// ContentSelector locates the article body container on an article page.
	// A selector miss yields empty content, not an error.
	ContentSelector string `toml:"content_selector" yaml:"content_selector" json:"content_selector" validate:"required"`
}

// Normalize fills derivable fields and verifies the definition is usable.
func (d *SourceDefinition) Normalize() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("source name is required")
	}
	if d.LinkSelector == "" || d.ContentSelector == "" {
		return fmt.Errorf("source %s: link_selector and content_selector are required", d.Name)
	}

	parsed, err := url.Parse(d.ListingURL)
	if err != nil || !parsed.IsAbs() {
		return fmt.Errorf("source %s: listing_url must be an absolute URL: %q", d.Name, d.ListingURL)
	}

	if d.BaseURL == "" {
		d.BaseURL = fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	} else if base, err := url.Parse(d.BaseURL); err != nil || !base.IsAbs() {
		return fmt.Errorf("source %s: base_url must be an absolute URL: %q", d.Name, d.BaseURL)
	}

	return nil
}
