package models

import "time"

// IngestReport summarizes one ingestion run against a single source.
// Every discovered candidate lands in exactly one of the outcome counters.
type IngestReport struct {
	Source     string        `json:"source"`
	ListingURL string        `json:"listing_url"`
	Discovered int           `json:"discovered"`
	Stored     int           `json:"stored"`
	Duplicates int           `json:"duplicates"`
	Empty      int           `json:"empty"`
	Failed     int           `json:"failed"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Skipped returns the number of candidates that produced no new article.
func (r *IngestReport) Skipped() int {
	return r.Duplicates + r.Empty + r.Failed
}
