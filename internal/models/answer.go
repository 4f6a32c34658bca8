package models

// SourceRef identifies one article an answer was grounded on. The caller can
// follow the URL to verify the grounding independently.
type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is the result of the answering pipeline: generated text plus the
// ordered list of articles it was grounded on (most relevant first). When no
// article clears the similarity threshold, Text carries the configured
// fallback message and Sources is empty.
type Answer struct {
	Text    string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
}
