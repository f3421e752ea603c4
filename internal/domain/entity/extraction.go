package entity

import "time"

// ExtractedContent holds readable content extracted from a page,
// cached per original-page URL. At most one entry exists per URL;
// a newer extraction for the same URL overwrites the older one.
type ExtractedContent struct {
	URL         string    // Original page URL (cache key)
	Title       string
	Byline      string
	Content     string // Cleaned article HTML
	TextContent string // Plain-text variant
	SiteName    string
	ExtractedAt time.Time
	// Error records a failed extraction attempt so repeat failures
	// are observable without re-extracting. Empty on success.
	Error string
}

// Failed reports whether this entry marks a failed extraction.
func (c ExtractedContent) Failed() bool {
	return c.Error != ""
}
