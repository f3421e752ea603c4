// Package services holds application services that sit between the UI
// coordinators and the infrastructure layer.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/logging"
)

const defaultExtractTimeout = 30 * time.Second

// ReadabilityExtractor fetches a page and extracts its readable
// content with go-readability. Concurrent extractions of the same URL
// are collapsed into a single fetch.
type ReadabilityExtractor struct {
	client  *http.Client
	timeout time.Duration
	group   singleflight.Group
}

// ExtractorOption configures a ReadabilityExtractor.
type ExtractorOption func(*ReadabilityExtractor)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ExtractorOption {
	return func(e *ReadabilityExtractor) { e.client = client }
}

// WithTimeout caps the duration of a single extraction.
func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *ReadabilityExtractor) { e.timeout = d }
}

// NewReadabilityExtractor creates an extractor with a default client
// and timeout.
func NewReadabilityExtractor(opts ...ExtractorOption) *ReadabilityExtractor {
	e := &ReadabilityExtractor{
		client:  &http.Client{},
		timeout: defaultExtractTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches pageURL and returns its readable content. The
// returned entry always has URL and ExtractedAt set. An unreachable or
// unparseable page yields an error, not a partial entry.
func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) (*entity.ExtractedContent, error) {
	result, err, shared := e.group.Do(pageURL, func() (any, error) {
		return e.extract(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.FromContext(ctx).Trace().Str("url", pageURL).Msg("extraction shared with in-flight request")
	}
	return result.(*entity.ExtractedContent), nil
}

func (e *ReadabilityExtractor) extract(ctx context.Context, pageURL string) (*entity.ExtractedContent, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("extract readable content: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("url", pageURL).
		Str("title", article.Title).
		Int("content_bytes", len(article.Content)).
		Msg("page content extracted")

	return &entity.ExtractedContent{
		URL:         pageURL,
		Title:       article.Title,
		Byline:      article.Byline,
		Content:     article.Content,
		TextContent: article.TextContent,
		SiteName:    article.SiteName,
		ExtractedAt: time.Now(),
	}, nil
}
