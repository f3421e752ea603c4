package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/logging"
)

// ExtractionStore is the persistence boundary for extracted content.
// Implementations load the full set at startup and persist single
// entries; the cache never reads the store after Load.
type ExtractionStore interface {
	LoadAll(ctx context.Context) (map[string]*entity.ExtractedContent, error)
	Persist(ctx context.Context, content *entity.ExtractedContent) error
	Delete(ctx context.Context, pageURL string) error
}

// ExtractionCache keeps extracted reader content in RAM, keyed by the
// original page URL, and mirrors changes to an ExtractionStore
// asynchronously. Reads never touch the store.
type ExtractionCache struct {
	entries sync.Map
	store   ExtractionStore
	maxAge  time.Duration

	pendingWrites sync.WaitGroup
}

// NewExtractionCache creates a cache backed by store. Entries older
// than maxAge are dropped at Load time; maxAge <= 0 keeps everything.
func NewExtractionCache(store ExtractionStore, maxAge time.Duration) *ExtractionCache {
	return &ExtractionCache{store: store, maxAge: maxAge}
}

// Load bulk-loads persisted extractions into memory. Call once at
// startup, before the cache is handed to the reader coordinator.
func (c *ExtractionCache) Load(ctx context.Context) error {
	data, err := c.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	expired := 0
	now := time.Now()
	for url, content := range data {
		if c.maxAge > 0 && now.Sub(content.ExtractedAt) > c.maxAge {
			expired++
			continue
		}
		c.entries.Store(url, content)
	}

	logging.FromContext(ctx).Debug().
		Int("loaded", len(data)-expired).
		Int("expired", expired).
		Msg("extraction cache loaded")
	return nil
}

// Get returns the cached extraction for pageURL, RAM only.
func (c *ExtractionCache) Get(pageURL string) (*entity.ExtractedContent, bool) {
	val, ok := c.entries.Load(pageURL)
	if !ok {
		return nil, false
	}
	return val.(*entity.ExtractedContent), true
}

// Set stores content immediately and persists it in the background.
// A newer extraction for the same URL replaces the older one.
func (c *ExtractionCache) Set(ctx context.Context, content *entity.ExtractedContent) {
	c.entries.Store(content.URL, content)

	logger := logging.FromContext(ctx)
	c.pendingWrites.Add(1)
	go func() {
		defer c.pendingWrites.Done()
		if err := c.store.Persist(context.Background(), content); err != nil {
			logger.Warn().Err(err).Str("url", content.URL).Msg("async extraction persist failed")
		}
	}()
}

// Delete evicts pageURL from RAM immediately and from the store in the
// background.
func (c *ExtractionCache) Delete(ctx context.Context, pageURL string) {
	c.entries.Delete(pageURL)

	logger := logging.FromContext(ctx)
	c.pendingWrites.Add(1)
	go func() {
		defer c.pendingWrites.Done()
		if err := c.store.Delete(context.Background(), pageURL); err != nil {
			logger.Warn().Err(err).Str("url", pageURL).Msg("async extraction delete failed")
		}
	}()
}

// List returns all cached extractions in no particular order.
func (c *ExtractionCache) List() []*entity.ExtractedContent {
	var all []*entity.ExtractedContent
	c.entries.Range(func(_, value any) bool {
		all = append(all, value.(*entity.ExtractedContent))
		return true
	})
	return all
}

// Flush blocks until every pending background write has completed.
// Call during shutdown so no extraction is lost.
func (c *ExtractionCache) Flush() {
	c.pendingWrites.Wait()
}
