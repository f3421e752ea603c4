// Package coordinator wires the chrome components to the page
// container and the application services.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/chromekit/internal/application/port"
	"github.com/bnema/chromekit/internal/cache"
	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/domain/url"
	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/ui/component"
	"github.com/bnema/chromekit/internal/ui/controller"
	"github.com/bnema/chromekit/internal/ui/mainloop"
)

var (
	// ErrNoActivePage is returned when an operation needs a selected
	// page and none exists.
	ErrNoActivePage = errors.New("no active page")
	// ErrReaderNotAvailable is returned by Enable when the page has no
	// readable content to offer.
	ErrReaderNotAvailable = errors.New("reading mode not available for this page")
	// ErrNotReaderURL is returned by Disable when the current URL is
	// not reader-encoded.
	ErrNotReaderURL = errors.New("current URL is not a reader page")
)

// StyleStore persists the process-wide reader style.
type StyleStore interface {
	ReaderStyle() entity.ReaderStyle
	SaveReaderStyle(style entity.ReaderStyle) error
}

// ReaderCoordinator owns the reading-mode decision per page: when to
// traverse existing history instead of extracting, and how reader
// state and style propagate to the chrome.
//
// All methods run on the owner task. Content extraction is the one
// piece of off-task work; its result re-enters via the loop.
type ReaderCoordinator struct {
	mu sync.Mutex

	loop      *mainloop.Loop
	pages     port.PageContainer
	extractor port.Extractor
	cache     *cache.ExtractionCache
	chrome    *controller.ChromeController
	bar       *component.ReaderBar
	styles    StyleStore

	states map[entity.PageID]entity.ReaderState
	style  entity.ReaderStyle

	onStyleApplied     func(pageID entity.PageID, style entity.ReaderStyle)
	onExtractionFailed func(pageURL string, err error)
}

// NewReaderCoordinator creates the coordinator and subscribes it to
// page selection and removal.
func NewReaderCoordinator(
	ctx context.Context,
	loop *mainloop.Loop,
	pages port.PageContainer,
	extractor port.Extractor,
	extractionCache *cache.ExtractionCache,
	chrome *controller.ChromeController,
	bar *component.ReaderBar,
	styles StyleStore,
) *ReaderCoordinator {
	c := &ReaderCoordinator{
		loop:      loop,
		pages:     pages,
		extractor: extractor,
		cache:     extractionCache,
		chrome:    chrome,
		bar:       bar,
		styles:    styles,
		states:    make(map[entity.PageID]entity.ReaderState),
		style:     styles.ReaderStyle().Normalize(),
	}

	bar.SetOnToggle(func(ctx context.Context, activate bool) {
		if activate {
			_ = c.EnableReaderMode(ctx)
		} else {
			_ = c.DisableReaderMode(ctx)
		}
	})

	logging.FromContext(ctx).Debug().Msg("reader coordinator created")
	return c
}

// SetOnStyleApplied registers the callback invoked for every Active
// page when the style changes.
func (c *ReaderCoordinator) SetOnStyleApplied(fn func(pageID entity.PageID, style entity.ReaderStyle)) {
	c.mu.Lock()
	c.onStyleApplied = fn
	c.mu.Unlock()
}

// SetOnExtractionFailed registers the user-feedback callback for
// failed extractions.
func (c *ReaderCoordinator) SetOnExtractionFailed(fn func(pageURL string, err error)) {
	c.mu.Lock()
	c.onExtractionFailed = fn
	c.mu.Unlock()
}

// EnableReaderMode enters reading mode on the selected page.
func (c *ReaderCoordinator) EnableReaderMode(ctx context.Context) error {
	page := c.pages.SelectedPage()
	if page == nil {
		return ErrNoActivePage
	}
	return c.Enable(ctx, page)
}

// DisableReaderMode leaves reading mode on the selected page.
func (c *ReaderCoordinator) DisableReaderMode(ctx context.Context) error {
	page := c.pages.SelectedPage()
	if page == nil {
		return ErrNoActivePage
	}
	return c.Disable(ctx, page)
}

// Enable enters reading mode on page. The page must currently report
// Available. When an adjacent history entry already holds the reader
// page the coordinator traverses to it; otherwise it extracts the
// content off-task and navigates once extraction succeeds.
func (c *ReaderCoordinator) Enable(ctx context.Context, page port.Page) error {
	if c.StateFor(page.ID()) != entity.ReaderAvailable {
		return ErrReaderNotAvailable
	}

	currentURL := page.URL()
	readerURL := url.EncodeReader(currentURL)
	logger := logging.FromContext(ctx)

	bf := page.BackForward()
	if back := bf.BackItem(); back != nil && url.IsReaderOf(back.URL, currentURL) {
		if err := page.GoBack(ctx); err != nil {
			return fmt.Errorf("traverse back to reader entry: %w", err)
		}
		logger.Debug().Str("url", currentURL).Msg("reader mode entered via back traversal")
		c.setActive(ctx, page)
		return nil
	}
	if fwd := bf.ForwardItem(); fwd != nil && url.IsReaderOf(fwd.URL, currentURL) {
		if err := page.GoForward(ctx); err != nil {
			return fmt.Errorf("traverse forward to reader entry: %w", err)
		}
		logger.Debug().Str("url", currentURL).Msg("reader mode entered via forward traversal")
		c.setActive(ctx, page)
		return nil
	}

	// Cached extraction: navigate immediately, no re-extraction.
	if cached, ok := c.cache.Get(currentURL); ok && !cached.Failed() {
		if err := page.Load(ctx, readerURL); err != nil {
			return fmt.Errorf("load reader page: %w", err)
		}
		c.setActive(ctx, page)
		return nil
	}

	pageID := page.ID()
	go func() {
		content, err := c.extractor.Extract(ctx, currentURL)
		c.loop.Post(func() {
			if err != nil {
				c.extractionFailed(ctx, currentURL, err)
				return
			}
			c.extractionSucceeded(ctx, pageID, content, readerURL)
		})
	}()
	return nil
}

// Disable leaves reading mode on page. The current URL must be
// reader-encoded; its decoded original is reached by adjacent-history
// traversal when possible, otherwise by a fresh load.
func (c *ReaderCoordinator) Disable(ctx context.Context, page port.Page) error {
	original, err := url.DecodeReader(page.URL())
	if err != nil {
		return ErrNotReaderURL
	}

	logger := logging.FromContext(ctx)
	bf := page.BackForward()
	switch {
	case bf.BackItem() != nil && bf.BackItem().URL == original:
		if err := page.GoBack(ctx); err != nil {
			return fmt.Errorf("traverse back to original entry: %w", err)
		}
		logger.Debug().Str("url", original).Msg("reader mode left via back traversal")
	case bf.ForwardItem() != nil && bf.ForwardItem().URL == original:
		if err := page.GoForward(ctx); err != nil {
			return fmt.Errorf("traverse forward to original entry: %w", err)
		}
		logger.Debug().Str("url", original).Msg("reader mode left via forward traversal")
	default:
		// No adjacent match. A fresh load discards the reader entry
		// from forward history, which is the accepted tradeoff.
		if err := page.Load(ctx, original); err != nil {
			return fmt.Errorf("load original page: %w", err)
		}
		logger.Debug().Str("url", original).Msg("reader mode left via fresh load")
	}

	c.setState(ctx, page.ID(), entity.ReaderAvailable, true)
	return nil
}

// OnStateChanged receives availability reports from the external
// content analyzer. Selected-page changes propagate to the chrome
// immediately; others are picked up when their page is selected.
func (c *ReaderCoordinator) OnStateChanged(ctx context.Context, page port.Page, state entity.ReaderState) {
	selected := c.pages.SelectedPage()
	propagate := selected != nil && selected.ID() == page.ID()
	c.setState(ctx, page.ID(), state, propagate)
}

// OnStyleChanged persists the new style and applies it to every
// currently Active page. Style is process-wide; state is per-page.
func (c *ReaderCoordinator) OnStyleChanged(ctx context.Context, style entity.ReaderStyle) error {
	style = style.Normalize()

	c.mu.Lock()
	c.style = style
	var active []entity.PageID
	for id, state := range c.states {
		if state == entity.ReaderActive {
			active = append(active, id)
		}
	}
	apply := c.onStyleApplied
	c.mu.Unlock()

	if err := c.styles.SaveReaderStyle(style); err != nil {
		return fmt.Errorf("persist reader style: %w", err)
	}

	if apply != nil {
		for _, id := range active {
			apply(id, style)
		}
	}

	logging.FromContext(ctx).Debug().
		Str("font", style.FontFamily).
		Int("size", style.FontSize).
		Str("theme", string(style.Theme)).
		Int("active_pages", len(active)).
		Msg("reader style updated")
	return nil
}

// Style returns the current process-wide reader style.
func (c *ReaderCoordinator) Style() entity.ReaderStyle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// StateFor returns the known reader state for a page, Unavailable when
// the page has never reported.
func (c *ReaderCoordinator) StateFor(id entity.PageID) entity.ReaderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

// PageSelected re-queries the stored state for the newly selected page
// and pushes it to the chrome. Called by the chrome coordinator.
func (c *ReaderCoordinator) PageSelected(ctx context.Context, page port.Page) {
	if page == nil {
		c.bar.SetState(ctx, entity.ReaderUnavailable)
		c.chrome.SetReaderMode(ctx, false)
		return
	}
	state := c.StateFor(page.ID())
	c.bar.SetState(ctx, state)
	c.chrome.SetReaderMode(ctx, state == entity.ReaderActive)
}

// PageRemoved drops the stored state of a closed page.
func (c *ReaderCoordinator) PageRemoved(id entity.PageID) {
	c.mu.Lock()
	delete(c.states, id)
	c.mu.Unlock()
}

func (c *ReaderCoordinator) setActive(ctx context.Context, page port.Page) {
	c.setState(ctx, page.ID(), entity.ReaderActive, true)
}

func (c *ReaderCoordinator) setState(ctx context.Context, id entity.PageID, state entity.ReaderState, propagate bool) {
	c.mu.Lock()
	c.states[id] = state
	c.mu.Unlock()

	if propagate {
		c.bar.SetState(ctx, state)
		c.chrome.SetReaderMode(ctx, state == entity.ReaderActive)
	}
}

func (c *ReaderCoordinator) extractionFailed(ctx context.Context, pageURL string, err error) {
	logging.FromContext(ctx).Warn().Err(err).Str("url", pageURL).Msg("content extraction failed")

	// Record the failed attempt so repeat failures stay observable.
	c.cache.Set(ctx, &entity.ExtractedContent{
		URL:         pageURL,
		Error:       err.Error(),
		ExtractedAt: time.Now(),
	})

	c.mu.Lock()
	notify := c.onExtractionFailed
	c.mu.Unlock()
	if notify != nil {
		notify(pageURL, err)
	}
}

func (c *ReaderCoordinator) extractionSucceeded(ctx context.Context, pageID entity.PageID, content *entity.ExtractedContent, readerURL string) {
	c.cache.Set(ctx, content)

	page := c.pages.SelectedPage()
	if page == nil || page.ID() != pageID || page.URL() != content.URL {
		// The user navigated away while extraction ran. Keep the cache
		// entry, skip the navigation.
		logging.FromContext(ctx).Debug().Str("url", content.URL).Msg("extraction finished after navigation, not entering reader mode")
		return
	}

	if err := page.Load(ctx, readerURL); err != nil {
		c.extractionFailed(ctx, content.URL, err)
		return
	}
	c.setActive(ctx, page)
}
