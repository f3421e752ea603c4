package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/chromekit/internal/application/port"
	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/domain/url"
	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/ui/component"
	"github.com/bnema/chromekit/internal/ui/controller"
	"github.com/bnema/chromekit/internal/ui/mainloop"
)

// Chrome is the composition root of the chrome core: it owns the owner
// loop, the scroll controller, the snackbar stack, the reader bar and
// the reader coordinator, and it is the single subscriber to page
// container events.
type Chrome struct {
	loop        *mainloop.Loop
	ctl         *controller.ChromeController
	stack       *component.SnackbarStack
	bar         *component.ReaderBar
	reader      *ReaderCoordinator
	pages       port.PageContainer
	readingList port.ReadingListStore

	snackbarHeight float64

	// Each page owns its own snackbar stack; only the selected page's
	// stack is visible. Non-selected stacks are stashed here by page ID.
	mu          sync.Mutex
	stashed     map[entity.PageID][]*component.Snackbar
	selected    entity.PageID
	hasSelected bool
}

// NewChrome wires the components together and subscribes to page
// selection. Page switches reset the scroll state, clear transient
// notifications, and re-query reader state for the new page.
func NewChrome(
	ctx context.Context,
	loop *mainloop.Loop,
	pages port.PageContainer,
	ctl *controller.ChromeController,
	stack *component.SnackbarStack,
	bar *component.ReaderBar,
	reader *ReaderCoordinator,
) *Chrome {
	c := &Chrome{
		loop:           loop,
		ctl:            ctl,
		stack:          stack,
		bar:            bar,
		reader:         reader,
		pages:          pages,
		snackbarHeight: defaultSnackbarHeight,
		stashed:        make(map[entity.PageID][]*component.Snackbar),
	}

	pages.SetOnPageSelected(func(page port.Page) {
		c.ctl.SetActivePage(ctx, page)
		c.swapSnackbars(ctx, page)
		c.reader.PageSelected(ctx, page)
	})
	pages.SetOnPageRemoved(func(id entity.PageID) {
		c.mu.Lock()
		delete(c.stashed, id)
		c.mu.Unlock()
		c.reader.PageRemoved(id)
	})

	logging.FromContext(ctx).Debug().Msg("chrome coordinator created")
	return c
}

// swapSnackbars stashes the outgoing page's visible stack and restores
// the incoming page's. Bars keep their lifecycle across switches; only
// popping or removing their page destroys them.
func (c *Chrome) swapSnackbars(ctx context.Context, page port.Page) {
	detached := c.stack.DetachAll(ctx)

	c.mu.Lock()
	if c.hasSelected {
		if len(detached) > 0 {
			c.stashed[c.selected] = detached
		} else {
			delete(c.stashed, c.selected)
		}
	}
	var restored []*component.Snackbar
	if page != nil {
		c.selected = page.ID()
		c.hasSelected = true
		restored = c.stashed[c.selected]
		delete(c.stashed, c.selected)
	} else {
		c.hasSelected = false
	}
	c.mu.Unlock()

	c.stack.Attach(ctx, restored)
}

// Controller exposes the scroll/drag intake.
func (c *Chrome) Controller() *controller.ChromeController {
	return c.ctl
}

// Reader exposes reading-mode operations.
func (c *Chrome) Reader() *ReaderCoordinator {
	return c.reader
}

// ReaderBar exposes the reading-mode affordance.
func (c *Chrome) ReaderBar() *component.ReaderBar {
	return c.bar
}

const defaultSnackbarHeight = 48.0

// SetReadingList attaches the reading-list store used by
// SaveToReadingList. Optional; saving without a store is an error.
func (c *Chrome) SetReadingList(store port.ReadingListStore) {
	c.readingList = store
}

// SaveToReadingList adds the selected page to the reading list and
// confirms with a snackbar. Already-saved pages are not re-added.
func (c *Chrome) SaveToReadingList(ctx context.Context) error {
	if c.readingList == nil {
		return errors.New("no reading list store configured")
	}
	page := c.pages.SelectedPage()
	if page == nil {
		return ErrNoActivePage
	}

	pageURL := page.URL()
	if decoded, err := url.DecodeReader(pageURL); err == nil {
		pageURL = decoded
	}

	var title string
	if item := page.BackForward().CurrentItem(); item != nil {
		title = item.Title
	}

	exists, err := c.readingList.Contains(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("check reading list: %w", err)
	}
	if !exists {
		if err := c.readingList.Add(ctx, port.ReadingListItem{URL: pageURL, Title: title}); err != nil {
			return fmt.Errorf("add to reading list: %w", err)
		}
	}

	logging.FromContext(ctx).Debug().Str("url", pageURL).Bool("existed", exists).Msg("page saved to reading list")
	c.Notify(ctx, component.NewSnackbar(c.snackbarHeight))
	return nil
}

// Snackbars exposes the notification stack for read access.
func (c *Chrome) Snackbars() *component.SnackbarStack {
	return c.stack
}

// Notify shows a snackbar above the bottom toolbar. Any collaborator
// may call it; the mutation runs on the owner loop.
func (c *Chrome) Notify(ctx context.Context, bar *component.Snackbar) {
	c.loop.Post(func() {
		c.stack.Push(ctx, bar)
	})
}

// Dismiss removes a snackbar by ID on the owner loop.
func (c *Chrome) Dismiss(ctx context.Context, barID string) {
	c.loop.Post(func() {
		c.stack.Pop(ctx, barID)
	})
}

// Close drains and stops the owner loop.
func (c *Chrome) Close() {
	c.loop.Close()
}
