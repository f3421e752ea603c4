package cli

import (
	"context"
	"sync"

	"github.com/bnema/chromekit/internal/application/port"
	"github.com/bnema/chromekit/internal/domain/entity"
)

// SimPage is an in-memory page with a real back/forward list, used by
// the simulator in place of a rendering engine.
type SimPage struct {
	mu      sync.Mutex
	id      entity.PageID
	history []entity.HistoryItem
	index   int
	loading bool
}

// NewSimPage creates a page whose history contains only startURL.
func NewSimPage(id, startURL string) *SimPage {
	return &SimPage{
		id:      entity.PageID(id),
		history: []entity.HistoryItem{{URL: startURL}},
	}
}

func (p *SimPage) ID() entity.PageID { return p.id }

func (p *SimPage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history[p.index].URL
}

func (p *SimPage) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// SetLoading flips the loading flag the chrome reads during scrolls.
func (p *SimPage) SetLoading(loading bool) {
	p.mu.Lock()
	p.loading = loading
	p.mu.Unlock()
}

func (p *SimPage) BackForward() port.BackForwardList { return (*simBackForward)(p) }

// Load truncates forward history and appends a new entry.
func (p *SimPage) Load(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history[:p.index+1], entity.HistoryItem{URL: url})
	p.index = len(p.history) - 1
	return nil
}

func (p *SimPage) GoBack(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index > 0 {
		p.index--
	}
	return nil
}

func (p *SimPage) GoForward(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index < len(p.history)-1 {
		p.index++
	}
	return nil
}

// History returns a copy of the history list and the current index.
func (p *SimPage) History() ([]entity.HistoryItem, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.HistoryItem(nil), p.history...), p.index
}

// simBackForward adapts SimPage's history slice to the port interface.
type simBackForward SimPage

func (b *simBackForward) item(offset int) *entity.HistoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index + offset
	if i < 0 || i >= len(b.history) {
		return nil
	}
	item := b.history[i]
	return &item
}

func (b *simBackForward) CurrentItem() *entity.HistoryItem { return b.item(0) }
func (b *simBackForward) BackItem() *entity.HistoryItem    { return b.item(-1) }
func (b *simBackForward) ForwardItem() *entity.HistoryItem { return b.item(1) }

// MemReadingList is an in-memory reading-list store for the simulator.
type MemReadingList struct {
	mu    sync.Mutex
	items map[string]port.ReadingListItem
}

// NewMemReadingList creates an empty store.
func NewMemReadingList() *MemReadingList {
	return &MemReadingList{items: map[string]port.ReadingListItem{}}
}

func (l *MemReadingList) Contains(_ context.Context, url string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.items[url]
	return ok, nil
}

func (l *MemReadingList) Add(_ context.Context, item port.ReadingListItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[item.URL] = item
	return nil
}

// Items returns the saved items in no particular order.
func (l *MemReadingList) Items() []port.ReadingListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]port.ReadingListItem, 0, len(l.items))
	for _, item := range l.items {
		items = append(items, item)
	}
	return items
}

// SimContainer is a single-subscriber page container over SimPages.
type SimContainer struct {
	mu         sync.Mutex
	pages      []*SimPage
	selected   *SimPage
	onSelected func(port.Page)
	onRemoved  func(entity.PageID)
}

// NewSimContainer creates an empty container.
func NewSimContainer() *SimContainer {
	return &SimContainer{}
}

func (c *SimContainer) SelectedPage() port.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	return c.selected
}

func (c *SimContainer) SetOnPageSelected(fn func(port.Page)) {
	c.mu.Lock()
	c.onSelected = fn
	c.mu.Unlock()
}

func (c *SimContainer) SetOnPageRemoved(fn func(entity.PageID)) {
	c.mu.Lock()
	c.onRemoved = fn
	c.mu.Unlock()
}

// AddPage registers and selects a page.
func (c *SimContainer) AddPage(p *SimPage) {
	c.mu.Lock()
	c.pages = append(c.pages, p)
	c.mu.Unlock()
	c.Select(p)
}

// Select makes p the selected page and notifies the subscriber.
func (c *SimContainer) Select(p *SimPage) {
	c.mu.Lock()
	c.selected = p
	fn := c.onSelected
	c.mu.Unlock()
	if fn != nil {
		if p == nil {
			fn(nil)
		} else {
			fn(p)
		}
	}
}

// Remove drops a page, selecting nil when it was selected.
func (c *SimContainer) Remove(id entity.PageID) {
	c.mu.Lock()
	for i, p := range c.pages {
		if p.ID() == id {
			c.pages = append(c.pages[:i], c.pages[i+1:]...)
			break
		}
	}
	wasSelected := c.selected != nil && c.selected.ID() == id
	removed := c.onRemoved
	c.mu.Unlock()

	if removed != nil {
		removed(id)
	}
	if wasSelected {
		c.Select(nil)
	}
}
