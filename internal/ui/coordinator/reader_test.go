package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/chromekit/internal/application/port"
	"github.com/bnema/chromekit/internal/cache"
	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/domain/url"
	"github.com/bnema/chromekit/internal/ui/animation"
	"github.com/bnema/chromekit/internal/ui/component"
	"github.com/bnema/chromekit/internal/ui/controller"
	"github.com/bnema/chromekit/internal/ui/layout"
	"github.com/bnema/chromekit/internal/ui/mainloop"
)

type fakeBackForward struct {
	current *entity.HistoryItem
	back    *entity.HistoryItem
	forward *entity.HistoryItem
}

func (f *fakeBackForward) CurrentItem() *entity.HistoryItem { return f.current }
func (f *fakeBackForward) BackItem() *entity.HistoryItem    { return f.back }
func (f *fakeBackForward) ForwardItem() *entity.HistoryItem { return f.forward }

type fakePage struct {
	mu sync.Mutex

	id      entity.PageID
	url     string
	loading bool
	bf      *fakeBackForward

	loadCalls    []string
	backCalls    int
	forwardCalls int
}

func newFakePage(id, pageURL string) *fakePage {
	return &fakePage{id: entity.PageID(id), url: pageURL, bf: &fakeBackForward{}}
}

func (p *fakePage) ID() entity.PageID { return p.id }

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *fakePage) BackForward() port.BackForwardList { return p.bf }

func (p *fakePage) Load(_ context.Context, target string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadCalls = append(p.loadCalls, target)
	p.url = target
	return nil
}

func (p *fakePage) GoBack(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backCalls++
	if p.bf.back != nil {
		p.url = p.bf.back.URL
	}
	return nil
}

func (p *fakePage) GoForward(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forwardCalls++
	if p.bf.forward != nil {
		p.url = p.bf.forward.URL
	}
	return nil
}

func (p *fakePage) navigationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.loadCalls) + p.backCalls + p.forwardCalls
}

type fakeContainer struct {
	mu         sync.Mutex
	selected   port.Page
	onSelected func(port.Page)
	onRemoved  func(entity.PageID)
}

func (f *fakeContainer) SelectedPage() port.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

func (f *fakeContainer) SetOnPageSelected(fn func(port.Page)) { f.onSelected = fn }
func (f *fakeContainer) SetOnPageRemoved(fn func(entity.PageID)) {
	f.onRemoved = fn
}

func (f *fakeContainer) selectPage(p port.Page) {
	f.mu.Lock()
	f.selected = p
	f.mu.Unlock()
	if f.onSelected != nil {
		f.onSelected(p)
	}
}

func (f *fakeContainer) removePage(id entity.PageID) {
	if f.onRemoved != nil {
		f.onRemoved(id)
	}
}

type fakeExtractor struct {
	mu      sync.Mutex
	result  *entity.ExtractedContent
	err     error
	calls   int
	blockCh chan struct{}
}

func (f *fakeExtractor) Extract(_ context.Context, pageURL string) (*entity.ExtractedContent, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockCh
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &entity.ExtractedContent{URL: pageURL, Title: "T", Content: "<p>c</p>", ExtractedAt: time.Now()}, nil
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStyleStore struct {
	mu    sync.Mutex
	style entity.ReaderStyle
	saves int
}

func (f *fakeStyleStore) ReaderStyle() entity.ReaderStyle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.style == (entity.ReaderStyle{}) {
		return entity.DefaultReaderStyle()
	}
	return f.style
}

func (f *fakeStyleStore) SaveReaderStyle(style entity.ReaderStyle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.style = style
	f.saves++
	return nil
}

type readerFixture struct {
	ctx       context.Context
	loop      *mainloop.Loop
	pages     *fakeContainer
	extractor *fakeExtractor
	cache     *cache.ExtractionCache
	chrome    *controller.ChromeController
	bar       *component.ReaderBar
	styles    *fakeStyleStore
	reader    *ReaderCoordinator
}

func newReaderFixture(t *testing.T) *readerFixture {
	t.Helper()
	ctx := context.Background()

	loop := mainloop.New()
	t.Cleanup(loop.Close)

	pages := &fakeContainer{}
	extractor := &fakeExtractor{}
	extractionCache := cache.NewExtractionCache(cache.NewMockExtractionStore(), 0)
	metrics := layout.Metrics{HeaderHeight: 44, FooterHeight: 44, StatusBarHeight: 20, ReaderBarHeight: 28}
	chrome := controller.NewChromeController(ctx, metrics, animation.Immediate{})
	bar := component.NewReaderBar(metrics.ReaderBarHeight)
	styles := &fakeStyleStore{}

	reader := NewReaderCoordinator(ctx, loop, pages, extractor, extractionCache, chrome, bar, styles)
	return &readerFixture{
		ctx: ctx, loop: loop, pages: pages, extractor: extractor,
		cache: extractionCache, chrome: chrome, bar: bar, styles: styles, reader: reader,
	}
}

// selectAvailablePage wires a page as selected and reports it Available.
func (f *readerFixture) selectAvailablePage(page *fakePage) {
	f.pages.selected = page
	f.reader.OnStateChanged(f.ctx, page, entity.ReaderAvailable)
}

func TestEnable_RequiresAvailableState(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.pages.selected = page

	err := f.reader.Enable(f.ctx, page)
	assert.ErrorIs(t, err, ErrReaderNotAvailable)
	assert.Zero(t, page.navigationCount())
}

func TestEnableReaderMode_NoActivePage(t *testing.T) {
	f := newReaderFixture(t)
	assert.ErrorIs(t, f.reader.EnableReaderMode(f.ctx), ErrNoActivePage)
	assert.ErrorIs(t, f.reader.DisableReaderMode(f.ctx), ErrNoActivePage)
}

func TestEnable_TraversesBackToExistingReaderEntry(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	page.bf.back = &entity.HistoryItem{URL: url.EncodeReader("https://example.com/a")}
	f.selectAvailablePage(page)

	require.NoError(t, f.reader.Enable(f.ctx, page))

	assert.Equal(t, 1, page.backCalls)
	assert.Empty(t, page.loadCalls, "traversal must not create a history entry")
	assert.Equal(t, entity.ReaderActive, f.reader.StateFor(page.ID()))
	assert.Equal(t, entity.ReaderActive, f.bar.State())
	assert.Zero(t, f.extractor.callCount())
}

func TestEnable_TraversesForwardToExistingReaderEntry(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	page.bf.forward = &entity.HistoryItem{URL: url.EncodeReader("https://example.com/a")}
	f.selectAvailablePage(page)

	require.NoError(t, f.reader.Enable(f.ctx, page))

	assert.Equal(t, 1, page.forwardCalls)
	assert.Empty(t, page.loadCalls)
	assert.Equal(t, entity.ReaderActive, f.reader.StateFor(page.ID()))
}

func TestEnable_UsesCachedExtraction(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.selectAvailablePage(page)

	f.cache.Set(f.ctx, &entity.ExtractedContent{URL: "https://example.com/a", Title: "A", ExtractedAt: time.Now()})

	require.NoError(t, f.reader.Enable(f.ctx, page))

	require.Len(t, page.loadCalls, 1)
	assert.Equal(t, url.EncodeReader("https://example.com/a"), page.loadCalls[0])
	assert.Zero(t, f.extractor.callCount(), "cached content skips extraction")
	assert.Equal(t, entity.ReaderActive, f.reader.StateFor(page.ID()))
}

func TestEnable_ExtractsThenNavigates(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.selectAvailablePage(page)

	require.NoError(t, f.reader.Enable(f.ctx, page))

	require.Eventually(t, func() bool {
		return page.navigationCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{url.EncodeReader("https://example.com/a")}, page.loadCalls)
	assert.Equal(t, entity.ReaderActive, f.reader.StateFor(page.ID()))

	cached, ok := f.cache.Get("https://example.com/a")
	require.True(t, ok)
	assert.False(t, cached.Failed())
}

func TestEnable_ExtractionFailureLeavesStateAndNavigation(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.selectAvailablePage(page)
	f.extractor.err = errors.New("no readable content")

	var mu sync.Mutex
	var failedURL string
	f.reader.SetOnExtractionFailed(func(pageURL string, err error) {
		mu.Lock()
		failedURL = pageURL
		mu.Unlock()
	})

	require.NoError(t, f.reader.Enable(f.ctx, page))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return failedURL != ""
	}, 2*time.Second, 5*time.Millisecond)

	assert.Zero(t, page.navigationCount(), "failed extraction performs no navigation")
	assert.Equal(t, entity.ReaderAvailable, f.reader.StateFor(page.ID()))

	cached, ok := f.cache.Get("https://example.com/a")
	require.True(t, ok)
	assert.True(t, cached.Failed(), "failed attempts are recorded")
}

func TestEnable_SkipsNavigationWhenPageMovedAway(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.selectAvailablePage(page)

	gate := make(chan struct{})
	f.extractor.blockCh = gate

	require.NoError(t, f.reader.Enable(f.ctx, page))

	// User navigates elsewhere while extraction is in flight.
	page.mu.Lock()
	page.url = "https://example.com/other"
	page.mu.Unlock()
	close(gate)

	require.Eventually(t, func() bool {
		_, ok := f.cache.Get("https://example.com/a")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	f.loop.PostWait(func() {})
	assert.Zero(t, page.navigationCount(), "late extraction must not hijack navigation")
	assert.Equal(t, entity.ReaderAvailable, f.reader.StateFor(page.ID()))
}

func TestDisable_RequiresReaderURL(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.pages.selected = page

	assert.ErrorIs(t, f.reader.Disable(f.ctx, page), ErrNotReaderURL)
	assert.Zero(t, page.navigationCount())
}

func TestDisable_TraversesBackToOriginalEntry(t *testing.T) {
	// History [A, reader(A)] with current reader(A): leaving reader
	// mode reuses the existing A entry instead of loading fresh.
	f := newReaderFixture(t)
	page := newFakePage("p1", url.EncodeReader("https://example.com/a"))
	page.bf.back = &entity.HistoryItem{URL: "https://example.com/a"}
	f.selectAvailablePage(page)

	require.NoError(t, f.reader.Disable(f.ctx, page))

	assert.Equal(t, 1, page.backCalls)
	assert.Empty(t, page.loadCalls, "no new history entry on traversal")
	assert.Equal(t, entity.ReaderAvailable, f.reader.StateFor(page.ID()))
	assert.False(t, f.chrome.ReaderBarVisible())
}

func TestDisable_TraversesForwardToOriginalEntry(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", url.EncodeReader("https://example.com/a"))
	page.bf.forward = &entity.HistoryItem{URL: "https://example.com/a"}
	f.selectAvailablePage(page)

	require.NoError(t, f.reader.Disable(f.ctx, page))

	assert.Equal(t, 1, page.forwardCalls)
	assert.Empty(t, page.loadCalls)
}

func TestDisable_FreshLoadWhenNoAdjacentMatch(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", url.EncodeReader("https://example.com/a"))
	f.selectAvailablePage(page)

	require.NoError(t, f.reader.Disable(f.ctx, page))

	require.Len(t, page.loadCalls, 1, "exactly one fresh navigation")
	assert.Equal(t, "https://example.com/a", page.loadCalls[0])
	assert.Zero(t, page.backCalls)
	assert.Zero(t, page.forwardCalls)
}

func TestOnStateChanged_PropagatesOnlyForSelectedPage(t *testing.T) {
	f := newReaderFixture(t)
	selected := newFakePage("p1", "https://example.com/a")
	background := newFakePage("p2", "https://example.com/b")
	f.pages.selected = selected

	f.reader.OnStateChanged(f.ctx, background, entity.ReaderAvailable)
	assert.False(t, f.bar.IsVisible(), "background page state is deferred")

	f.reader.OnStateChanged(f.ctx, selected, entity.ReaderAvailable)
	assert.True(t, f.bar.IsVisible())
	assert.Equal(t, entity.ReaderAvailable, f.reader.StateFor(background.ID()))
}

func TestPageSelected_RequeriesStoredState(t *testing.T) {
	f := newReaderFixture(t)
	p1 := newFakePage("p1", "https://example.com/a")
	p2 := newFakePage("p2", "https://example.com/b")
	f.pages.selected = p1
	f.reader.OnStateChanged(f.ctx, p1, entity.ReaderAvailable)
	f.reader.OnStateChanged(f.ctx, p2, entity.ReaderUnavailable)

	f.pages.selected = p2
	f.reader.PageSelected(f.ctx, p2)
	assert.False(t, f.bar.IsVisible())

	f.pages.selected = p1
	f.reader.PageSelected(f.ctx, p1)
	assert.True(t, f.bar.IsVisible())

	f.reader.PageSelected(f.ctx, nil)
	assert.False(t, f.bar.IsVisible())
}

func TestPageRemoved_DropsState(t *testing.T) {
	f := newReaderFixture(t)
	page := newFakePage("p1", "https://example.com/a")
	f.pages.selected = page
	f.reader.OnStateChanged(f.ctx, page, entity.ReaderAvailable)

	f.reader.PageRemoved(page.ID())
	assert.Equal(t, entity.ReaderUnavailable, f.reader.StateFor(page.ID()))
}

func TestOnStyleChanged_PersistsAndAppliesToActivePages(t *testing.T) {
	f := newReaderFixture(t)
	active := newFakePage("p1", url.EncodeReader("https://example.com/a"))
	idle := newFakePage("p2", "https://example.com/b")
	f.pages.selected = active
	f.reader.OnStateChanged(f.ctx, active, entity.ReaderActive)
	f.reader.OnStateChanged(f.ctx, idle, entity.ReaderAvailable)

	var mu sync.Mutex
	applied := map[entity.PageID]entity.ReaderStyle{}
	f.reader.SetOnStyleApplied(func(id entity.PageID, style entity.ReaderStyle) {
		mu.Lock()
		applied[id] = style
		mu.Unlock()
	})

	style := entity.ReaderStyle{FontFamily: "serif", FontSize: 18, Theme: entity.ReaderThemeSepia}
	require.NoError(t, f.reader.OnStyleChanged(f.ctx, style))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, applied, 1, "style applies to Active pages only")
	assert.Equal(t, style, applied[active.ID()])
	assert.Equal(t, style, f.styles.style)
	assert.Equal(t, style, f.reader.Style())
}

func TestOnStyleChanged_NormalizesFontSize(t *testing.T) {
	f := newReaderFixture(t)

	require.NoError(t, f.reader.OnStyleChanged(f.ctx, entity.ReaderStyle{
		FontFamily: "serif",
		FontSize:   99,
		Theme:      entity.ReaderThemeDark,
	}))

	assert.Equal(t, entity.ReaderFontSizeMax, f.reader.Style().FontSize)
}
