// Package controller owns scroll-driven chrome visibility: header and
// footer offsets, their derived opacity, and the content insets that keep
// page content clear of the chrome.
package controller

import (
	"context"
	"sync"

	"github.com/bnema/chromekit/internal/application/port"
	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/ui/animation"
	"github.com/bnema/chromekit/internal/ui/layout"
)

// Animation targets; one per chrome element so an in-flight reveal or
// hide is superseded, never stacked.
const (
	targetHeader = "chrome.header"
	targetFooter = "chrome.footer"
)

// Point is a scroll position or gesture velocity. Y grows toward the
// document end; a negative velocity Y means content moving toward the
// document start.
type Point struct {
	X float64
	Y float64
}

// Offsets is a rendered chrome snapshot. Alpha values are always derived
// from the same progress value as the offsets, so translation and opacity
// cannot disagree mid-gesture.
type Offsets struct {
	Header      float64
	Footer      float64
	HeaderAlpha float64
	FooterAlpha float64
}

// ChromeController translates drag gestures into header/footer offsets.
// All operations run on the owner task; the mutex guards the accessors
// used by rendering callbacks.
type ChromeController struct {
	mu       sync.Mutex
	metrics  layout.Metrics
	animator animation.Animator

	page port.Page // non-owning; nil when no page is active

	// Intent state: the source of truth.
	headerOffset float64
	footerOffset float64
	lastScroll   *Point
	insets       layout.Insets

	// Rendered state: follows intent, possibly behind an animation.
	renderedHeader float64
	renderedFooter float64

	// Inset feedback: an inset change moves the page content, which shows
	// up again as scroll movement. The correction cancels it out of the
	// next delta so it never double-counts as user scroll.
	insetCorrection float64

	// Reading-mode affordance bar row.
	readerActive     bool
	readerBarVisible bool

	onOffsets []func(Offsets)
	onInsets  []func(layout.Insets)
}

// NewChromeController creates a controller with fully revealed chrome.
func NewChromeController(ctx context.Context, metrics layout.Metrics, animator animation.Animator) *ChromeController {
	log := logging.FromContext(ctx)
	log.Debug().
		Float64("header_height", metrics.HeaderHeight).
		Float64("footer_height", metrics.FooterHeight).
		Msg("creating chrome controller")

	c := &ChromeController{
		metrics:  metrics,
		animator: animator,
	}
	c.insets = layout.ComputeInsets(metrics, 0, 0, false)
	return c
}

// OnOffsetsChanged registers a rendering callback for chrome offsets.
func (c *ChromeController) OnOffsetsChanged(fn func(Offsets)) {
	c.mu.Lock()
	c.onOffsets = append(c.onOffsets, fn)
	c.mu.Unlock()
}

// OnInsetsChanged registers a callback for content inset changes.
func (c *ChromeController) OnInsetsChanged(fn func(layout.Insets)) {
	c.mu.Lock()
	c.onInsets = append(c.onInsets, fn)
	c.mu.Unlock()
}

// SetActivePage switches the controller to a newly selected page: offsets
// reset to fully revealed, any drag in progress is discarded, and insets
// are recomputed for the new page. A nil page parks the controller.
func (c *ChromeController) SetActivePage(ctx context.Context, page port.Page) {
	log := logging.FromContext(ctx)

	c.animator.Cancel(targetHeader)
	c.animator.Cancel(targetFooter)

	c.mu.Lock()
	c.page = page
	c.lastScroll = nil
	c.insetCorrection = 0
	c.headerOffset = 0
	c.footerOffset = 0
	c.renderedHeader = 0
	c.renderedFooter = 0
	c.readerActive = false
	c.readerBarVisible = false
	c.recomputeInsetsLocked()
	offsets, insets := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(offsets, insets)
	if page != nil {
		log.Debug().Str("page_id", string(page.ID())).Msg("chrome reset for selected page")
	}
}

// SetReaderMode marks whether the active page is in reading mode. The
// affordance bar row joins the inset calculation only while the chrome
// is revealed; ForceReveal restores it.
func (c *ChromeController) SetReaderMode(ctx context.Context, active bool) {
	c.mu.Lock()
	c.readerActive = active
	c.readerBarVisible = active && c.headerOffset == 0
	c.applyInsetChangeLocked()
	offsets, insets := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(offsets, insets)
	logging.FromContext(ctx).Debug().Bool("reader_active", active).Msg("reader affordance updated")
}

// BeginDrag records the gesture start position. Idempotent.
func (c *ChromeController) BeginDrag(pos Point) {
	c.mu.Lock()
	p := pos
	c.lastScroll = &p
	c.mu.Unlock()
}

// OnScroll applies one scroll movement to the chrome offsets. No-op when
// no drag is in progress or the page is loading: chrome must not move
// while content streams in, and programmatic inset changes reset scroll
// positions that would otherwise register as gestures.
func (c *ChromeController) OnScroll(ctx context.Context, pos Point) {
	c.mu.Lock()
	if c.lastScroll == nil || c.page == nil || c.page.IsLoading() {
		c.mu.Unlock()
		return
	}

	delta := c.lastScroll.Y - pos.Y
	p := pos
	c.lastScroll = &p

	// Cancel out the content movement caused by the previous inset change.
	delta += c.insetCorrection
	c.insetCorrection = 0

	c.headerOffset = layout.Clamp(c.headerOffset+delta, -c.metrics.HeaderHeight, 0)
	c.footerOffset = layout.Clamp(c.footerOffset-delta, 0, c.metrics.FooterHeight)
	c.renderedHeader = c.headerOffset
	c.renderedFooter = c.footerOffset
	c.readerBarVisible = c.readerActive && c.headerOffset == 0
	c.applyInsetChangeLocked()

	offsets, insets := c.snapshotLocked()
	c.mu.Unlock()

	// A live gesture supersedes any in-flight reveal/hide animation.
	c.animator.Cancel(targetHeader)
	c.animator.Cancel(targetFooter)

	c.emit(offsets, insets)
	logging.FromContext(ctx).Trace().
		Float64("header", offsets.Header).
		Float64("footer", offsets.Footer).
		Msg("scroll applied")
}

// EndDrag ends the gesture and makes the single discrete show/hide
// decision: reveal when the content moved toward the document start or
// the header is at least half collapsed, hide otherwise. While the page
// is loading no decision is made.
func (c *ChromeController) EndDrag(ctx context.Context, velocity Point) {
	c.mu.Lock()
	c.lastScroll = nil
	if c.page == nil || c.page.IsLoading() {
		c.mu.Unlock()
		return
	}
	collapsed := 0.0
	if c.metrics.HeaderHeight > 0 {
		collapsed = -c.headerOffset / c.metrics.HeaderHeight
	}
	c.mu.Unlock()

	if velocity.Y < 0 || collapsed >= 0.5 {
		c.ForceReveal(ctx)
	} else {
		c.ForceHide(ctx)
	}
}

// OnReachTop re-shows the chrome; scrolling back to the document origin
// always reveals.
func (c *ChromeController) OnReachTop(ctx context.Context) {
	c.ForceReveal(ctx)
}

// ForceReveal animates both bars fully on screen. Insets are recomputed
// against the final state immediately, and the reader affordance row is
// restored when the page is in reading mode.
func (c *ChromeController) ForceReveal(ctx context.Context) {
	c.mu.Lock()
	fromHeader := c.renderedHeader
	fromFooter := c.renderedFooter
	c.headerOffset = 0
	c.footerOffset = 0
	c.readerBarVisible = c.readerActive
	c.applyInsetChangeLocked()
	_, insets := c.snapshotLocked()
	c.mu.Unlock()

	c.emitInsets(insets)
	c.animateTo(fromHeader, fromFooter, 0, 0)
	logging.FromContext(ctx).Debug().Msg("chrome reveal")
}

// ForceHide animates both bars off screen and drops the affordance row
// from the inset calculation.
func (c *ChromeController) ForceHide(ctx context.Context) {
	c.mu.Lock()
	fromHeader := c.renderedHeader
	fromFooter := c.renderedFooter
	c.headerOffset = -c.metrics.HeaderHeight
	c.footerOffset = c.metrics.FooterHeight
	c.readerBarVisible = false
	c.applyInsetChangeLocked()
	_, insets := c.snapshotLocked()
	toHeader := c.headerOffset
	toFooter := c.footerOffset
	c.mu.Unlock()

	c.emitInsets(insets)
	c.animateTo(fromHeader, fromFooter, toHeader, toFooter)
	logging.FromContext(ctx).Debug().Msg("chrome hide")
}

// Offsets returns the current rendered chrome snapshot.
func (c *ChromeController) Offsets() Offsets {
	c.mu.Lock()
	defer c.mu.Unlock()
	offsets, _ := c.snapshotLocked()
	return offsets
}

// Insets returns the current content insets.
func (c *ChromeController) Insets() layout.Insets {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insets
}

// IsDragging reports whether a drag gesture is in progress.
func (c *ChromeController) IsDragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastScroll != nil
}

// ReaderBarVisible reports whether the affordance bar row currently
// participates in the inset calculation.
func (c *ChromeController) ReaderBarVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readerBarVisible
}

func (c *ChromeController) recomputeInsetsLocked() {
	c.insets = layout.ComputeInsets(c.metrics, c.headerOffset, c.footerOffset, c.readerBarVisible)
}

// applyInsetChangeLocked recomputes insets and, while a drag is in
// progress, accumulates the feedback term consumed by the next OnScroll.
func (c *ChromeController) applyInsetChangeLocked() {
	oldTop := c.insets.Top
	c.recomputeInsetsLocked()
	if c.lastScroll != nil {
		c.insetCorrection += oldTop - c.insets.Top
	}
}

func (c *ChromeController) snapshotLocked() (Offsets, layout.Insets) {
	return Offsets{
		Header:      c.renderedHeader,
		Footer:      c.renderedFooter,
		HeaderAlpha: layout.Progress(c.renderedHeader, c.metrics.HeaderHeight),
		FooterAlpha: layout.Progress(c.renderedFooter, c.metrics.FooterHeight),
	}, c.insets
}

func (c *ChromeController) animateTo(fromHeader, fromFooter, toHeader, toFooter float64) {
	c.animator.Animate(targetHeader, fromHeader, toHeader, func(v float64) {
		c.mu.Lock()
		c.renderedHeader = v
		offsets, _ := c.snapshotLocked()
		c.mu.Unlock()
		c.emitOffsets(offsets)
	}, nil)
	c.animator.Animate(targetFooter, fromFooter, toFooter, func(v float64) {
		c.mu.Lock()
		c.renderedFooter = v
		offsets, _ := c.snapshotLocked()
		c.mu.Unlock()
		c.emitOffsets(offsets)
	}, nil)
}

func (c *ChromeController) emit(offsets Offsets, insets layout.Insets) {
	c.emitOffsets(offsets)
	c.emitInsets(insets)
}

func (c *ChromeController) emitOffsets(offsets Offsets) {
	c.mu.Lock()
	subs := make([]func(Offsets), len(c.onOffsets))
	copy(subs, c.onOffsets)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(offsets)
	}
}

func (c *ChromeController) emitInsets(insets layout.Insets) {
	c.mu.Lock()
	subs := make([]func(layout.Insets), len(c.onInsets))
	copy(subs, c.onInsets)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(insets)
	}
}
