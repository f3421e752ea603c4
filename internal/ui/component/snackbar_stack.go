// Package component provides the chrome UI components: the snackbar
// stack anchored above the bottom toolbar and the reading-mode
// affordance bar.
package component

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/ui/animation"
)

// Snackbar is a transient dismissible bar. Bars are created by external
// collaborators (download completion, form-fill prompts) and pushed onto
// the stack in arrival order.
type Snackbar struct {
	ID     string
	Height float64

	// hidden is set only during the entrance/exit animation window.
	hidden bool
	// translation is rendered state: the offset from the bar's model
	// position. Identity (0) outside animation windows.
	translation float64
}

// NewSnackbar creates a bar with a fresh identity.
func NewSnackbar(height float64) *Snackbar {
	return &Snackbar{
		ID:     uuid.NewString(),
		Height: height,
		hidden: true,
	}
}

// Anchor describes where a bar sits in the chain: directly above the bar
// named by BelowID, or above the fixed toolbar when BelowID is empty.
type Anchor struct {
	BarID   string
	BelowID string
	Top     float64
}

// Layout is the stack's emitted layout state. FooterTop always equals
// the top edge of the topmost currently-visible bar, or the toolbar's
// top when no bars are visible.
type Layout struct {
	Anchors   []Anchor
	FooterTop float64
}

// SnackbarStack owns the ordered stack of active snackbars and their
// vertical chaining above the bottom toolbar. Model state (stack order,
// anchors) mutates atomically per call; animations catch up visually and
// never feed back into the model.
type SnackbarStack struct {
	mu         sync.Mutex
	toolbarTop float64
	animator   animation.Animator

	bars    []*Snackbar // logical stack, index 0 = bottommost
	closing []*Snackbar // popped, exit animation still running

	onLayout []func(Layout)
}

// NewSnackbarStack creates an empty stack. toolbarTop is the fixed
// bottom toolbar's top edge; the stack grows upward from it.
func NewSnackbarStack(ctx context.Context, toolbarTop float64, animator animation.Animator) *SnackbarStack {
	logging.FromContext(ctx).Debug().Float64("toolbar_top", toolbarTop).Msg("creating snackbar stack")
	return &SnackbarStack{
		toolbarTop: toolbarTop,
		animator:   animator,
	}
}

// OnLayoutChanged registers a rendering callback for stack layout.
func (s *SnackbarStack) OnLayoutChanged(fn func(Layout)) {
	s.mu.Lock()
	s.onLayout = append(s.onLayout, fn)
	s.mu.Unlock()
}

// Push appends bar to the stack: anchored above the previous last bar
// (or the toolbar when first), inserted hidden, then animated to shown.
// The footer grows to wrap the new topmost bar.
func (s *SnackbarStack) Push(ctx context.Context, bar *Snackbar) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	bar.hidden = true
	bar.translation = bar.Height // rises from behind the toolbar row
	s.bars = append(s.bars, bar)
	layoutSnapshot := s.layoutLocked()
	s.mu.Unlock()

	s.emit(layoutSnapshot)
	log.Debug().Str("bar_id", bar.ID).Float64("height", bar.Height).Msg("snackbar pushed")

	s.animator.Animate("snackbar.enter."+bar.ID, bar.Height, 0, func(v float64) {
		s.mu.Lock()
		bar.translation = v
		s.mu.Unlock()
	}, func(finished bool) {
		s.mu.Lock()
		if finished {
			bar.hidden = false
			bar.translation = 0
		}
		s.mu.Unlock()
	})
}

// Pop removes bar by identity, from any position. The model re-chains
// immediately: the neighbor above re-anchors to the bar below the
// removed one (toolbar if it was bottommost). Visually the removed bar
// slides toward hidden while every bar above translates down by its
// height in lock-step; on completion transforms reset to identity, the
// bar detaches, and the footer shrinks to the new top.
// Popping an unknown bar is a reported fault and a state-preserving
// no-op.
func (s *SnackbarStack) Pop(ctx context.Context, barID string) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	idx := -1
	for i, b := range s.bars {
		if b.ID == barID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		log.Error().Str("bar_id", barID).Msg("pop of bar not in stack")
		return
	}

	bar := s.bars[idx]
	above := make([]*Snackbar, len(s.bars)-idx-1)
	copy(above, s.bars[idx+1:])

	s.bars = append(s.bars[:idx], s.bars[idx+1:]...)
	bar.hidden = true
	s.closing = append(s.closing, bar)

	// Bars above now sit lower in the model; start them translated back
	// at their old position so the animation closes the gap visually.
	for _, b := range above {
		b.translation = -bar.Height
	}
	layoutSnapshot := s.layoutLocked()
	s.mu.Unlock()

	s.emit(layoutSnapshot)
	log.Debug().Str("bar_id", barID).Int("index", idx).Msg("snackbar popped")

	s.animator.Animate("snackbar.exit."+bar.ID, 0, bar.Height, func(v float64) {
		s.mu.Lock()
		bar.translation = v
		s.mu.Unlock()
	}, func(bool) {
		s.detach(ctx, bar)
	})
	if len(above) > 0 {
		s.animator.Animate("snackbar.reflow."+bar.ID, -bar.Height, 0, func(v float64) {
			s.mu.Lock()
			for _, b := range above {
				b.translation = v
			}
			s.mu.Unlock()
		}, func(finished bool) {
			s.mu.Lock()
			for _, b := range above {
				b.translation = 0
			}
			s.mu.Unlock()
		})
	}
}

// detach removes a closed bar and shrinks the footer to the new top.
func (s *SnackbarStack) detach(ctx context.Context, bar *Snackbar) {
	s.mu.Lock()
	for i, b := range s.closing {
		if b == bar {
			s.closing = append(s.closing[:i], s.closing[i+1:]...)
			break
		}
	}
	layoutSnapshot := s.layoutLocked()
	s.mu.Unlock()

	s.emit(layoutSnapshot)
	logging.FromContext(ctx).Debug().Str("bar_id", bar.ID).Msg("snackbar detached")
}

// DetachAll removes every active bar from the stack without ending its
// lifecycle and returns them in arrival order. In-flight animations are
// cancelled and transforms reset; bars still closing are discarded since
// their pop already happened. Used when the visible stack is swapped for
// another page's stack.
func (s *SnackbarStack) DetachAll(ctx context.Context) []*Snackbar {
	s.mu.Lock()
	for _, b := range s.bars {
		s.animator.Cancel("snackbar.enter." + b.ID)
		b.hidden = false
		b.translation = 0
	}
	for _, b := range s.closing {
		s.animator.Cancel("snackbar.exit." + b.ID)
		s.animator.Cancel("snackbar.reflow." + b.ID)
	}
	detached := s.bars
	s.bars = nil
	s.closing = nil
	layoutSnapshot := s.layoutLocked()
	s.mu.Unlock()

	s.emit(layoutSnapshot)
	logging.FromContext(ctx).Debug().Int("count", len(detached)).Msg("snackbar stack detached")
	return detached
}

// Attach restores a previously detached stack in arrival order, shown
// immediately with no entrance animation. The footer grows to wrap the
// restored topmost bar.
func (s *SnackbarStack) Attach(ctx context.Context, bars []*Snackbar) {
	if len(bars) == 0 {
		return
	}

	s.mu.Lock()
	for _, b := range bars {
		b.hidden = false
		b.translation = 0
		s.bars = append(s.bars, b)
	}
	layoutSnapshot := s.layoutLocked()
	s.mu.Unlock()

	s.emit(layoutSnapshot)
	logging.FromContext(ctx).Debug().Int("count", len(bars)).Msg("snackbar stack attached")
}

// ClearAll detaches every bar immediately, without animation, and
// shrinks the footer to the toolbar top. Ends every bar's lifecycle.
func (s *SnackbarStack) ClearAll(ctx context.Context) {
	s.mu.Lock()
	for _, b := range s.bars {
		s.animator.Cancel("snackbar.enter." + b.ID)
	}
	for _, b := range s.closing {
		s.animator.Cancel("snackbar.exit." + b.ID)
		s.animator.Cancel("snackbar.reflow." + b.ID)
	}
	s.bars = nil
	s.closing = nil
	layoutSnapshot := s.layoutLocked()
	s.mu.Unlock()

	s.emit(layoutSnapshot)
	logging.FromContext(ctx).Debug().Msg("snackbar stack cleared")
}

// Bars returns the logical stack in arrival order, bottommost first.
func (s *SnackbarStack) Bars() []*Snackbar {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Snackbar, len(s.bars))
	copy(out, s.bars)
	return out
}

// FooterTop returns the current footer container top edge.
func (s *SnackbarStack) FooterTop() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.footerTopLocked()
}

// Layout returns the current layout snapshot.
func (s *SnackbarStack) Layout() Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layoutLocked()
}

// footerTopLocked wraps the topmost visible bar: bars still closing
// keep the footer extended until their exit animation detaches them.
func (s *SnackbarStack) footerTopLocked() float64 {
	top := s.toolbarTop
	for _, b := range s.bars {
		top -= b.Height
	}
	for _, b := range s.closing {
		top -= b.Height
	}
	return top
}

func (s *SnackbarStack) layoutLocked() Layout {
	anchors := make([]Anchor, 0, len(s.bars))
	bottom := s.toolbarTop
	belowID := ""
	for _, b := range s.bars {
		top := bottom - b.Height
		anchors = append(anchors, Anchor{BarID: b.ID, BelowID: belowID, Top: top})
		bottom = top
		belowID = b.ID
	}
	return Layout{Anchors: anchors, FooterTop: s.footerTopLocked()}
}

func (s *SnackbarStack) emit(l Layout) {
	s.mu.Lock()
	subs := make([]func(Layout), len(s.onLayout))
	copy(subs, s.onLayout)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(l)
	}
}

// IsHidden reports whether the bar is inside an animation window.
func (s *SnackbarStack) IsHidden(bar *Snackbar) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bar.hidden
}

// Translation returns the bar's rendered offset from its model position.
func (s *SnackbarStack) Translation(bar *Snackbar) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bar.translation
}
