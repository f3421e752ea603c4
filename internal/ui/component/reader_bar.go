package component

import (
	"context"
	"sync"

	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/logging"
)

// ReaderBar is the reading-mode affordance: a secondary chrome row shown
// while reading mode is available or active for the selected page.
// Toggling it asks the reader coordinator to enter or leave reading mode.
type ReaderBar struct {
	mu      sync.Mutex
	height  float64
	state   entity.ReaderState
	visible bool

	onToggle     func(ctx context.Context, activate bool)
	onVisibility func(visible bool)
}

// NewReaderBar creates a hidden affordance bar of the given height.
func NewReaderBar(height float64) *ReaderBar {
	return &ReaderBar{height: height}
}

// Height returns the bar's fixed height.
func (r *ReaderBar) Height() float64 {
	return r.height
}

// SetOnToggle registers the coordinator callback for user toggles.
func (r *ReaderBar) SetOnToggle(fn func(ctx context.Context, activate bool)) {
	r.mu.Lock()
	r.onToggle = fn
	r.mu.Unlock()
}

// SetOnVisibilityChanged registers a rendering callback.
func (r *ReaderBar) SetOnVisibilityChanged(fn func(visible bool)) {
	r.mu.Lock()
	r.onVisibility = fn
	r.mu.Unlock()
}

// SetState updates the bar for the selected page's reader state: hidden
// when unavailable, shown otherwise.
func (r *ReaderBar) SetState(ctx context.Context, state entity.ReaderState) {
	r.mu.Lock()
	r.state = state
	wasVisible := r.visible
	r.visible = state != entity.ReaderUnavailable
	changed := wasVisible != r.visible
	notify := r.onVisibility
	visible := r.visible
	r.mu.Unlock()

	if changed && notify != nil {
		notify(visible)
	}
	logging.FromContext(ctx).Debug().Stringer("reader_state", state).Msg("reader bar state updated")
}

// State returns the state the bar currently reflects.
func (r *ReaderBar) State() entity.ReaderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsVisible reports whether the affordance is shown.
func (r *ReaderBar) IsVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

// Toggle requests entering reading mode when available, or leaving it
// when active. No-op when unavailable.
func (r *ReaderBar) Toggle(ctx context.Context) {
	r.mu.Lock()
	state := r.state
	fn := r.onToggle
	r.mu.Unlock()

	if fn == nil {
		return
	}
	switch state {
	case entity.ReaderAvailable:
		fn(ctx, true)
	case entity.ReaderActive:
		fn(ctx, false)
	}
}
