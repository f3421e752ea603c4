package component

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/chromekit/internal/ui/animation"
)

const testToolbarTop = 600.0

func newTestStack(t *testing.T) (*SnackbarStack, context.Context) {
	t.Helper()
	ctx := context.Background()
	return NewSnackbarStack(ctx, testToolbarTop, animation.Immediate{}), ctx
}

func anchorByID(t *testing.T, l Layout, barID string) Anchor {
	t.Helper()
	for _, a := range l.Anchors {
		if a.BarID == barID {
			return a
		}
	}
	t.Fatalf("anchor for %s not found", barID)
	return Anchor{}
}

func TestSnackbarStack_PushChainsAnchorsUpward(t *testing.T) {
	stack, ctx := newTestStack(t)

	b1 := NewSnackbar(48)
	b2 := NewSnackbar(56)
	b3 := NewSnackbar(48)
	stack.Push(ctx, b1)
	stack.Push(ctx, b2)
	stack.Push(ctx, b3)

	l := stack.Layout()
	require.Len(t, l.Anchors, 3)

	a1 := anchorByID(t, l, b1.ID)
	a2 := anchorByID(t, l, b2.ID)
	a3 := anchorByID(t, l, b3.ID)

	assert.Empty(t, a1.BelowID, "bottom bar anchors to the toolbar")
	assert.Equal(t, b1.ID, a2.BelowID)
	assert.Equal(t, b2.ID, a3.BelowID)

	assert.InDelta(t, testToolbarTop-48, a1.Top, 1e-9)
	assert.InDelta(t, a1.Top-56, a2.Top, 1e-9)
	assert.InDelta(t, a2.Top-48, a3.Top, 1e-9)

	assert.InDelta(t, a3.Top, l.FooterTop, 1e-9, "footer wraps the topmost bar")
}

func TestSnackbarStack_PushAnimatesEnter(t *testing.T) {
	stack, ctx := newTestStack(t)

	b := NewSnackbar(48)
	stack.Push(ctx, b)

	// Immediate animator completes the slide synchronously.
	assert.False(t, stack.IsHidden(b))
	assert.InDelta(t, 0, stack.Translation(b), 1e-9)
}

func TestSnackbarStack_PopMiddleReanchorsAbove(t *testing.T) {
	stack, ctx := newTestStack(t)

	b1 := NewSnackbar(48)
	b2 := NewSnackbar(56)
	b3 := NewSnackbar(48)
	stack.Push(ctx, b1)
	stack.Push(ctx, b2)
	stack.Push(ctx, b3)

	stack.Pop(ctx, b2.ID)

	l := stack.Layout()
	require.Len(t, l.Anchors, 2)

	a3 := anchorByID(t, l, b3.ID)
	assert.Equal(t, b1.ID, a3.BelowID, "bar above a removed bar re-anchors to the one below it")
	assert.InDelta(t, testToolbarTop-48-48, a3.Top, 1e-9)
	assert.InDelta(t, a3.Top, l.FooterTop, 1e-9)

	bars := stack.Bars()
	require.Len(t, bars, 2)
	assert.Equal(t, b1.ID, bars[0].ID)
	assert.Equal(t, b3.ID, bars[1].ID)
}

func TestSnackbarStack_PopOnlyBarRestoresFooter(t *testing.T) {
	stack, ctx := newTestStack(t)

	b := NewSnackbar(48)
	stack.Push(ctx, b)
	require.InDelta(t, testToolbarTop-48, stack.FooterTop(), 1e-9)

	stack.Pop(ctx, b.ID)

	l := stack.Layout()
	assert.Empty(t, l.Anchors)
	assert.InDelta(t, testToolbarTop, l.FooterTop, 1e-9, "footer shrinks back to the toolbar")
}

func TestSnackbarStack_PopUnknownBarIsNoOp(t *testing.T) {
	stack, ctx := newTestStack(t)

	b1 := NewSnackbar(48)
	stack.Push(ctx, b1)
	before := stack.Layout()

	stack.Pop(ctx, "no-such-bar")

	after := stack.Layout()
	assert.Equal(t, before, after)
}

func TestSnackbarStack_ClearAll(t *testing.T) {
	stack, ctx := newTestStack(t)

	stack.Push(ctx, NewSnackbar(48))
	stack.Push(ctx, NewSnackbar(56))

	stack.ClearAll(ctx)

	l := stack.Layout()
	assert.Empty(t, l.Anchors)
	assert.InDelta(t, testToolbarTop, l.FooterTop, 1e-9)
	assert.Empty(t, stack.Bars())
}

func TestSnackbarStack_DetachAllPreservesBarsForReattach(t *testing.T) {
	stack, ctx := newTestStack(t)

	b1 := NewSnackbar(48)
	b2 := NewSnackbar(56)
	stack.Push(ctx, b1)
	stack.Push(ctx, b2)

	detached := stack.DetachAll(ctx)
	require.Len(t, detached, 2)
	assert.Equal(t, b1.ID, detached[0].ID)
	assert.Equal(t, b2.ID, detached[1].ID)
	assert.Empty(t, stack.Bars())
	assert.InDelta(t, testToolbarTop, stack.FooterTop(), 1e-9)

	stack.Attach(ctx, detached)
	bars := stack.Bars()
	require.Len(t, bars, 2)
	assert.Equal(t, b1.ID, bars[0].ID)
	assert.False(t, stack.IsHidden(bars[0]))
	assert.Zero(t, stack.Translation(bars[0]))
	assert.InDelta(t, testToolbarTop-48-56, stack.FooterTop(), 1e-9)
}

func TestSnackbarStack_DetachAllDiscardsClosingBars(t *testing.T) {
	ctx := context.Background()
	stack := NewSnackbarStack(ctx, testToolbarTop, heldAnimator{})

	b1 := NewSnackbar(48)
	stack.Push(ctx, b1)
	stack.Pop(ctx, b1.ID)

	// The popped bar is mid-exit; a swap must not resurrect it.
	detached := stack.DetachAll(ctx)
	assert.Empty(t, detached)
	assert.InDelta(t, testToolbarTop, stack.FooterTop(), 1e-9)
}

func TestSnackbarStack_LayoutEmittedOnChange(t *testing.T) {
	stack, ctx := newTestStack(t)

	var mu sync.Mutex
	var layouts []Layout
	stack.OnLayoutChanged(func(l Layout) {
		mu.Lock()
		layouts = append(layouts, l)
		mu.Unlock()
	})

	b := NewSnackbar(48)
	stack.Push(ctx, b)
	stack.Pop(ctx, b.ID)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, layouts)
	first := layouts[0]
	require.Len(t, first.Anchors, 1)
	assert.InDelta(t, testToolbarTop-48, first.FooterTop, 1e-9)
	last := layouts[len(layouts)-1]
	assert.Empty(t, last.Anchors)
	assert.InDelta(t, testToolbarTop, last.FooterTop, 1e-9)
}

func TestSnackbarStack_FooterCoversClosingBar(t *testing.T) {
	// A stepped animator keeps the popped bar in the closing list until
	// its exit finishes, so the footer must keep covering its extent.
	ctx := context.Background()
	stack := NewSnackbarStack(ctx, testToolbarTop, &heldAnimator{})

	b1 := NewSnackbar(48)
	b2 := NewSnackbar(56)
	stack.Push(ctx, b1)
	stack.Push(ctx, b2)

	stack.Pop(ctx, b1.ID)

	// Exit animation has not completed: b1 still occupies footer space.
	assert.InDelta(t, testToolbarTop-48-56, stack.FooterTop(), 1e-9)
	require.Len(t, stack.Bars(), 1)

	// Model anchoring is already updated: b2 sits on the toolbar.
	a2 := anchorByID(t, stack.Layout(), b2.ID)
	assert.Empty(t, a2.BelowID)
	assert.InDelta(t, testToolbarTop-56, a2.Top, 1e-9)
}

// heldAnimator never runs apply or done, freezing transitions in flight.
type heldAnimator struct{}

func (heldAnimator) Animate(target string, from, to float64, apply func(float64), done func(bool)) {
}

func (heldAnimator) Cancel(target string) {}

func TestSnackbarStack_ConcurrentPushPop(t *testing.T) {
	stack, ctx := newTestStack(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				b := NewSnackbar(48)
				stack.Push(ctx, b)
				stack.Pop(ctx, b.ID)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, stack.Bars())
	assert.InDelta(t, testToolbarTop, stack.FooterTop(), 1e-9)
}
