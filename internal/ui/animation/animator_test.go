package animation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/chromekit/internal/ui/mainloop"
)

func TestImmediate_AppliesFinalValueSynchronously(t *testing.T) {
	var got float64
	var finished bool

	Immediate{}.Animate("header", -44, 0, func(v float64) { got = v }, func(f bool) { finished = f })

	assert.Equal(t, 0.0, got)
	assert.True(t, finished)
}

func TestStepper_ReachesTarget(t *testing.T) {
	l := mainloop.New()
	defer l.Close()

	s := NewStepper(l.Post)
	s.interval = time.Millisecond

	var mu sync.Mutex
	var last float64
	doneCh := make(chan bool, 1)

	s.Animate("footer", 0, 44, func(v float64) {
		mu.Lock()
		last = v
		mu.Unlock()
	}, func(f bool) { doneCh <- f })

	select {
	case finished := <-doneCh:
		assert.True(t, finished)
	case <-time.After(2 * time.Second):
		t.Fatal("animation did not complete")
	}

	l.PostWait(func() {})
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 44.0, last)
}

func TestStepper_LastWriterWins(t *testing.T) {
	l := mainloop.New()
	defer l.Close()

	s := NewStepper(l.Post)
	s.interval = time.Millisecond

	results := make(chan bool, 2)
	var mu sync.Mutex
	var last float64
	apply := func(v float64) {
		mu.Lock()
		last = v
		mu.Unlock()
	}

	s.Animate("header", 0, -44, apply, func(f bool) { results <- f })
	s.Animate("header", 0, -10, apply, func(f bool) { results <- f })

	first := <-results
	second := <-results
	require.NotEqual(t, first, second, "exactly one animation may finish")

	l.PostWait(func() {})
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, -10.0, last, "superseding animation owns the final value")
}

func TestStepper_LoopCloseMidAnimationReportsUnfinished(t *testing.T) {
	l := mainloop.New()

	s := NewStepper(l.Post)
	s.interval = 5 * time.Millisecond

	doneCh := make(chan bool, 1)
	s.Animate("header", 0, -44, func(float64) {}, func(f bool) { doneCh <- f })

	time.Sleep(2 * s.interval)
	l.Close()

	select {
	case finished := <-doneCh:
		assert.False(t, finished, "animation interrupted by shutdown must not report finished")
	case <-time.After(2 * time.Second):
		t.Fatal("done never fired after the loop closed")
	}
}

func TestStepper_CancelStopsWithoutFinishing(t *testing.T) {
	l := mainloop.New()
	defer l.Close()

	s := NewStepper(l.Post)
	s.interval = 2 * time.Millisecond

	doneCh := make(chan bool, 1)
	s.Animate("header", 0, -44, func(float64) {}, func(f bool) { doneCh <- f })
	s.Cancel("header")

	select {
	case finished := <-doneCh:
		assert.False(t, finished)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled animation never reported completion")
	}
}
