// Package animation separates chrome intent state from rendered state.
// Components set intent (offsets, stack order) synchronously; an Animator
// interpolates the rendered value toward it and reports completion.
// Interpolation artifacts never leak back into intent.
package animation

import (
	"sync"
	"time"
)

// Animator drives a rendered value toward a target. Implementations are
// last-writer-wins per target: starting a new animation supersedes any
// in-flight one on the same target, which completes with finished=false.
type Animator interface {
	// Animate interpolates from -> to, invoking apply with intermediate
	// values and finally done. apply and done run on the owner task.
	Animate(target string, from, to float64, apply func(v float64), done func(finished bool))

	// Cancel stops any in-flight animation on target without applying
	// further values; its done callback fires with finished=false.
	Cancel(target string)
}

// Immediate applies the final value synchronously. Used in tests and
// headless operation where no frame clock exists.
type Immediate struct{}

func (Immediate) Animate(_ string, _, to float64, apply func(float64), done func(bool)) {
	if apply != nil {
		apply(to)
	}
	if done != nil {
		done(true)
	}
}

func (Immediate) Cancel(string) {}

// Stepper interpolates linearly over a fixed number of frames, posting
// every apply/done onto the owner task.
type Stepper struct {
	post     func(func()) bool
	steps    int
	interval time.Duration

	mu  sync.Mutex
	gen map[string]uint64
}

// Frame defaults approximating 60fps over a short transition.
const (
	defaultSteps    = 12
	defaultInterval = 16 * time.Millisecond
)

// NewStepper creates a frame-based animator. post is typically
// mainloop.Loop.Post; its report of acceptance lets the step goroutine
// exit when the owner task shuts down mid-animation.
func NewStepper(post func(func()) bool) *Stepper {
	if post == nil {
		panic("animation.NewStepper: post function cannot be nil")
	}
	return &Stepper{
		post:     post,
		steps:    defaultSteps,
		interval: defaultInterval,
		gen:      make(map[string]uint64),
	}
}

func (s *Stepper) bump(target string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[target]++
	return s.gen[target]
}

func (s *Stepper) current(target string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[target]
}

func (s *Stepper) Animate(target string, from, to float64, apply func(float64), done func(bool)) {
	gen := s.bump(target)

	go func() {
		for i := 1; i <= s.steps; i++ {
			time.Sleep(s.interval)

			superseded := s.current(target) != gen
			v := from + (to-from)*float64(i)/float64(s.steps)
			finished := i == s.steps

			ran := make(chan bool, 1)
			accepted := s.post(func() {
				if superseded {
					ran <- false
					return
				}
				if apply != nil {
					apply(v)
				}
				if finished && done != nil {
					done(true)
				}
				ran <- true
			})
			if !accepted {
				// Owner task gone; nothing will run further steps. done
				// fires on this goroutine since no owner exists anymore.
				if done != nil {
					done(false)
				}
				return
			}
			if !<-ran {
				if done != nil && !s.post(func() { done(false) }) {
					done(false)
				}
				return
			}
		}
	}()
}

func (s *Stepper) Cancel(target string) {
	s.bump(target)
}
