// Package mainloop provides the single owner task that drives all chrome
// mutations. Asynchronous results (extraction, store lookups) are posted
// back here before touching shared state.
package mainloop

import "sync"

// Loop executes posted functions sequentially on one goroutine.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// New starts the owner goroutine and returns the loop.
func New() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Post schedules fn on the owner task. It never blocks the caller and
// reports whether fn was accepted; posting to a closed loop drops fn
// and returns false. Accepted work always runs: Close drains the queue
// before stopping.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
	l.mu.Unlock()
	return true
}

// PostWait schedules fn and blocks until it has run. Used at shutdown
// barriers and in tests; chrome operations themselves never call it.
// Returns immediately when the loop is already closed.
func (l *Loop) PostWait(fn func()) {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return
	}
	<-ran
}

// Close drains already-posted work and stops the owner goroutine.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	l.cond.Signal()
	l.mu.Unlock()
	<-l.done
}
