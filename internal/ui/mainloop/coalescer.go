package mainloop

import "sync"

// Coalescer merges bursts of same-key owner-task work: while a task for a
// key is pending, later posts for that key replace its callback instead of
// queueing again. Used for high-frequency chrome updates (inset recompute,
// reader state propagation) where only the latest state matters.
type Coalescer struct {
	mu      sync.Mutex
	pending map[string]func()
	post    func(func()) bool
	closed  bool
}

// NewCoalescer wraps a post function, typically Loop.Post.
func NewCoalescer(post func(func()) bool) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer{
		pending: make(map[string]func()),
		post:    post,
	}
}

// Post schedules fn under key. If a task for key is already pending, fn
// replaces the previous callback and no new task is queued.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	_, alreadyQueued := c.pending[key]
	c.pending[key] = fn
	post := c.post
	c.mu.Unlock()

	if alreadyQueued {
		return
	}

	accepted := post(func() {
		c.mu.Lock()
		fn := c.pending[key]
		delete(c.pending, key)
		closed := c.closed
		c.mu.Unlock()

		if fn != nil && !closed {
			fn()
		}
	})
	if !accepted {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}
}

// Close drops all pending callbacks and rejects further posts.
func (c *Coalescer) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending = map[string]func(){}
	c.mu.Unlock()
}
