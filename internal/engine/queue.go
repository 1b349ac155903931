package engine

// Enqueue defers fn until Start. Once started, fn runs immediately.
func (c *Coordinator) Enqueue(fn func(*Coordinator)) {
	if fn == nil {
		return
	}
	if c.started {
		fn(c)
		return
	}
	c.queue = append(c.queue, fn)
}

// Start runs the deferred functions once, in the order they were
// enqueued. Later calls do nothing.
func (c *Coordinator) Start() {
	if c.started {
		return
	}
	c.started = true
	queued := c.queue
	c.queue = nil
	for _, fn := range queued {
		fn(c)
	}
}
