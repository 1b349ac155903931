package loader

import "sync"

// Signal is a one-shot readiness event with any number of subscribers.
// Resolving it more than once has no further effect.
type Signal struct {
	mu    sync.Mutex
	fired bool
	done  chan struct{}
	subs  []func()
}

// NewSignal returns an unresolved signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Subscribe registers fn to run on resolution. If the signal already
// fired, fn runs immediately.
func (s *Signal) Subscribe(fn func()) {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		fn()
		return
	}
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Resolve fires the signal. Subscribers run in subscription order on
// the calling goroutine. It reports whether this call fired it.
func (s *Signal) Resolve() bool {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return false
	}
	s.fired = true
	subs := s.subs
	s.subs = nil
	close(s.done)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return true
}

// Resolved reports whether the signal fired.
func (s *Signal) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Done is closed when the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
