package sim

import (
	"sync"
	"time"
)

type frameRequest struct {
	id uint64
	cb func(time.Time)
}

// ManualScheduler queues frame requests until the host calls Fire from its
// own display loop.
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending []frameRequest
	firing  []frameRequest
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make([]frameRequest, 0, 1)}
}

func (s *ManualScheduler) RequestFrame(cb func(time.Time)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.pending = append(s.pending, frameRequest{id: id, cb: cb})

	return func() { s.cancel(id) }
}

func (s *ManualScheduler) cancel(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.pending {
		if r.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	for i := range s.firing {
		if s.firing[i].id == id {
			s.firing[i].cb = nil
			return
		}
	}
}

// Fire runs every callback queued before the call, in request order.
// Requests made by those callbacks wait for the next Fire. It returns the
// number of callbacks run and must not be called from inside one.
func (s *ManualScheduler) Fire(now time.Time) int {
	s.mu.Lock()
	s.firing = s.pending
	s.pending = make([]frameRequest, 0, len(s.firing))
	n := len(s.firing)
	s.mu.Unlock()

	ran := 0
	for i := 0; i < n; i++ {
		s.mu.Lock()
		cb := s.firing[i].cb
		s.firing[i].cb = nil
		s.mu.Unlock()

		if cb != nil {
			cb(now)
			ran++
		}
	}

	s.mu.Lock()
	s.firing = nil
	s.mu.Unlock()
	return ran
}

// Pending reports how many callbacks are waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
