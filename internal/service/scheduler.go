package service

import (
	"sync"
	"time"
)

// Scheduler runs fn once after delay. The returned cancel drops the run if it
// has not started yet and is safe to call more than once.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func(), ok bool)
	Pending() int
	Stop()
}

type timerScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	timers  map[uint64]*time.Timer
	stopped bool
}

func NewScheduler() Scheduler {
	return &timerScheduler{timers: make(map[uint64]*time.Timer)}
}

// Schedule returns false once the scheduler is stopped.
func (s *timerScheduler) Schedule(delay time.Duration, fn func()) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return func() {}, false
	}

	s.nextID++
	id := s.nextID
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, pending := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()

		if pending {
			fn()
		}
	})
	return func() { s.cancel(id) }, true
}

func (s *timerScheduler) cancel(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *timerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending run.
func (s *timerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
