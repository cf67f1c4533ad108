package transport

import "sync"

// Phase is the refresh coordination phase.
type Phase int

const (
	// Idle means no refresh is in flight and nobody waits.
	Idle Phase = iota
	// Refreshing means exactly one refresh call is outstanding.
	Refreshing
)

func (p Phase) String() string {
	if p == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// State is a read-only snapshot of the coordination state.
type State struct {
	Phase Phase
	// Waiting is the number of requests queued behind the in-flight refresh.
	Waiting int
	// Generation counts successful refreshes.
	Generation uint64
}

type waiter struct {
	id   string
	done chan error
}

type refreshState struct {
	mux        sync.Mutex
	refreshing bool
	generation uint64
	waiters    []*waiter
}

func (s *refreshState) currentGeneration() uint64 {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.generation
}

// enqueue appends a waiter for the request and reports whether the caller has
// to start the refresh. A request sent before the last successful refresh is
// stale: it gets no waiter and should be replayed right away.
func (s *refreshState) enqueue(id string, sentAt uint64) (w *waiter, leader bool, stale bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if !s.refreshing && s.generation != sentAt {
		return nil, false, true
	}
	w = &waiter{id: id, done: make(chan error, 1)}
	s.waiters = append(s.waiters, w)
	if s.refreshing {
		return w, false, false
	}
	s.refreshing = true
	return w, true, false
}

// settle returns to Idle and hands back the drained queue in arrival order.
func (s *refreshState) settle(success bool) []*waiter {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.refreshing = false
	if success {
		s.generation++
	}
	waiters := s.waiters
	s.waiters = nil
	return waiters
}

func (s *refreshState) snapshot() State {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret := State{Waiting: len(s.waiters), Generation: s.generation}
	if s.refreshing {
		ret.Phase = Refreshing
	}
	return ret
}
