package store

import (
	"fmt"
	"sync"
)

// Listener is notified after every write to the store. id is empty when
// the store was reset.
type Listener func(id string, state State, present bool)

// Ticket identifies one invocation of a step
type Ticket struct {
	ID    string
	epoch uint64
	gen   uint64
}

// Store maps step ids to their latest State
type Store struct {
	mu        sync.RWMutex
	entries   map[string]State
	gens      map[string]uint64
	epoch     uint64
	listeners []Listener
}

func New() *Store {
	return &Store{
		entries: make(map[string]State),
		gens:    make(map[string]uint64),
	}
}

// Subscribe registers a listener. Listeners run synchronously, outside the
// store lock, in the order they were added.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Apply replaces the entry for id. States that are loading with a result,
// or settled without one, are rejected. Apply counts as a newer write, so
// tickets issued before it no longer settle.
func (s *Store) Apply(id string, state State) error {
	if !state.valid() {
		return fmt.Errorf("invalid state for %s: loading=%t result=%v", id, state.Loading, state.Result)
	}

	s.mu.Lock()
	s.gens[id]++
	s.entries[id] = state
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, id, state, true)
	return nil
}

// Begin marks id as loading, discarding any previous result, and returns a
// ticket for settling this invocation.
func (s *Store) Begin(id string) Ticket {
	s.mu.Lock()
	s.gens[id]++
	t := Ticket{ID: id, epoch: s.epoch, gen: s.gens[id]}
	s.entries[id] = Loading()
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, id, Loading(), true)
	return t
}

// Settle writes the result of the invocation identified by t. It returns
// false, leaving the store untouched, when a later Begin for the same id or
// a Reset happened in the meantime.
func (s *Store) Settle(t Ticket, r Result) bool {
	if r == nil {
		return false
	}
	state := Settled(r)

	s.mu.Lock()
	if t.epoch != s.epoch || t.gen != s.gens[t.ID] {
		s.mu.Unlock()
		return false
	}
	s.entries[t.ID] = state
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, t.ID, state, true)
	return true
}

// Get returns the entry for id. ok is false for a step that never ran.
func (s *Store) Get(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.entries[id]
	return st, ok
}

// Snapshot returns a copy of all entries
func (s *Store) Snapshot() map[string]State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]State, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset clears every entry. Results of calls still in flight are dropped
// when they settle.
func (s *Store) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]State)
	s.epoch++
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, "", State{}, false)
}

func notify(listeners []Listener, id string, state State, present bool) {
	for _, l := range listeners {
		l(id, state, present)
	}
}
