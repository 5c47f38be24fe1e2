// Package store provides shared, observable state containers that sit beside
// the component tree. One store per domain (trading state, wallet state);
// many unrelated components observe one store. Stores are constructed
// explicitly and injected, never module globals.
package store

import (
	"log/slog"
	"sync"
)

// Subscriber is notified with a state snapshot after every merge.
type Subscriber func(state map[string]any)

// Store is a mutable object tree plus subscribers. SetState performs a
// shallow merge into the top level only: a nested value passed under a key
// fully replaces the previous value at that key. Callers read-modify-write
// nested structures explicitly.
type Store struct {
	mu     sync.RWMutex
	logger *slog.Logger
	state  map[string]any
	subs   []*subscriber
	seq    uint64
}

type subscriber struct {
	id uint64
	fn Subscriber
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to surface subscriber failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store seeded with a copy of initial. A nil initial starts
// empty.
func New(initial map[string]any, opts ...Option) *Store {
	s := &Store{state: make(map[string]any, len(initial))}
	for k, v := range initial {
		s.state[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// GetState returns a top-level copy of the current state. Mutating the
// returned map does not affect the store; nested values are shared.
func (s *Store) GetState() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns a single top-level value and whether it is set.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// SetState merges partial into the state (top-level keys only) and notifies
// every subscriber synchronously with a snapshot of the merged state.
// Subscribers are captured before notification begins, so unsubscribing
// inside a subscriber does not affect the current pass. A subscriber panic
// is logged and does not stop the remaining notifications.
func (s *Store) SetState(partial map[string]any) {
	s.mu.Lock()
	for k, v := range partial {
		s.state[k] = v
	}
	snapshot := s.snapshotLocked()
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		s.notify(sub, snapshot)
	}
}

// Subscribe registers fn for future merges and returns its unsubscribe
// function. Unsubscribing twice is a no-op.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	sub := &subscriber{id: s.seq, fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.subs {
			if cur == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SubscriberCount returns the number of live subscribers.
func (s *Store) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Store) snapshotLocked() map[string]any {
	out := make(map[string]any, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

func (s *Store) notify(sub *subscriber, snapshot map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store subscriber panicked", "err", r)
		}
	}()
	sub.fn(snapshot)
}
