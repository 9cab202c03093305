package memstore

// Package memstore provides an in-memory WatchableStore. It is the default
// backend for single-process use and the substitute the storage layer is
// unit-tested against. Change notifications are delivered synchronously in
// the mutating goroutine, which keeps test ordering deterministic.

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dlretail/sessiongate/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.WatchableStore = (*Store)(nil)

// Store is a mutex-guarded map of keys to values with subscriber fan-out.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	subs   map[int]func(ports.Change)
	nextID int
	origin string
}

// New creates an empty Store with a unique origin identifier.
func New() *Store {
	return &Store{
		values: make(map[string]string),
		subs:   make(map[int]func(ports.Change)),
		origin: uuid.NewString(),
	}
}

// Origin returns the identifier stamped on changes made through this store.
func (s *Store) Origin() string { return s.origin }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	fns := s.subscribers()
	s.mu.Unlock()

	s.notify(fns, ports.Change{Key: key, Value: value, Origin: s.origin})
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	fns := s.subscribers()
	s.mu.Unlock()

	if existed {
		s.notify(fns, ports.Change{Key: key, Origin: s.origin})
	}
	return nil
}

// Subscribe registers fn for all subsequent changes. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(_ context.Context, fn func(ports.Change)) (func(), error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}, nil
}

// Inject applies a change as if it came from another tab: the value is
// written without the store's own origin, so subscribers treat it as
// external. Test helper for cross-tab scenarios.
func (s *Store) Inject(key, value string, present bool) {
	s.mu.Lock()
	if present {
		s.values[key] = value
	} else {
		delete(s.values, key)
	}
	fns := s.subscribers()
	s.mu.Unlock()

	s.notify(fns, ports.Change{Key: key, Value: value, Origin: "external"})
}

// subscribers snapshots the callback set; callers must hold mu.
func (s *Store) subscribers() []func(ports.Change) {
	fns := make([]func(ports.Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}

func (s *Store) notify(fns []func(ports.Change), ch ports.Change) {
	for _, fn := range fns {
		fn(ch)
	}
}
