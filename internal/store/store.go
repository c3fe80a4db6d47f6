// Package store holds the two in-memory collections that make up the app's
// backend: the product catalog and the order list. Each store owns its
// collection exclusively, hands out snapshots, and rewrites its persisted
// record wholesale after every mutation.
package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by id lookups. Mutations on unknown ids are
// silent no-ops instead; only reads surface this.
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps field validation failures on store mutations.
var ErrInvalid = errors.New("invalid fields")

// currentRecordVersion tags the persisted JSON documents so a future layout
// change can migrate old records instead of misreading them.
const currentRecordVersion = 1

// subscribers implements the "state changed, re-read snapshot" contract.
// Callbacks run after the in-memory mutation is visible.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (s *subscribers) add(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
