// Package store provides a generic in-memory dao.Service implementation
// shared by the request, decision and snapshot stores.
package store

import (
	"context"
	"sync"

	"github.com/allocsafe/banker/service/dao"
)

// Memory keeps entities of type *T mapped by a comparable key K obtained
// from the supplied key selector.  Concrete stores embed it instead of
// re-implementing identical Save/Load/Delete/List plumbing per entity type.
type Memory[K comparable, T any] struct {
	mu      sync.RWMutex
	records map[K]*T
	keyOf   func(*T) K
}

// NewMemory creates an empty in-memory store.  keyOf extracts the entity key
// (usually the ID field) from a value.
func NewMemory[K comparable, T any](keyOf func(*T) K) *Memory[K, T] {
	return &Memory[K, T]{
		records: make(map[K]*T),
		keyOf:   keyOf,
	}
}

// Save stores or overwrites a record.
func (s *Memory[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keyOf(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns a record by key, or nil when absent.
func (s *Memory[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Delete removes a record.
func (s *Memory[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns all stored records.
func (s *Memory[K, T]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	return out, nil
}
