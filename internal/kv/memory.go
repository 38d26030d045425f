package kv

import (
	"maps"
	"slices"
)

// MemoryStore is a Store with no backing file.
type MemoryStore[V any] struct {
	data map[string]V
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{data: make(map[string]V)}
}

// Get returns the value at key.
func (s *MemoryStore[V]) Get(key string) (V, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Insert sets key. It never fails.
func (s *MemoryStore[V]) Insert(key string, value V) error {
	s.data[key] = value
	return nil
}

// Remove deletes key and returns its previous value.
func (s *MemoryStore[V]) Remove(key string) (V, bool, error) {
	v, ok := s.data[key]
	delete(s.data, key)
	return v, ok, nil
}

// Keys returns the keys in sorted order.
func (s *MemoryStore[V]) Keys() []string {
	return slices.Sorted(maps.Keys(s.data))
}
