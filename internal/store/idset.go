package store

import (
	"encoding/json"
	"maps"
	"slices"
)

// IDSet is a set of user ids. It encodes as a sorted JSON array and a nil
// IDSet behaves as empty.
type IDSet map[uint64]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...uint64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in s. A nil set is empty.
func (s IDSet) Contains(id uint64) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in s.
func (s IDSet) Len() int { return len(s) }

// Add inserts id, allocating the set if needed.
func (s *IDSet) Add(id uint64) {
	if *s == nil {
		*s = make(IDSet)
	}
	(*s)[id] = struct{}{}
}

// Remove deletes id from s.
func (s IDSet) Remove(id uint64) {
	delete(s, id)
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []uint64 {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy of s.
func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// MarshalJSON encodes s as a sorted array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []uint64{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of ids. null decodes as empty.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uint64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
