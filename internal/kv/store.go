// Package kv provides string-keyed stores for serializable values. The
// file-backed implementation rewrites its whole file on every mutation and
// replaces the target atomically, so a crash never leaves a torn file behind.
package kv

import "errors"

// ErrCorrupt is returned when an existing store file cannot be decoded.
var ErrCorrupt = errors.New("store file is corrupt")

// Store maps string keys to values of type V.
//
// Implementations are not safe for concurrent use; callers serialize access.
type Store[V any] interface {
	// Get reads from memory only.
	Get(key string) (V, bool)
	// Insert sets key and persists the full map before returning.
	Insert(key string, value V) error
	// Remove deletes key if present and persists the full map whether or
	// not the key existed.
	Remove(key string) (V, bool, error)
	// Keys returns every key in ascending order.
	Keys() []string
}
