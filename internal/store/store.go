// Package store holds the counter and tag records and the Collection that
// persists them per location.
package store

import (
	"errors"
	"strconv"
)

var (
	// ErrNotFound is returned when a name is not visible from a location.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when creating a name that already exists in
	// the target location's namespace.
	ErrDuplicate = errors.New("already exists")

	// ErrForbidden is returned when the acting user fails an access check.
	ErrForbidden = errors.New("you do not have permission to do that")

	// ErrPoisoned is returned by every call on a Collection after a panic
	// escaped while its lock was held. The in-memory map may be
	// inconsistent, so nothing further is read or written.
	ErrPoisoned = errors.New("internal error")
)

// GenericKey is the storage key of the namespace shared by all locations.
const GenericKey = "generic"

// Location is the community a command runs in. The zero value is Generic.
// Community ids are never zero.
type Location struct {
	id uint64
}

// Generic is the cross-community location.
var Generic = Location{}

// InLocation returns the location for a community id.
func InLocation(id uint64) Location {
	return Location{id: id}
}

// IsGeneric reports whether l is the cross-community location.
func (l Location) IsGeneric() bool { return l.id == 0 }

// ID returns the community id, or zero for Generic.
func (l Location) ID() uint64 { return l.id }

// Key returns the storage key of the location's own namespace.
func (l Location) Key() string {
	if l.IsGeneric() {
		return GenericKey
	}
	return strconv.FormatUint(l.id, 10)
}

// stamp returns the value recorded in a record's location field.
func (l Location) stamp() *string {
	if l.IsGeneric() {
		return nil
	}
	k := l.Key()
	return &k
}

// String returns the storage key.
func (l Location) String() string { return l.Key() }
