package store

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/joestump/tallybot/internal/kv"
	"github.com/joestump/tallybot/internal/metrics"
)

// Record is a value a Collection can hand out without sharing memory with
// its own copy.
type Record[R any] interface {
	Clone() R
}

// Namespace maps record names to records within one location.
type Namespace[R any] map[string]R

// Collection stores one kind of record, keyed by location and then name.
//
// A single mutex guards every method, reads included, and is held across
// each read-modify-write so concurrent updates are never lost. Names are
// normalized on the way in.
type Collection[R Record[R]] struct {
	kind   string
	logger *zap.Logger

	mu       sync.Mutex
	poisoned bool
	store    kv.Store[Namespace[R]]
}

// NewCounters returns the counter collection backed by s.
func NewCounters(s kv.Store[Namespace[Counter]], logger *zap.Logger) *Collection[Counter] {
	return NewCollection("counter", s, logger)
}

// NewTags returns the tag collection backed by s.
func NewTags(s kv.Store[Namespace[Tag]], logger *zap.Logger) *Collection[Tag] {
	return NewCollection("tag", s, logger)
}

// NewCollection returns a collection of kind backed by s. A nil logger
// discards output.
func NewCollection[R Record[R]](kind string, s kv.Store[Namespace[R]], logger *zap.Logger) *Collection[R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collection[R]{
		kind:   kind,
		logger: logger.With(zap.String("collection", kind)),
		store:  s,
	}
	metrics.RecordsTotal.WithLabelValues(kind).Set(float64(c.count()))
	return c
}

// Kind is the record kind, e.g. "counter".
func (c *Collection[R]) Kind() string { return c.kind }

// Possible returns every record visible from loc: the generic namespace
// overlaid with loc's own, where loc's records win on name clashes.
func (c *Collection[R]) Possible(loc Location) (Namespace[R], error) {
	var out Namespace[R]
	err := c.locked(func() error {
		out = make(Namespace[R])
		for name, r := range c.possible(loc) {
			out[name] = r.Clone()
		}
		return nil
	})
	return out, err
}

// Names returns the sorted names visible from loc.
func (c *Collection[R]) Names(loc Location) ([]string, error) {
	var names []string
	err := c.locked(func() error {
		names = slices.Sorted(maps.Keys(c.possible(loc)))
		return nil
	})
	return names, err
}

// Len returns the number of records across all locations.
func (c *Collection[R]) Len() (int, error) {
	var n int
	err := c.locked(func() error {
		n = c.count()
		return nil
	})
	return n, err
}

// Create adds rec under name in loc's own namespace. Records visible from
// the generic namespace do not count as clashes.
func (c *Collection[R]) Create(loc Location, name string, rec R) error {
	name = NormalizeName(name)
	if err := ValidateName(name); err != nil {
		return err
	}
	return c.locked(func() error {
		key := loc.Key()
		if _, ok := c.namespace(key)[name]; ok {
			return fmt.Errorf("%s %q: %w", c.kind, name, ErrDuplicate)
		}
		if err := c.put(key, name, rec); err != nil {
			return err
		}
		c.logger.Info("created record", zap.String("name", name), zap.String("location", key))
		return nil
	})
}

// Get returns a copy of the record visible from loc under name.
func (c *Collection[R]) Get(loc Location, name string) (R, error) {
	name = NormalizeName(name)
	var out R
	err := c.locked(func() error {
		r, err := c.get(loc, name)
		if err != nil {
			return err
		}
		out = r.Clone()
		return nil
	})
	return out, err
}

// Put writes rec under name in loc's own namespace, replacing any record
// already there.
func (c *Collection[R]) Put(loc Location, name string, rec R) error {
	name = NormalizeName(name)
	return c.locked(func() error {
		return c.put(loc.Key(), name, rec)
	})
}

// Delete removes name from loc's own namespace. The namespace is saved
// whether or not name was present.
func (c *Collection[R]) Delete(loc Location, name string) error {
	name = NormalizeName(name)
	return c.locked(func() error {
		return c.delete(loc.Key(), name)
	})
}

// Update applies fn to a copy of the record visible from loc and writes the
// result to loc's own namespace. If fn returns an error nothing is written.
// The lock is held from lookup to save.
//
// A generic record updated from a community location is copied into that
// community's namespace; the generic original is left unchanged.
func (c *Collection[R]) Update(loc Location, name string, fn func(*R) error) (R, error) {
	name = NormalizeName(name)
	var out R
	err := c.locked(func() error {
		cur, err := c.get(loc, name)
		if err != nil {
			return err
		}
		next := cur.Clone()
		if err := fn(&next); err != nil {
			return err
		}
		if err := c.put(loc.Key(), name, next); err != nil {
			return err
		}
		out = next.Clone()
		return nil
	})
	return out, err
}

// Use records one invocation of name through bump, which increments the
// record's usage counter, and returns the updated record. It follows the
// Update write rules.
func (c *Collection[R]) Use(loc Location, name string, bump func(*R)) (R, error) {
	return c.Update(loc, name, func(r *R) error {
		bump(r)
		return nil
	})
}

// Remove deletes name from loc's own namespace once authorize accepts the
// record visible from loc. It reports whether loc's own namespace held
// name. A generic record removed from a community location stays in place
// and Remove reports false, though the namespace is still saved.
func (c *Collection[R]) Remove(loc Location, name string, authorize func(R) error) (bool, error) {
	name = NormalizeName(name)
	var removed bool
	err := c.locked(func() error {
		cur, err := c.get(loc, name)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(cur); err != nil {
				return err
			}
		}
		_, removed = c.namespace(loc.Key())[name]
		return c.delete(loc.Key(), name)
	})
	return removed && err == nil, err
}

// locked runs fn with the collection lock held. A panic inside fn poisons
// the collection and is returned as ErrPoisoned.
func (c *Collection[R]) locked(fn func() error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return ErrPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			c.logger.Error("panic while holding collection lock", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%w: %v", ErrPoisoned, r)
		}
	}()
	return fn()
}

// namespace returns a private copy of the namespace at key.
func (c *Collection[R]) namespace(key string) Namespace[R] {
	ns, ok := c.store.Get(key)
	if !ok || ns == nil {
		return make(Namespace[R])
	}
	return maps.Clone(ns)
}

func (c *Collection[R]) possible(loc Location) Namespace[R] {
	merged := c.namespace(GenericKey)
	if loc.IsGeneric() {
		return merged
	}
	maps.Copy(merged, c.namespace(loc.Key()))
	return merged
}

func (c *Collection[R]) get(loc Location, name string) (R, error) {
	r, ok := c.possible(loc)[name]
	if !ok {
		var zero R
		return zero, fmt.Errorf("%s %q: %w", c.kind, name, ErrNotFound)
	}
	return r, nil
}

func (c *Collection[R]) put(key, name string, rec R) error {
	ns := c.namespace(key)
	ns[name] = rec
	if err := c.store.Insert(key, ns); err != nil {
		return err
	}
	c.refreshGauge()
	return nil
}

func (c *Collection[R]) delete(key, name string) error {
	ns := c.namespace(key)
	delete(ns, name)
	if err := c.store.Insert(key, ns); err != nil {
		return err
	}
	c.refreshGauge()
	c.logger.Info("deleted record", zap.String("name", name), zap.String("location", key))
	return nil
}

func (c *Collection[R]) count() int {
	n := 0
	for _, key := range c.store.Keys() {
		ns, _ := c.store.Get(key)
		n += len(ns)
	}
	return n
}

func (c *Collection[R]) refreshGauge() {
	metrics.RecordsTotal.WithLabelValues(c.kind).Set(float64(c.count()))
}
