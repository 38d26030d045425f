package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joestump/tallybot/internal/metrics"
)

// Option configures a JSONFileStore.
type Option func(*fileOptions)

type fileOptions struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for load and save events.
func WithLogger(l *zap.Logger) Option {
	return func(o *fileOptions) { o.logger = l }
}

// JSONFileStore keeps its map in memory and mirrors it to a single JSON file.
// The file is read once, in OpenJSONFile; after that memory is authoritative.
type JSONFileStore[V any] struct {
	path   string
	label  string
	data   map[string]V
	logger *zap.Logger
}

// OpenJSONFile loads the store at path. A missing file yields an empty store
// and is not created until the first mutation. Any other read failure, or a
// file that does not decode, is returned; the store is unusable in that case.
func OpenJSONFile[V any](path string, opts ...Option) (*JSONFileStore[V], error) {
	o := fileOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &JSONFileStore[V]{
		path:   path,
		label:  filepath.Base(path),
		data:   make(map[string]V),
		logger: o.logger.With(zap.String("store", path)),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the target file path.
func (s *JSONFileStore[V]) Path() string { return s.path }

// Get reads from memory only.
func (s *JSONFileStore[V]) Get(key string) (V, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Insert sets key and saves. If the save fails the previous value is
// restored so memory matches the file that is still on disk.
func (s *JSONFileStore[V]) Insert(key string, value V) error {
	prev, had := s.data[key]
	s.data[key] = value
	if err := s.save(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Remove deletes key and saves, even when key was absent.
func (s *JSONFileStore[V]) Remove(key string) (V, bool, error) {
	prev, had := s.data[key]
	delete(s.data, key)
	if err := s.save(); err != nil {
		if had {
			s.data[key] = prev
		}
		var zero V
		return zero, false, err
	}
	return prev, had, nil
}

// Keys returns the keys in sorted order.
func (s *JSONFileStore[V]) Keys() []string {
	return slices.Sorted(maps.Keys(s.data))
}

func (s *JSONFileStore[V]) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no store file, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading store file %s: %w", s.path, err)
	}

	var data map[string]V
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if data != nil {
		s.data = data
	}
	s.logger.Debug("loaded store", zap.Int("keys", len(s.data)))
	return nil
}

// save writes the full map to a uniquely named sibling of the target and
// renames it over the target.
func (s *JSONFileStore[V]) save() error {
	if err := s.writeAtomic(); err != nil {
		metrics.StoreSaveErrorsTotal.WithLabelValues(s.label).Inc()
		s.logger.Error("saving store", zap.Error(err))
		return err
	}
	metrics.StoreSavesTotal.WithLabelValues(s.label).Inc()
	s.logger.Debug("saved store", zap.Int("keys", len(s.data)))
	return nil
}

func (s *JSONFileStore[V]) writeAtomic() (err error) {
	buf, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(s.path), fmt.Sprintf("%s-%s.tmp", uuid.NewString(), s.label))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
