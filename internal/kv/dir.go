package kv

import (
	"fmt"
	"os"
)

// EnsureWritableDir creates dir if needed and proves a file can be created
// in it, so an unwritable data directory fails at startup rather than on
// the first save.
func EnsureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
