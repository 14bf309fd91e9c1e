// Package jsonstore keeps one entity collection per JSON array file.
//
// A Collection owns a single file. Reads are lenient so a damaged file never
// takes a page down; writes replace the whole file through a temp file and a
// rename, so readers see either the old array or the new one.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"batalhao/internal/adapters/http/perf"
)

// DefaultSlowOp is the duration above which a collection operation is logged at WARN.
const DefaultSlowOp = 100 * time.Millisecond

// Options configures a Collection.
type Options struct {
	// Name labels log lines and perf entries. Defaults to the file name without extension.
	Name      string
	Collector *perf.Collector
	SlowOp    time.Duration
}

// Collection is the record store for one JSON array file.
type Collection[T any] struct {
	path      string
	name      string
	collector *perf.Collector
	slowOp    time.Duration

	mu sync.RWMutex
}

// Open binds a collection to path. Nothing touches the disk until the first access.
func Open[T any](path string, opts Options) *Collection[T] {
	name := opts.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	slow := opts.SlowOp
	if slow <= 0 {
		slow = DefaultSlowOp
	}
	return &Collection[T]{
		path:      path,
		name:      name,
		collector: opts.Collector,
		slowOp:    slow,
	}
}

// Name returns the collection label.
func (c *Collection[T]) Name() string { return c.name }

// Path returns the backing file.
func (c *Collection[T]) Path() string { return c.path }

// ReadAll returns every record in file order.
// A missing, unreadable or unparsable file yields an empty slice and a log
// line; the only error returned is a cancelled context.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer c.observe("read", time.Now())

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.ensureFile(); err != nil {
		slog.Error("collection_read_failed", "collection", c.name, "path", c.path, "error", err)
		return []T{}, nil
	}
	items, err := c.load()
	if err != nil {
		slog.Error("collection_read_failed", "collection", c.name, "path", c.path, "error", err)
		return []T{}, nil
	}
	return items, nil
}

// WriteAll replaces the file contents with items. A nil slice is written as [].
func (c *Collection[T]) WriteAll(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer c.observe("write", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(items)
}

// Update runs fn on the current records and writes what it returns.
// The collection stays locked for the whole cycle. An error from fn aborts
// without writing. Unlike ReadAll, a corrupt file is reported instead of
// being treated as empty, so a bad file is never silently overwritten.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer c.observe("update", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.write(next)
}

// Verify parses the file strictly and returns the record count.
// A missing file counts as an empty collection.
func (c *Collection[T]) Verify(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer c.observe("verify", time.Now())

	c.mu.RLock()
	defer c.mu.RUnlock()

	items, err := c.load()
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.path, err)
	}
	return len(items), nil
}

// load reads and decodes the file. The caller holds the lock.
func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// ensureFile creates the parent directory and an empty array file if missing.
func (c *Collection[T]) ensureFile() error {
	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return writeAtomic(c.path, []byte("[]\n"))
}

// write encodes items and swaps them in. The caller holds the write lock.
func (c *Collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := writeAtomic(c.path, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

// writeAtomic writes data to a temp file next to path, syncs it and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (c *Collection[T]) observe(op string, start time.Time) {
	elapsed := time.Since(start)
	key := c.name + "." + op
	if elapsed >= c.slowOp {
		slog.Warn("slow_collection_op", "op", key, "duration_ms", elapsed.Milliseconds())
	}
	c.collector.Record(perf.Entry{
		Kind:       perf.KindCollection,
		Path:       key,
		DurationMs: float64(elapsed.Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}
