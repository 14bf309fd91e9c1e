package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"time"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

func testID() string { return "test-id-001" }

// seqIDs returns a generator of distinct ids: prefix-1, prefix-2, ...
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var errStoreDown = errors.New("store down")

// memStore is an in-memory record store keyed by id, in insertion order.
type memStore[T any] struct {
	key       func(T) string
	items     []T
	insertErr error
}

func newMemStore[T any](key func(T) string) *memStore[T] {
	return &memStore[T]{key: key}
}

func (m *memStore[T]) Insert(_ context.Context, v T) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.items = append(m.items, v)
	return nil
}

func (m *memStore[T]) Update(_ context.Context, id string, fn func(*T) error) (T, error) {
	var zero T
	for i := range m.items {
		if m.key(m.items[i]) == id {
			next := m.items[i]
			if err := fn(&next); err != nil {
				return zero, err
			}
			m.items[i] = next
			return next, nil
		}
	}
	return zero, errNotFoundInMem
}

func (m *memStore[T]) Delete(_ context.Context, id string) (T, bool, error) {
	var zero T
	for i, v := range m.items {
		if m.key(v) == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return v, true, nil
		}
	}
	return zero, false, nil
}

func (m *memStore[T]) List(_ context.Context) ([]T, error) {
	return append([]T(nil), m.items...), nil
}

var errNotFoundInMem = errors.New("not found")

// fakeFiles records saves and removals instead of touching disk.
type fakeFiles struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	saveErr error
	rmErr   error
}

func (f *fakeFiles) SaveImage(sub, name string, src io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	io.Copy(io.Discard, src)
	p := "/uploads/" + sub + "/" + name + ".png"
	f.mu.Lock()
	f.saved = append(f.saved, p)
	f.mu.Unlock()
	return p, nil
}

func (f *fakeFiles) Remove(publicPath string) error {
	f.mu.Lock()
	f.removed = append(f.removed, publicPath)
	f.mu.Unlock()
	return f.rmErr
}

func pngReader() io.Reader {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	return &buf
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
