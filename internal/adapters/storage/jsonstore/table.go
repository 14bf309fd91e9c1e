package jsonstore

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateID is returned by Insert when a record with the same id exists.
	ErrDuplicateID = errors.New("jsonstore: duplicate id")
	// ErrMissing is returned by Replace when no record has the id.
	ErrMissing = errors.New("jsonstore: record not found")
)

var errUnchanged = errors.New("jsonstore: unchanged")

// Table adds id-keyed access on top of a Collection.
type Table[T any] struct {
	c   *Collection[T]
	key func(T) string
}

// NewTable wraps c, using key to read a record's id.
func NewTable[T any](c *Collection[T], key func(T) string) *Table[T] {
	return &Table[T]{c: c, key: key}
}

// Collection returns the underlying record store.
func (t *Table[T]) Collection() *Collection[T] { return t.c }

// All returns every record.
func (t *Table[T]) All(ctx context.Context) ([]T, error) {
	return t.c.ReadAll(ctx)
}

// Find returns the record with id. Absent records report false with a nil error.
func (t *Table[T]) Find(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := t.c.ReadAll(ctx)
	if err != nil {
		return zero, false, err
	}
	if i := t.indexOf(items, id); i >= 0 {
		return items[i], true, nil
	}
	return zero, false, nil
}

// Insert appends v.
func (t *Table[T]) Insert(ctx context.Context, v T) error {
	id := t.key(v)
	return t.c.Update(ctx, func(items []T) ([]T, error) {
		if t.indexOf(items, id) >= 0 {
			return nil, ErrDuplicateID
		}
		return append(items, v), nil
	})
}

// Replace overwrites the record sharing v's id, keeping its position.
func (t *Table[T]) Replace(ctx context.Context, v T) error {
	id := t.key(v)
	return t.c.Update(ctx, func(items []T) ([]T, error) {
		i := t.indexOf(items, id)
		if i < 0 {
			return nil, ErrMissing
		}
		items[i] = v
		return items, nil
	})
}

// Modify loads the record with id, lets fn change it and writes it back in
// one locked cycle. fn errors abort the write. Unknown ids return ErrMissing.
func (t *Table[T]) Modify(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var out T
	err := t.c.Update(ctx, func(items []T) ([]T, error) {
		i := t.indexOf(items, id)
		if i < 0 {
			return nil, ErrMissing
		}
		if err := fn(&items[i]); err != nil {
			return nil, err
		}
		out = items[i]
		return items, nil
	})
	return out, err
}

// Remove deletes the record with id and returns it.
// When nothing matches, the file is left untouched and found is false.
func (t *Table[T]) Remove(ctx context.Context, id string) (removed T, found bool, err error) {
	err = t.c.Update(ctx, func(items []T) ([]T, error) {
		i := t.indexOf(items, id)
		if i < 0 {
			return nil, errUnchanged
		}
		removed, found = items[i], true
		return append(items[:i], items[i+1:]...), nil
	})
	if errors.Is(err, errUnchanged) {
		return removed, false, nil
	}
	return removed, found, err
}

func (t *Table[T]) indexOf(items []T, id string) int {
	for i, v := range items {
		if t.key(v) == id {
			return i
		}
	}
	return -1
}
