package hierarchy

import (
	"context"
	"errors"

	"batalhao/internal/adapters/storage/jsonstore"
	domain "batalhao/internal/domain/hierarchy"
)

// JSONStore keeps hierarchy entries in hierarchy.json.
type JSONStore struct {
	table *jsonstore.Table[domain.Entry]
}

// NewJSONStore creates a store over c.
func NewJSONStore(c *jsonstore.Collection[domain.Entry]) *JSONStore {
	return &JSONStore{table: jsonstore.NewTable(c, func(e domain.Entry) string { return e.ID })}
}

// List returns entries in file order. Callers sort for display.
func (s *JSONStore) List(ctx context.Context) ([]domain.Entry, error) {
	return s.table.All(ctx)
}

func (s *JSONStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	e, ok, err := s.table.Find(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}
	if !ok {
		return domain.Entry{}, domain.ErrNotFound
	}
	return e, nil
}

func (s *JSONStore) Insert(ctx context.Context, e domain.Entry) error {
	return s.table.Insert(ctx, e)
}

func (s *JSONStore) Replace(ctx context.Context, e domain.Entry) error {
	err := s.table.Replace(ctx, e)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.ErrNotFound
	}
	return err
}

func (s *JSONStore) Update(ctx context.Context, id string, fn func(*domain.Entry) error) (domain.Entry, error) {
	e, err := s.table.Modify(ctx, id, fn)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.Entry{}, domain.ErrNotFound
	}
	return e, err
}

func (s *JSONStore) Delete(ctx context.Context, id string) (domain.Entry, bool, error) {
	return s.table.Remove(ctx, id)
}
