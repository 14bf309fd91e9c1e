package livestream

import (
	"context"
	"errors"

	"batalhao/internal/adapters/storage/jsonstore"
	domain "batalhao/internal/domain/livestream"
)

// JSONStore keeps notices in lives.json.
type JSONStore struct {
	table *jsonstore.Table[domain.Notice]
}

// NewJSONStore creates a store over c.
func NewJSONStore(c *jsonstore.Collection[domain.Notice]) *JSONStore {
	return &JSONStore{table: jsonstore.NewTable(c, func(n domain.Notice) string { return n.ID })}
}

// List returns notices newest first, only active ones when requested.
func (s *JSONStore) List(ctx context.Context, filter ListFilter) ([]domain.Notice, error) {
	all, err := s.table.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notice, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if filter.ActiveOnly && !all[i].Active {
			continue
		}
		out = append(out, all[i])
	}
	return out, nil
}

func (s *JSONStore) GetByID(ctx context.Context, id string) (domain.Notice, error) {
	n, ok, err := s.table.Find(ctx, id)
	if err != nil {
		return domain.Notice{}, err
	}
	if !ok {
		return domain.Notice{}, domain.ErrNotFound
	}
	return n, nil
}

func (s *JSONStore) Insert(ctx context.Context, n domain.Notice) error {
	return s.table.Insert(ctx, n)
}

func (s *JSONStore) Replace(ctx context.Context, n domain.Notice) error {
	err := s.table.Replace(ctx, n)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.ErrNotFound
	}
	return err
}

func (s *JSONStore) Update(ctx context.Context, id string, fn func(*domain.Notice) error) (domain.Notice, error) {
	n, err := s.table.Modify(ctx, id, fn)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.Notice{}, domain.ErrNotFound
	}
	return n, err
}

func (s *JSONStore) Delete(ctx context.Context, id string) (domain.Notice, bool, error) {
	return s.table.Remove(ctx, id)
}
