package uniform

import (
	"context"
	"errors"

	"batalhao/internal/adapters/storage/jsonstore"
	domain "batalhao/internal/domain/uniform"
)

// JSONStore keeps uniforms in uniforms.json.
type JSONStore struct {
	table *jsonstore.Table[domain.Uniform]
}

// NewJSONStore creates a store over c.
func NewJSONStore(c *jsonstore.Collection[domain.Uniform]) *JSONStore {
	return &JSONStore{table: jsonstore.NewTable(c, func(u domain.Uniform) string { return u.ID })}
}

func (s *JSONStore) List(ctx context.Context, filter ListFilter) ([]domain.Uniform, error) {
	all, err := s.table.All(ctx)
	if err != nil || filter.Type == "" {
		return all, err
	}
	out := []domain.Uniform{}
	for _, u := range all {
		if u.Type == filter.Type {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *JSONStore) GetByID(ctx context.Context, id string) (domain.Uniform, error) {
	u, ok, err := s.table.Find(ctx, id)
	if err != nil {
		return domain.Uniform{}, err
	}
	if !ok {
		return domain.Uniform{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *JSONStore) Insert(ctx context.Context, u domain.Uniform) error {
	return s.table.Insert(ctx, u)
}

func (s *JSONStore) Replace(ctx context.Context, u domain.Uniform) error {
	err := s.table.Replace(ctx, u)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.ErrNotFound
	}
	return err
}

func (s *JSONStore) Delete(ctx context.Context, id string) (domain.Uniform, bool, error) {
	return s.table.Remove(ctx, id)
}
