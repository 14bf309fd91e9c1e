package gallery

import (
	"context"
	"errors"

	"batalhao/internal/adapters/storage/jsonstore"
	domain "batalhao/internal/domain/gallery"
)

// JSONStore keeps images in gallery.json.
type JSONStore struct {
	table *jsonstore.Table[domain.Image]
}

// NewJSONStore creates a store over c.
func NewJSONStore(c *jsonstore.Collection[domain.Image]) *JSONStore {
	return &JSONStore{table: jsonstore.NewTable(c, func(i domain.Image) string { return i.ID })}
}

// List returns images in insertion order, filtered by category when set.
func (s *JSONStore) List(ctx context.Context, filter ListFilter) ([]domain.Image, error) {
	all, err := s.table.All(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Category == "" {
		return all, nil
	}
	out := []domain.Image{}
	for _, img := range all {
		if img.Category == filter.Category {
			out = append(out, img)
		}
	}
	return out, nil
}

// GetByID returns the image or domain.ErrNotFound.
func (s *JSONStore) GetByID(ctx context.Context, id string) (domain.Image, error) {
	img, ok, err := s.table.Find(ctx, id)
	if err != nil {
		return domain.Image{}, err
	}
	if !ok {
		return domain.Image{}, domain.ErrNotFound
	}
	return img, nil
}

// Insert appends img.
func (s *JSONStore) Insert(ctx context.Context, img domain.Image) error {
	return s.table.Insert(ctx, img)
}

// Replace overwrites the stored image with the same id.
func (s *JSONStore) Replace(ctx context.Context, img domain.Image) error {
	err := s.table.Replace(ctx, img)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.ErrNotFound
	}
	return err
}

// Delete removes the image and returns it. Unknown ids are a no-op.
func (s *JSONStore) Delete(ctx context.Context, id string) (domain.Image, bool, error) {
	return s.table.Remove(ctx, id)
}
