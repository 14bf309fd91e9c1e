package video

import (
	"context"
	"errors"

	"batalhao/internal/adapters/storage/jsonstore"
	domain "batalhao/internal/domain/video"
)

// JSONStore keeps videos in videos.json.
type JSONStore struct {
	table *jsonstore.Table[domain.Video]
}

// NewJSONStore creates a store over c.
func NewJSONStore(c *jsonstore.Collection[domain.Video]) *JSONStore {
	return &JSONStore{table: jsonstore.NewTable(c, func(v domain.Video) string { return v.ID })}
}

// List returns every video in insertion order.
func (s *JSONStore) List(ctx context.Context) ([]domain.Video, error) {
	return s.table.All(ctx)
}

// GetByID returns the video or domain.ErrNotFound.
func (s *JSONStore) GetByID(ctx context.Context, id string) (domain.Video, error) {
	v, ok, err := s.table.Find(ctx, id)
	if err != nil {
		return domain.Video{}, err
	}
	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	return v, nil
}

// Insert appends v.
func (s *JSONStore) Insert(ctx context.Context, v domain.Video) error {
	return s.table.Insert(ctx, v)
}

// Replace overwrites the stored video with the same id.
func (s *JSONStore) Replace(ctx context.Context, v domain.Video) error {
	err := s.table.Replace(ctx, v)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.ErrNotFound
	}
	return err
}

// Update applies fn to the stored video in a single locked read-modify-write.
func (s *JSONStore) Update(ctx context.Context, id string, fn func(*domain.Video) error) (domain.Video, error) {
	v, err := s.table.Modify(ctx, id, fn)
	if errors.Is(err, jsonstore.ErrMissing) {
		return domain.Video{}, domain.ErrNotFound
	}
	return v, err
}

// Delete removes the video and returns it. Unknown ids are a no-op.
func (s *JSONStore) Delete(ctx context.Context, id string) (domain.Video, bool, error) {
	return s.table.Remove(ctx, id)
}
