package gallery

import (
	"context"

	domain "batalhao/internal/domain/gallery"
)

// Store persists gallery images.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Image, error)
	GetByID(ctx context.Context, id string) (domain.Image, error)
	Insert(ctx context.Context, value domain.Image) error
	Replace(ctx context.Context, value domain.Image) error
	Delete(ctx context.Context, id string) (domain.Image, bool, error)
}

// ListFilter narrows List. An empty Category returns everything.
type ListFilter struct {
	Category string
}
