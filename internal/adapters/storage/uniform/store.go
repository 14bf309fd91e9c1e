package uniform

import (
	"context"

	domain "batalhao/internal/domain/uniform"
)

// Store persists uniforms.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Uniform, error)
	GetByID(ctx context.Context, id string) (domain.Uniform, error)
	Insert(ctx context.Context, value domain.Uniform) error
	Replace(ctx context.Context, value domain.Uniform) error
	Delete(ctx context.Context, id string) (domain.Uniform, bool, error)
}

// ListFilter narrows List by uniform type.
type ListFilter struct {
	Type string
}
