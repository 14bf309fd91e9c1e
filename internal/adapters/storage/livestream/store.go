package livestream

import (
	"context"

	domain "batalhao/internal/domain/livestream"
)

// Store persists live-stream notices.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Notice, error)
	GetByID(ctx context.Context, id string) (domain.Notice, error)
	Insert(ctx context.Context, value domain.Notice) error
	Replace(ctx context.Context, value domain.Notice) error
	Update(ctx context.Context, id string, fn func(*domain.Notice) error) (domain.Notice, error)
	Delete(ctx context.Context, id string) (domain.Notice, bool, error)
}

// ListFilter narrows List.
type ListFilter struct {
	ActiveOnly bool
}
