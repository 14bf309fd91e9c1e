package hierarchy

import (
	"context"

	domain "batalhao/internal/domain/hierarchy"
)

// Store persists the chain of command.
type Store interface {
	List(ctx context.Context) ([]domain.Entry, error)
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Insert(ctx context.Context, value domain.Entry) error
	Replace(ctx context.Context, value domain.Entry) error
	Update(ctx context.Context, id string, fn func(*domain.Entry) error) (domain.Entry, error)
	Delete(ctx context.Context, id string) (domain.Entry, bool, error)
}
