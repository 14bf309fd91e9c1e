package account

import (
	"context"

	domain "batalhao/internal/domain/account"
)

// Store persists portal accounts.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// ListFilter narrows List. A zero Limit means no limit.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
}
