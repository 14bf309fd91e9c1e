package video

import (
	"context"

	domain "batalhao/internal/domain/video"
)

// Store persists videos.
type Store interface {
	List(ctx context.Context) ([]domain.Video, error)
	GetByID(ctx context.Context, id string) (domain.Video, error)
	Insert(ctx context.Context, value domain.Video) error
	Replace(ctx context.Context, value domain.Video) error
	Update(ctx context.Context, id string, fn func(*domain.Video) error) (domain.Video, error)
	Delete(ctx context.Context, id string) (domain.Video, bool, error)
}
