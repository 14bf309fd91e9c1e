package projections

import (
	"context"

	accountStore "batalhao/internal/adapters/storage/account"
	galleryStore "batalhao/internal/adapters/storage/gallery"
	liveStore "batalhao/internal/adapters/storage/livestream"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	domainAccount "batalhao/internal/domain/account"
	domainGallery "batalhao/internal/domain/gallery"
	domainHierarchy "batalhao/internal/domain/hierarchy"
	domainLive "batalhao/internal/domain/livestream"
	domainUniform "batalhao/internal/domain/uniform"
	domainVideo "batalhao/internal/domain/video"
)

// GalleryStore interface for gallery queries.
type GalleryStore interface {
	List(ctx context.Context, filter galleryStore.ListFilter) ([]domainGallery.Image, error)
}

// VideoStore interface for video queries.
type VideoStore interface {
	List(ctx context.Context) ([]domainVideo.Video, error)
	GetByID(ctx context.Context, id string) (domainVideo.Video, error)
}

// UniformStore interface for uniform queries.
type UniformStore interface {
	List(ctx context.Context, filter uniformStore.ListFilter) ([]domainUniform.Uniform, error)
}

// HierarchyStore interface for hierarchy queries.
type HierarchyStore interface {
	List(ctx context.Context) ([]domainHierarchy.Entry, error)
}

// LiveNoticeStore interface for live notice queries.
type LiveNoticeStore interface {
	List(ctx context.Context, filter liveStore.ListFilter) ([]domainLive.Notice, error)
}

// AccountStore interface for account queries.
type AccountStore interface {
	List(ctx context.Context, filter accountStore.ListFilter) ([]domainAccount.Account, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
}
