package projections

import (
	"context"
	"strings"

	galleryStore "batalhao/internal/adapters/storage/gallery"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	"batalhao/internal/domain/gallery"
	"batalhao/internal/domain/hierarchy"
	"batalhao/internal/domain/uniform"
	"batalhao/internal/domain/video"
)

// ListGalleryImagesQuery carries the optional category filter.
type ListGalleryImagesQuery struct {
	Category string
}

// ListGalleryImagesDeps holds dependencies for ListGalleryImages.
type ListGalleryImagesDeps struct {
	GalleryStore GalleryStore
}

// QueryListGalleryImages returns gallery images, filtered by category when given.
// An unknown category matches nothing.
// POST: result is never nil
func QueryListGalleryImages(ctx context.Context, query ListGalleryImagesQuery, deps ListGalleryImagesDeps) ([]gallery.Image, error) {
	category := strings.TrimSpace(query.Category)
	if category != "" && !gallery.IsValidCategory(category) {
		return []gallery.Image{}, nil
	}
	images, err := deps.GalleryStore.List(ctx, galleryStore.ListFilter{Category: category})
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []gallery.Image{}
	}
	return images, nil
}

// ListVideosDeps holds dependencies for the video queries.
type ListVideosDeps struct {
	VideoStore VideoStore
}

// QueryListVideos returns every video.
func QueryListVideos(ctx context.Context, deps ListVideosDeps) ([]video.Video, error) {
	videos, err := deps.VideoStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []video.Video{}
	}
	return videos, nil
}

// QueryGetVideo returns one video or video.ErrNotFound.
func QueryGetVideo(ctx context.Context, id string, deps ListVideosDeps) (video.Video, error) {
	return deps.VideoStore.GetByID(ctx, id)
}

// ListUniformsQuery carries the optional type filter.
type ListUniformsQuery struct {
	Type string
}

// ListUniformsDeps holds dependencies for ListUniforms.
type ListUniformsDeps struct {
	UniformStore UniformStore
}

// QueryListUniforms returns uniforms, filtered by type when given.
func QueryListUniforms(ctx context.Context, query ListUniformsQuery, deps ListUniformsDeps) ([]uniform.Uniform, error) {
	if query.Type != "" && !uniform.IsValidType(query.Type) {
		return []uniform.Uniform{}, nil
	}
	list, err := deps.UniformStore.List(ctx, uniformStore.ListFilter{Type: query.Type})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []uniform.Uniform{}
	}
	return list, nil
}

// ListHierarchyDeps holds dependencies for ListHierarchy.
type ListHierarchyDeps struct {
	HierarchyStore HierarchyStore
}

// QueryListHierarchy returns the chain of command ordered by Order, then Name.
func QueryListHierarchy(ctx context.Context, deps ListHierarchyDeps) ([]hierarchy.Entry, error) {
	entries, err := deps.HierarchyStore.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]hierarchy.Entry, len(entries))
	copy(out, entries)
	hierarchy.Sort(out)
	return out, nil
}
