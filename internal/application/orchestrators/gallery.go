package orchestrators

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"batalhao/internal/domain/gallery"
)

// GalleryStoreForOrchestrator is the store surface gallery commands need.
type GalleryStoreForOrchestrator interface {
	Insert(ctx context.Context, img gallery.Image) error
	Delete(ctx context.Context, id string) (gallery.Image, bool, error)
}

// --- Create Gallery Image ---

// CreateGalleryImageInput carries the multipart fields of an upload.
type CreateGalleryImageInput struct {
	Title       string
	Description string
	Category    string
	File        io.Reader // nil when no file was sent
}

// CreateGalleryImageDeps holds dependencies for CreateGalleryImage.
type CreateGalleryImageDeps struct {
	GalleryStore GalleryStoreForOrchestrator
	Files        ImageFiles
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateGalleryImage validates the fields, stores the picture under
// uploads/gallery and appends the record.
// PRE: Title non-empty, Category valid, File present and an image
// POST: file on disk and record persisted, or neither
func ExecuteCreateGalleryImage(ctx context.Context, input CreateGalleryImageInput, deps CreateGalleryImageDeps) (gallery.Image, error) {
	img := gallery.Image{
		ID:          deps.GenerateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		CreatedAt:   deps.Now(),
	}
	// Filename is checked last by Validate, so any other failure surfaces first.
	if err := img.Validate(); err != nil && !errors.Is(err, gallery.ErrEmptyFilename) {
		return gallery.Image{}, err
	}
	if input.File == nil {
		return gallery.Image{}, gallery.ErrEmptyFilename
	}

	path, err := deps.Files.SaveImage("gallery", img.ID, input.File)
	if err != nil {
		return gallery.Image{}, err
	}
	img.Filename = path

	if err := deps.GalleryStore.Insert(ctx, img); err != nil {
		if rmErr := deps.Files.Remove(path); rmErr != nil {
			slog.Warn("gallery_event", "event", "orphan_upload", "path", path, "error", rmErr)
		}
		return gallery.Image{}, err
	}

	slog.Info("gallery_event", "event", "image_created", "image_id", img.ID, "category", img.Category)
	return img, nil
}

// --- Delete Gallery Image ---

// DeleteGalleryImageInput carries input for DeleteGalleryImage.
type DeleteGalleryImageInput struct {
	ID string
}

// DeleteGalleryImageDeps holds dependencies for DeleteGalleryImage.
type DeleteGalleryImageDeps struct {
	GalleryStore GalleryStoreForOrchestrator
	Files        ImageFiles
}

// ExecuteDeleteGalleryImage removes the record and then, best effort, its file.
// File removal failures are logged and never fail the command.
// PRE: ID non-empty
// POST: record gone; gallery.ErrNotFound when it never existed
func ExecuteDeleteGalleryImage(ctx context.Context, input DeleteGalleryImageInput, deps DeleteGalleryImageDeps) (gallery.Image, error) {
	if input.ID == "" {
		return gallery.Image{}, ErrMissingID
	}

	removed, found, err := deps.GalleryStore.Delete(ctx, input.ID)
	if err != nil {
		return gallery.Image{}, err
	}
	if !found {
		return gallery.Image{}, gallery.ErrNotFound
	}

	if removed.HasUploadedFile() && deps.Files != nil {
		if err := deps.Files.Remove(removed.Filename); err != nil {
			slog.Warn("gallery_event", "event", "file_remove_failed", "image_id", removed.ID, "path", removed.Filename, "error", err)
		}
	}

	slog.Info("gallery_event", "event", "image_deleted", "image_id", removed.ID)
	return removed, nil
}
