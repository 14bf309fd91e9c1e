package orchestrators

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"batalhao/internal/domain/uniform"
)

// UniformStoreForOrchestrator is the store surface uniform commands need.
type UniformStoreForOrchestrator interface {
	Insert(ctx context.Context, u uniform.Uniform) error
	Delete(ctx context.Context, id string) (uniform.Uniform, bool, error)
}

// CreateUniformInput carries the multipart fields of a uniform upload.
type CreateUniformInput struct {
	Name        string
	Description string
	Type        string
	File        io.Reader
}

// CreateUniformDeps holds dependencies for CreateUniform.
type CreateUniformDeps struct {
	UniformStore UniformStoreForOrchestrator
	Files        ImageFiles
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateUniform stores the reference picture under uploads/uniforms and the record.
func ExecuteCreateUniform(ctx context.Context, input CreateUniformInput, deps CreateUniformDeps) (uniform.Uniform, error) {
	u := uniform.Uniform{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Type:        strings.TrimSpace(input.Type),
		CreatedAt:   deps.Now(),
	}
	if err := u.Validate(); err != nil && !errors.Is(err, uniform.ErrEmptyFilename) {
		return uniform.Uniform{}, err
	}
	if input.File == nil {
		return uniform.Uniform{}, uniform.ErrEmptyFilename
	}

	path, err := deps.Files.SaveImage("uniforms", u.ID, input.File)
	if err != nil {
		return uniform.Uniform{}, err
	}
	u.Filename = path

	if err := deps.UniformStore.Insert(ctx, u); err != nil {
		if rmErr := deps.Files.Remove(path); rmErr != nil {
			slog.Warn("uniform_event", "event", "orphan_upload", "path", path, "error", rmErr)
		}
		return uniform.Uniform{}, err
	}

	slog.Info("uniform_event", "event", "uniform_created", "uniform_id", u.ID, "type", u.Type)
	return u, nil
}

// DeleteUniformInput carries input for DeleteUniform.
type DeleteUniformInput struct {
	ID string
}

// DeleteUniformDeps holds dependencies for DeleteUniform.
type DeleteUniformDeps struct {
	UniformStore UniformStoreForOrchestrator
	Files        ImageFiles
}

// ExecuteDeleteUniform removes the record, then its picture when it lives under /uploads/.
func ExecuteDeleteUniform(ctx context.Context, input DeleteUniformInput, deps DeleteUniformDeps) (uniform.Uniform, error) {
	if input.ID == "" {
		return uniform.Uniform{}, ErrMissingID
	}
	removed, found, err := deps.UniformStore.Delete(ctx, input.ID)
	if err != nil {
		return uniform.Uniform{}, err
	}
	if !found {
		return uniform.Uniform{}, uniform.ErrNotFound
	}
	if deps.Files != nil && strings.Contains(removed.Filename, "/uploads/") {
		if err := deps.Files.Remove(removed.Filename); err != nil {
			slog.Warn("uniform_event", "event", "file_remove_failed", "uniform_id", removed.ID, "error", err)
		}
	}

	slog.Info("uniform_event", "event", "uniform_deleted", "uniform_id", removed.ID)
	return removed, nil
}
