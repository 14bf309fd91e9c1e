package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"batalhao/internal/domain/video"
)

// VideoStoreForOrchestrator is the store surface video commands need.
type VideoStoreForOrchestrator interface {
	Insert(ctx context.Context, v video.Video) error
	Update(ctx context.Context, id string, fn func(*video.Video) error) (video.Video, error)
	Delete(ctx context.Context, id string) (video.Video, bool, error)
}

// --- Create Video ---

// CreateVideoInput carries input for CreateVideo.
type CreateVideoInput struct {
	Title       string
	Description string
	YouTubeID   string
	Thumbnail   string // optional; derived from YouTubeID when empty
}

// CreateVideoDeps holds dependencies for CreateVideo.
type CreateVideoDeps struct {
	VideoStore VideoStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateVideo validates and stores a new video.
// PRE: Title, Description and a well-formed YouTubeID
// POST: video persisted with a thumbnail
func ExecuteCreateVideo(ctx context.Context, input CreateVideoInput, deps CreateVideoDeps) (video.Video, error) {
	v := video.Video{
		ID:          deps.GenerateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		YouTubeID:   strings.TrimSpace(input.YouTubeID),
		Thumbnail:   strings.TrimSpace(input.Thumbnail),
		CreatedAt:   deps.Now(),
	}
	v.EnsureThumbnail()

	if err := v.Validate(); err != nil {
		return video.Video{}, err
	}
	if err := deps.VideoStore.Insert(ctx, v); err != nil {
		return video.Video{}, err
	}

	slog.Info("video_event", "event", "video_created", "video_id", v.ID, "youtube_id", v.YouTubeID)
	return v, nil
}

// --- Update Video ---

// UpdateVideoInput carries a partial update. Nil fields are left alone.
type UpdateVideoInput struct {
	ID    string
	Patch video.Patch
}

// UpdateVideoDeps holds dependencies for UpdateVideo.
type UpdateVideoDeps struct {
	VideoStore VideoStoreForOrchestrator
	Now        func() time.Time
}

// ExecuteUpdateVideo merges the provided fields into the stored video.
// PRE: ID non-empty, Patch not empty
// POST: stored video updated; video.ErrNotFound when the id is unknown
func ExecuteUpdateVideo(ctx context.Context, input UpdateVideoInput, deps UpdateVideoDeps) (video.Video, error) {
	if input.ID == "" {
		return video.Video{}, ErrMissingID
	}
	if input.Patch.IsEmpty() {
		return video.Video{}, video.ErrEmptyPatch
	}

	now := deps.Now()
	updated, err := deps.VideoStore.Update(ctx, input.ID, func(v *video.Video) error {
		next := *v
		next.Apply(input.Patch, now)
		if err := next.Validate(); err != nil {
			return err
		}
		*v = next
		return nil
	})
	if err != nil {
		return video.Video{}, err
	}

	slog.Info("video_event", "event", "video_updated", "video_id", updated.ID)
	return updated, nil
}

// --- Delete Video ---

// DeleteVideoInput carries input for DeleteVideo.
type DeleteVideoInput struct {
	ID string
}

// DeleteVideoDeps holds dependencies for DeleteVideo.
type DeleteVideoDeps struct {
	VideoStore VideoStoreForOrchestrator
}

// ExecuteDeleteVideo removes a video.
// PRE: ID non-empty
// POST: video gone; video.ErrNotFound when it never existed
func ExecuteDeleteVideo(ctx context.Context, input DeleteVideoInput, deps DeleteVideoDeps) (video.Video, error) {
	if input.ID == "" {
		return video.Video{}, ErrMissingID
	}
	removed, found, err := deps.VideoStore.Delete(ctx, input.ID)
	if err != nil {
		return video.Video{}, err
	}
	if !found {
		return video.Video{}, video.ErrNotFound
	}

	slog.Info("video_event", "event", "video_deleted", "video_id", removed.ID)
	return removed, nil
}
