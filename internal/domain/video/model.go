package video

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"batalhao/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxThumbnailLength   = 2048
)

// Domain errors
var (
	ErrEmptyTitle         = validation.New("título é obrigatório")
	ErrTitleTooLong       = validation.New("título não pode exceder 200 caracteres")
	ErrEmptyDescription   = validation.New("descrição é obrigatória")
	ErrDescriptionTooLong = validation.New("descrição não pode exceder 5000 caracteres")
	ErrEmptyYouTubeID     = validation.New("youtubeId é obrigatório")
	ErrInvalidYouTubeID   = validation.New("youtubeId inválido: deve ter 11 caracteres (letras, números, _ ou -)")
	ErrThumbnailTooLong   = validation.New("thumbnail não pode exceder 2048 caracteres")
	ErrEmptyPatch         = validation.New("nenhum campo para atualizar")
	ErrNotFound           = errors.New("vídeo não encontrado")
)

var youtubeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Video is an embedded YouTube video shown on the portal.
// INVARIANT: YouTubeID matches youtubeIDPattern once persisted.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	YouTubeID   string    `json:"youtubeId"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	YouTubeID   *string
	Thumbnail   *string
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.YouTubeID == nil && p.Thumbnail == nil
}

// IsValidYouTubeID reports whether id looks like a YouTube video ID.
func IsValidYouTubeID(id string) bool {
	return youtubeIDPattern.MatchString(id)
}

// ThumbnailURL returns the high-resolution YouTube thumbnail for a video ID.
func ThumbnailURL(youtubeID string) string {
	return "https://img.youtube.com/vi/" + youtubeID + "/maxresdefault.jpg"
}

// Validate checks if the Video has valid data.
// PRE: Video struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (v *Video) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return ErrEmptyTitle
	}
	if len(v.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(v.Description) == "" {
		return ErrEmptyDescription
	}
	if len(v.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if v.YouTubeID == "" {
		return ErrEmptyYouTubeID
	}
	if !IsValidYouTubeID(v.YouTubeID) {
		return ErrInvalidYouTubeID
	}
	if len(v.Thumbnail) > MaxThumbnailLength {
		return ErrThumbnailTooLong
	}
	return nil
}

// EnsureThumbnail fills Thumbnail from YouTubeID when it is empty.
// POST: Thumbnail is non-empty if YouTubeID is set
func (v *Video) EnsureThumbnail() {
	if v.Thumbnail == "" && v.YouTubeID != "" {
		v.Thumbnail = ThumbnailURL(v.YouTubeID)
	}
}

// Apply merges the patch into the video.
// A changed YouTubeID without an explicit Thumbnail recomputes the thumbnail;
// an explicit empty Thumbnail falls back to the derived URL.
// PRE: p is not empty
// POST: provided fields are replaced, UpdatedAt is now; caller must Validate
func (v *Video) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.YouTubeID != nil && *p.YouTubeID != v.YouTubeID {
		v.YouTubeID = *p.YouTubeID
		if p.Thumbnail == nil {
			v.Thumbnail = ThumbnailURL(v.YouTubeID)
		}
	}
	if p.Thumbnail != nil {
		v.Thumbnail = *p.Thumbnail
	}
	v.EnsureThumbnail()
	v.UpdatedAt = now
}
