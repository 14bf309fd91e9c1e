package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"batalhao/internal/domain/livestream"
)

// LiveNoticeStoreForOrchestrator is the store surface live notice commands need.
type LiveNoticeStoreForOrchestrator interface {
	Insert(ctx context.Context, n livestream.Notice) error
	Update(ctx context.Context, id string, fn func(*livestream.Notice) error) (livestream.Notice, error)
	Delete(ctx context.Context, id string) (livestream.Notice, bool, error)
}

// CreateLiveNoticeInput carries input for CreateLiveNotice.
type CreateLiveNoticeInput struct {
	Title     string
	Message   string
	StreamURL string
	Platform  string // detected from StreamURL when empty
	CreatedBy string // AccountID of creator
}

// CreateLiveNoticeDeps holds dependencies for CreateLiveNotice.
type CreateLiveNoticeDeps struct {
	LiveNoticeStore LiveNoticeStoreForOrchestrator
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteCreateLiveNotice publishes a live-stream announcement. New notices start active.
func ExecuteCreateLiveNotice(ctx context.Context, input CreateLiveNoticeInput, deps CreateLiveNoticeDeps) (livestream.Notice, error) {
	n := livestream.Notice{
		ID:        deps.GenerateID(),
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
		StreamURL: strings.TrimSpace(input.StreamURL),
		Platform:  strings.ToLower(strings.TrimSpace(input.Platform)),
		Active:    true,
		CreatedBy: input.CreatedBy,
		CreatedAt: deps.Now(),
	}
	if n.Platform == "" {
		n.Platform = livestream.DetectPlatform(n.StreamURL)
	}
	if err := n.Validate(); err != nil {
		return livestream.Notice{}, err
	}
	if err := deps.LiveNoticeStore.Insert(ctx, n); err != nil {
		return livestream.Notice{}, err
	}

	slog.Info("live_event", "event", "live_created", "notice_id", n.ID, "platform", n.Platform, "created_by", n.CreatedBy)
	return n, nil
}

// SetLiveNoticeActiveInput toggles a notice on or off.
type SetLiveNoticeActiveInput struct {
	ID     string
	Active bool
}

// SetLiveNoticeActiveDeps holds dependencies for SetLiveNoticeActive.
type SetLiveNoticeActiveDeps struct {
	LiveNoticeStore LiveNoticeStoreForOrchestrator
}

// ExecuteSetLiveNoticeActive ends or re-opens a live announcement.
func ExecuteSetLiveNoticeActive(ctx context.Context, input SetLiveNoticeActiveInput, deps SetLiveNoticeActiveDeps) (livestream.Notice, error) {
	if input.ID == "" {
		return livestream.Notice{}, ErrMissingID
	}
	n, err := deps.LiveNoticeStore.Update(ctx, input.ID, func(n *livestream.Notice) error {
		n.Active = input.Active
		return nil
	})
	if err != nil {
		return livestream.Notice{}, err
	}
	slog.Info("live_event", "event", "live_toggled", "notice_id", n.ID, "active", n.Active)
	return n, nil
}

// DeleteLiveNoticeInput carries input for DeleteLiveNotice.
type DeleteLiveNoticeInput struct {
	ID string
}

// DeleteLiveNoticeDeps holds dependencies for DeleteLiveNotice.
type DeleteLiveNoticeDeps struct {
	LiveNoticeStore LiveNoticeStoreForOrchestrator
}

// ExecuteDeleteLiveNotice removes a notice.
func ExecuteDeleteLiveNotice(ctx context.Context, input DeleteLiveNoticeInput, deps DeleteLiveNoticeDeps) (livestream.Notice, error) {
	if input.ID == "" {
		return livestream.Notice{}, ErrMissingID
	}
	removed, found, err := deps.LiveNoticeStore.Delete(ctx, input.ID)
	if err != nil {
		return livestream.Notice{}, err
	}
	if !found {
		return livestream.Notice{}, livestream.ErrNotFound
	}
	slog.Info("live_event", "event", "live_deleted", "notice_id", removed.ID)
	return removed, nil
}
