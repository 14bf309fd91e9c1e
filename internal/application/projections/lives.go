package projections

import (
	"bytes"
	"context"
	"html"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	liveStore "batalhao/internal/adapters/storage/livestream"
	"batalhao/internal/domain/livestream"
)

// markdown renders notice messages. Raw HTML in the source is escaped
// because WithUnsafe is not set.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// LiveNoticeView is a notice with its message rendered to HTML.
type LiveNoticeView struct {
	livestream.Notice
	MessageHTML string `json:"messageHtml"`
}

// ListLiveNoticesQuery selects which notices to return.
type ListLiveNoticesQuery struct {
	ActiveOnly bool
}

// ListLiveNoticesDeps holds dependencies for ListLiveNotices.
type ListLiveNoticesDeps struct {
	LiveNoticeStore LiveNoticeStore
}

// QueryListLiveNotices returns notices newest first with rendered messages.
func QueryListLiveNotices(ctx context.Context, query ListLiveNoticesQuery, deps ListLiveNoticesDeps) ([]LiveNoticeView, error) {
	notices, err := deps.LiveNoticeStore.List(ctx, liveStore.ListFilter{ActiveOnly: query.ActiveOnly})
	if err != nil {
		return nil, err
	}
	views := make([]LiveNoticeView, 0, len(notices))
	for _, n := range notices {
		views = append(views, LiveNoticeView{Notice: n, MessageHTML: RenderMarkdown(n.Message)})
	}
	return views, nil
}

// RenderMarkdown converts md to HTML, falling back to escaped text on error.
func RenderMarkdown(md string) string {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err)
		return html.EscapeString(md)
	}
	return buf.String()
}
