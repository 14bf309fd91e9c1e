package livestream

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"batalhao/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength   = 200
	MaxMessageLength = 4000
	MaxURLLength     = 2048
)

// Streaming platforms
const (
	PlatformTwitch  = "twitch"
	PlatformYouTube = "youtube"
	PlatformKick    = "kick"
)

// ValidPlatforms contains all supported platforms.
var ValidPlatforms = []string{PlatformTwitch, PlatformYouTube, PlatformKick}

// Domain errors
var (
	ErrEmptyTitle      = validation.New("título é obrigatório")
	ErrTitleTooLong    = validation.New("título não pode exceder 200 caracteres")
	ErrMessageTooLong  = validation.New("mensagem não pode exceder 4000 caracteres")
	ErrInvalidURL      = validation.New("link da transmissão deve ser uma URL http ou https")
	ErrInvalidPlatform = validation.New("plataforma deve ser uma de: twitch, youtube, kick")
	ErrEmptyCreatedBy  = validation.New("autor do aviso é obrigatório")
	ErrNotFound        = errors.New("aviso de live não encontrado")
)

// Notice announces a member's live stream. Message supports Markdown.
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	StreamURL string    `json:"streamUrl"`
	Platform  string    `json:"platform"`
	Active    bool      `json:"active"`
	CreatedBy string    `json:"createdBy"` // AccountID of creator
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks if the Notice has valid data.
// PRE: Notice struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (n *Notice) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if len(n.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(n.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if len(n.StreamURL) > MaxURLLength || !isHTTPURL(n.StreamURL) {
		return ErrInvalidURL
	}
	if !IsValidPlatform(n.Platform) {
		return ErrInvalidPlatform
	}
	if n.CreatedBy == "" {
		return ErrEmptyCreatedBy
	}
	return nil
}

// DetectPlatform guesses the platform from a stream URL host.
// Returns "" when the host is not recognised.
func DetectPlatform(streamURL string) string {
	u, err := url.Parse(streamURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "twitch.tv":
		return PlatformTwitch
	case "youtube.com", "youtu.be":
		return PlatformYouTube
	case "kick.com":
		return PlatformKick
	}
	return ""
}

// IsValidPlatform reports whether p is a supported platform.
func IsValidPlatform(p string) bool {
	for _, v := range ValidPlatforms {
		if v == p {
			return true
		}
	}
	return false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
