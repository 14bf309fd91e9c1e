package livestream

import (
	"errors"
	"testing"
)

func validNotice() Notice {
	return Notice{
		Title:     "Patrulha ao vivo",
		Message:   "**Hoje** às 20h",
		StreamURL: "https://www.twitch.tv/batalhao",
		Platform:  PlatformTwitch,
		Active:    true,
		CreatedBy: "acct-1",
	}
}

// TestNotice_Validate_Valid tests that a populated notice passes validation.
func TestNotice_Validate_Valid(t *testing.T) {
	n := validNotice()
	if err := n.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestNotice_Validate_BadURL tests that non-http URLs are rejected.
func TestNotice_Validate_BadURL(t *testing.T) {
	for _, raw := range []string{"", "javascript:alert(1)", "ftp://twitch.tv/x", "twitch.tv/batalhao"} {
		n := validNotice()
		n.StreamURL = raw
		if err := n.Validate(); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("url %q: got %v, want ErrInvalidURL", raw, err)
		}
	}
}

// TestNotice_Validate_BadPlatform tests that unknown platforms are rejected.
func TestNotice_Validate_BadPlatform(t *testing.T) {
	n := validNotice()
	n.Platform = "facebook"
	if err := n.Validate(); !errors.Is(err, ErrInvalidPlatform) {
		t.Errorf("got %v, want ErrInvalidPlatform", err)
	}
}

// TestDetectPlatform tests platform inference from URL hosts.
func TestDetectPlatform(t *testing.T) {
	cases := map[string]string{
		"https://www.twitch.tv/batalhao":            PlatformTwitch,
		"https://youtu.be/dQw4w9WgXcQ":              PlatformYouTube,
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ": PlatformYouTube,
		"https://kick.com/batalhao":                 PlatformKick,
		"https://example.com/live":                  "",
		"::not a url":                               "",
	}
	for raw, want := range cases {
		if got := DetectPlatform(raw); got != want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", raw, got, want)
		}
	}
}
