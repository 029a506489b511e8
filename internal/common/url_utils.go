package common

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeURLPattern = regexp.MustCompile(`(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

// IsYouTubeURL reports whether the given string looks like a YouTube video URL.
func IsYouTubeURL(raw string) bool {
	return youtubeURLPattern.MatchString(raw)
}

// YouTubeVideoKey extracts the 11-character video key from a YouTube URL.
// Supports youtube.com/watch?v=<key>, youtu.be/<key>, youtube.com/embed/<key>
// and youtube.com/shorts/<key>. Returns "" when no key can be derived.
func YouTubeVideoKey(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(parsed.Path, "/")
	case "youtube.com", "m.youtube.com":
		if v := parsed.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				rest := strings.TrimPrefix(parsed.Path, prefix)
				if i := strings.Index(rest, "/"); i >= 0 {
					rest = rest[:i]
				}
				return rest
			}
		}
	}
	return ""
}
