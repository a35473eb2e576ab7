// Package video turns public YouTube and Vimeo links into their embeddable
// player URLs.
package video

import (
	"regexp"
	"strings"
)

var (
	youtubePattern = regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#\s]*&)?v=|youtu\.be/|youtube(?:-nocookie)?\.com/embed/)([A-Za-z0-9_-]{11})`)
	vimeoPattern   = regexp.MustCompile(`(?:player\.vimeo\.com/video/|vimeo\.com/)(\d+)`)
)

const (
	youtubeEmbedBase = "https://www.youtube.com/embed/"
	vimeoEmbedBase   = "https://player.vimeo.com/video/"
)

// Match returns the embed URL for a recognised YouTube or Vimeo link.
func Match(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if m := youtubePattern.FindStringSubmatch(value); m != nil {
		return youtubeEmbedBase + m[1], true
	}
	if m := vimeoPattern.FindStringSubmatch(value); m != nil {
		return vimeoEmbedBase + m[1], true
	}
	return "", false
}

// EmbedURL is Match with pass-through: unrecognised input comes back as given.
func EmbedURL(raw string) string {
	if embed, ok := Match(raw); ok {
		return embed
	}
	return raw
}
