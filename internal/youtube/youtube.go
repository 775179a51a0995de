// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package youtube recognizes YouTube video URLs and converts between the
// watch-page and embed forms.
package youtube

import (
	"fmt"
	"regexp"
)

var (
	watchRe = regexp.MustCompile(`^https?://(www\.)?(youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)(&.*)?$`)
	embedRe = regexp.MustCompile(`^https?://(www\.)?youtube\.com/embed/([a-zA-Z0-9_-]+)(&.*)?$`)
)

// VideoID extracts the video identifier from a watch-page or short URL.
func VideoID(url string) (string, bool) {
	m := watchRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[3], true
}

// EmbedVideoID extracts the video identifier from an embed URL.
func EmbedVideoID(url string) (string, bool) {
	m := embedRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// IsVideoURL reports whether url is a recognized watch-page URL.
func IsVideoURL(url string) bool {
	_, ok := VideoID(url)
	return ok
}

// WatchURL returns the canonical watch-page URL for a video identifier.
func WatchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

// EmbedURL converts a watch-page URL to its embed form. The second return
// is false when url is not a recognized watch URL.
func EmbedURL(url string) (string, bool) {
	id, ok := VideoID(url)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://www.youtube.com/embed/%s", id), true
}
