package exercise

import "strings"

const (
	watchMarker = "watch?v="
	shortHost   = "youtu.be/"
	embedPrefix = "https://www.youtube.com/embed/"
)

// NormalizeVideoURL rewrites YouTube watch and short links to their embeddable
// form. Any other URL is returned unchanged and treated as direct media.
func NormalizeVideoURL(url string) string {
	switch {
	case strings.Contains(url, watchMarker):
		return strings.Replace(url, watchMarker, "embed/", 1)
	case strings.Contains(url, shortHost):
		_, id, _ := strings.Cut(url, shortHost)
		return embedPrefix + id
	default:
		return url
	}
}
