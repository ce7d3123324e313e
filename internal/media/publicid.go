package media

import (
	"path"
	"regexp"
	"strings"
)

var versionRe = regexp.MustCompile(`^v\d+$`)

// ExtractPublicID recovers the opaque identifier from a media URL: the path
// segments following the upload/ marker and its version segment, with the
// file extension stripped. Returns false when the URL does not carry the
// marker.
func ExtractPublicID(url string) (string, bool) {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}

	rest := url[i+len(marker):]
	// Drop query string if any.
	if q := strings.IndexByte(rest, '?'); q >= 0 {
		rest = rest[:q]
	}

	segments := strings.Split(rest, "/")
	if len(segments) < 2 || !versionRe.MatchString(segments[0]) {
		return "", false
	}

	id := strings.Join(segments[1:], "/")
	if ext := path.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	if id == "" {
		return "", false
	}
	return id, true
}
