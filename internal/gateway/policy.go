// internal/gateway/policy.go
package gateway

import (
	"strings"
)

// Cache lifetimes per asset class. Playlists get rewritten when a film is
// re-cut; segments and thumbnails are content-addressed and never change.
const (
	cacheShort     = "public, max-age=3600"
	cacheImmutable = "public, max-age=31536000, immutable"
	cacheNone      = "no-store"
)

// AssetHeaders maps a public asset name to its content type and cache
// directive, by extension.
func AssetHeaders(name string) (contentType, cacheControl string) {
	switch {
	case strings.HasSuffix(name, ".m3u8"):
		return "application/vnd.apple.mpegurl", cacheShort
	case strings.HasSuffix(name, ".ts"):
		return "video/mp2t", cacheImmutable
	case strings.HasSuffix(name, ".jpg"):
		return "image/jpeg", cacheImmutable
	}
	return "application/octet-stream", cacheShort
}

// AllowOrigin decides the Access-Control-Allow-Origin value. The caller's
// Origin is echoed back only for the canonical site apex or one of its direct
// subdomains, https only; everything else gets the wildcard.
func AllowOrigin(origin, apex string) string {
	const scheme = "https://"
	if !strings.HasPrefix(origin, scheme) {
		return "*"
	}
	host := origin[len(scheme):]
	if host == apex {
		return origin
	}
	if sub, ok := strings.CutSuffix(host, "."+apex); ok {
		if sub != "" && !strings.ContainsAny(sub, "./:") {
			return origin
		}
	}
	return "*"
}
