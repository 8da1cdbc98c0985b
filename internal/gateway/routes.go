// internal/gateway/routes.go
package gateway

import (
	"net/http"
	"regexp"
	"strings"
)

// Intent is the closed set of things a request can ask the gateway to do.
type Intent int

const (
	IntentNone Intent = iota
	IntentIssueToken
	IntentDownload
	IntentStream
	IntentThumbnail
)

func (i Intent) String() string {
	switch i {
	case IntentIssueToken:
		return "issue_token"
	case IntentDownload:
		return "download"
	case IntentStream:
		return "stream"
	case IntentThumbnail:
		return "thumbnail"
	}
	return "none"
}

// Route is the classified form of a request. Handlers never re-parse the path.
type Route struct {
	Intent   Intent
	Tenant   string
	Resource string // resource id, or the nested path under hls/
}

// Tenant slugs are lowercase alphanumerics and hyphens, same rule the page
// generator enforces at provisioning time.
var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// Classify maps method + path onto exactly one intent. A wrong verb on a
// known path is IntentNone, not a 405: the router does not confirm which
// routes exist.
func Classify(method, rawPath string) Route {
	// Only the leading slash is stripped; a trailing slash must survive so
	// the per-intent guards below can reject it.
	p := strings.TrimPrefix(rawPath, "/")
	parts := strings.SplitN(p, "/", 3)
	if len(parts) < 2 || !slugRe.MatchString(parts[0]) {
		return Route{}
	}
	tenant := parts[0]
	switch {
	case method == http.MethodPost && len(parts) == 2 && parts[1] == "auth":
		return Route{Intent: IntentIssueToken, Tenant: tenant}
	case method == http.MethodPost && len(parts) == 3 && parts[1] == "download":
		if id := parts[2]; id != "" && !strings.Contains(id, "/") {
			return Route{Intent: IntentDownload, Tenant: tenant, Resource: id}
		}
	case method == http.MethodGet && len(parts) == 3 && parts[1] == "hls":
		if rest := parts[2]; rest != "" && !strings.HasSuffix(rest, "/") {
			return Route{Intent: IntentStream, Tenant: tenant, Resource: rest}
		}
	case method == http.MethodGet && len(parts) == 3 && parts[1] == "thumbs":
		if id := parts[2]; strings.HasSuffix(id, ".jpg") && id != ".jpg" && !strings.Contains(id, "/") {
			return Route{Intent: IntentThumbnail, Tenant: tenant, Resource: id}
		}
	}
	return Route{}
}
