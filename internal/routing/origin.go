package routing

import (
	"strings"

	"realmgate/pkg/realms"
)

// schemeMin is the length of "https://"; the origin of a redirect URI ends at
// the first '/' found at this offset or later.
const schemeMin = len("https://")

// RedirectOrigin reduces a redirect URI to its origin by byte offset rather
// than URI parsing: "https://app.example.com:8443/cb" -> "https://app.example.com:8443".
// A URI with no '/' past the scheme is returned whole.
func RedirectOrigin(uri string) string {
	if len(uri) <= schemeMin {
		return uri
	}
	if i := strings.IndexByte(uri[schemeMin:], '/'); i >= 0 {
		return uri[:schemeMin+i]
	}
	return uri
}

// ResolveRedirects makes relative redirect URIs absolute against baseURI.
// Relative entries are dropped when baseURI is empty.
func ResolveRedirects(baseURI string, uris []string) []string {
	out := make([]string, 0, len(uris))
	for _, u := range uris {
		if strings.HasPrefix(u, "/") {
			if baseURI == "" {
				continue
			}
			u = strings.TrimRight(baseURI, "/") + u
		}
		out = append(out, u)
	}
	return out
}

// OriginValidator decides whether an origin may embed the login status
// iframe for a client. The zero value ignores relative redirect URIs.
type OriginValidator struct {
	BaseURI string
}

// IsAllowed reports whether origin matches one of the client's web origins,
// the wildcard, or the origin of one of its redirect URIs.
func (v OriginValidator) IsAllowed(origin string, client *realms.Client) bool {
	if client == nil {
		return false
	}
	for _, o := range client.WebOrigins {
		if o == realms.WildcardOrigin || (o != "" && o == origin) {
			return true
		}
	}
	if origin == "" {
		return false
	}
	for _, r := range ResolveRedirects(v.BaseURI, client.RedirectURIs) {
		if RedirectOrigin(r) == origin {
			return true
		}
	}
	return false
}
