package routing

import (
	"net/http"
	"strings"

	"realmgate/pkg/audit"
)

// RequestContext carries everything the resolver, probe and validator need
// from the incoming request. It is built once per request and passed down
// explicitly.
type RequestContext struct {
	RealmName string
	ClientID  string
	Origin    string
	Cookies   []*http.Cookie
	Conn      audit.ClientConnection
	BaseURI   string // scheme://host[:port] of this server as seen by the caller
}

// NewRequestContext reads the request. X-Forwarded-Proto and X-Forwarded-Host
// only shape BaseURI when trustProxy is set.
func NewRequestContext(r *http.Request, realmName string, trustProxy bool) RequestContext {
	q := r.URL.Query()
	return RequestContext{
		RealmName: realmName,
		ClientID:  q.Get("client_id"),
		Origin:    q.Get("origin"),
		Cookies:   r.Cookies(),
		Conn:      audit.ClientConnection{RemoteAddr: r.RemoteAddr, UserAgent: r.UserAgent()},
		BaseURI:   baseURI(r, trustProxy),
	}
}

func baseURI(r *http.Request, trustProxy bool) string {
	scheme := "http"
	if r.TLS != nil || (trustProxy && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")) {
		scheme = "https"
	}
	host := r.Host
	if fh := r.Header.Get("X-Forwarded-Host"); trustProxy && fh != "" {
		host = fh
	}
	return scheme + "://" + host
}
