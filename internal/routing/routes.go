package routing

import (
	"net/http"
	"strings"

	"realmgate/pkg/openapi"
)

type RouteName string

const (
	RouteLoginStatusIframe RouteName = "login-status-iframe"
	RouteTokens            RouteName = "tokens"
	RouteAccount           RouteName = "account"
	RouteRealm             RouteName = "realm"
)

// Route describes one entry of the realm route table. Prefix routes own every
// path below Pattern and hand the remainder to their sub-resource.
type Route struct {
	Name    RouteName
	Pattern string
	Method  string // empty: any method
	Prefix  bool
	Summary string
}

// Routes is the realm route table, most specific first.
var Routes = []Route{
	{Name: RouteLoginStatusIframe, Pattern: "/{realm}/login-status-iframe.html", Method: http.MethodGet, Summary: "Cross-origin login status iframe"},
	{Name: RouteTokens, Pattern: "/{realm}/tokens", Prefix: true, Summary: "Token service"},
	{Name: RouteAccount, Pattern: "/{realm}/account", Prefix: true, Summary: "Account management"},
	{Name: RouteRealm, Pattern: "/{realm}", Prefix: true, Summary: "Public realm information"},
}

// Match is the outcome of dispatching a path against Routes.
type Match struct {
	Route RouteName
	Realm string
	Rest  string // path below the route's mount point, always starting with "/"
}

// MatchPath dispatches a path relative to the realms mount point.
func MatchPath(path string) (Match, bool) {
	p := strings.TrimPrefix(path, "/")
	realm, rest, _ := strings.Cut(p, "/")
	if realm == "" {
		return Match{}, false
	}
	m := Match{Realm: realm}
	switch {
	case rest == "login-status-iframe.html":
		m.Route, m.Rest = RouteLoginStatusIframe, "/"
	case rest == "tokens" || strings.HasPrefix(rest, "tokens/"):
		m.Route, m.Rest = RouteTokens, subPath(rest, "tokens")
	case rest == "account" || strings.HasPrefix(rest, "account/"):
		m.Route, m.Rest = RouteAccount, subPath(rest, "account")
	default:
		m.Route, m.Rest = RouteRealm, "/"+rest
	}
	return m, true
}

func subPath(rest, mount string) string {
	if s := strings.TrimPrefix(rest, mount); s != "" {
		return s
	}
	return "/"
}

// OpenAPI documents the route table as mounted under prefix.
func OpenAPI(prefix string) map[string]any {
	reg := openapi.NewRegistry()
	realmParam := openapi.Parameter{Name: "realm", In: "path", Required: true}
	for _, rt := range Routes {
		op := openapi.Operation{
			Method:     rt.Method,
			Path:       prefix + rt.Pattern,
			Summary:    rt.Summary,
			Tags:       []string{"realms"},
			Parameters: []openapi.Parameter{realmParam},
			Responses: map[string]any{
				"404": map[string]any{"description": "Realm not found"},
			},
		}
		if rt.Name == RouteLoginStatusIframe {
			op.Parameters = append(op.Parameters,
				openapi.Parameter{Name: "client_id", In: "query", Required: true},
				openapi.Parameter{Name: "origin", In: "query", Required: true},
			)
			op.Responses["200"] = map[string]any{"description": "Iframe page", "content": map[string]any{"text/html": map[string]any{}}}
			op.Responses["400"] = map[string]any{"description": "Invalid origin"}
			op.Responses["401"] = map[string]any{"description": "Not logged in"}
			op.Security = []string{"identityCookie"}
		}
		if rt.Prefix {
			op.Method = http.MethodGet
			op.Description = "Any method; the sub-resource owns every path below this one."
		}
		reg.Register(op)
	}
	return reg.Build("realms", "v1")
}
