package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"realmgate/pkg/realms"
)

func TestRedirectOrigin(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"https://app.example.com/callback", "https://app.example.com"},
		{"https://app.example.com:8443/a/b?c=d", "https://app.example.com:8443"},
		{"http://app.example.com/cb", "http://app.example.com"},
		{"https://app.example.com", "https://app.example.com"},
		// the search starts at offset 8, which is the slash after a one-letter http host
		{"http://a/cb", "http://a"},
		{"http://ab", "http://ab"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedirectOrigin(tt.uri), tt.uri)
	}
}

func TestResolveRedirects(t *testing.T) {
	uris := []string{"https://app.example.com/cb", "/realms/demo/account/*"}

	assert.Equal(t,
		[]string{"https://app.example.com/cb", "https://id.example.com/realms/demo/account/*"},
		ResolveRedirects("https://id.example.com/", uris))
	assert.Equal(t, []string{"https://app.example.com/cb"}, ResolveRedirects("", uris))
	assert.Empty(t, ResolveRedirects("https://id.example.com", nil))
}

func TestOriginValidator(t *testing.T) {
	app := &realms.Client{
		ClientID:     "app",
		WebOrigins:   []string{"https://web.example.com"},
		RedirectURIs: []string{"https://cb.example.com:8443/callback", "/local/cb"},
	}
	wild := &realms.Client{ClientID: "wild", WebOrigins: []string{realms.WildcardOrigin}}
	blank := &realms.Client{ClientID: "blank", WebOrigins: []string{""}}

	v := OriginValidator{BaseURI: "https://id.example.com"}

	tests := []struct {
		name   string
		origin string
		client *realms.Client
		want   bool
	}{
		{"web origin", "https://web.example.com", app, true},
		{"redirect origin", "https://cb.example.com:8443", app, true},
		{"relative redirect origin", "https://id.example.com", app, true},
		{"full redirect uri is not an origin", "https://cb.example.com:8443/callback", app, false},
		{"port mismatch", "https://cb.example.com", app, false},
		{"foreign origin", "https://evil.example.com", app, false},
		{"empty origin", "", app, false},
		{"wildcard", "https://anything.example.org", wild, true},
		{"wildcard empty origin", "", wild, true},
		{"empty web origin never matches", "", blank, false},
		{"nil client", "https://web.example.com", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsAllowed(tt.origin, tt.client))
		})
	}

	assert.False(t, OriginValidator{}.IsAllowed("https://id.example.com", app), "relative redirects need a base")
}
