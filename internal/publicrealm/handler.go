// Package publicrealm serves what clients may learn about a realm without
// authenticating.
package publicrealm

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"realmgate/internal/resource"
	"realmgate/pkg/problems"
)

// Info is the public realm representation.
type Info struct {
	Realm          string `json:"realm"`
	PublicKey      string `json:"public_key"`
	TokenService   string `json:"token-service"`
	AccountService string `json:"account-service"`
}

// Describe builds the public view of the realm in d.
func Describe(d resource.Deps) Info {
	return Info{
		Realm:          d.Realm.Name,
		PublicKey:      stripPEM(d.Realm.PublicKeyPEM),
		TokenService:   d.RealmURL + "/tokens",
		AccountService: d.RealmURL + "/account",
	}
}

// stripPEM reduces a PEM block to its base64 body.
func stripPEM(pem string) string {
	var b strings.Builder
	for _, line := range strings.Split(pem, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-----") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// New builds the public realm sub-resource for one request.
func New(d resource.Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Describe(d))
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		problems.Write(w, http.StatusNotFound, "not-found", "Not found", "")
	})
	return r
}
