// Package resource defines what the realm router hands to a sub-resource.
package resource

import (
	"net/http"

	"go.uber.org/zap"

	"realmgate/pkg/audit"
	"realmgate/pkg/authn"
	"realmgate/pkg/realms"
)

// Deps are built fresh for every delegated request. Audit and Auth are never
// shared between requests.
type Deps struct {
	Realm       *realms.Realm
	Application *realms.Client // account management app; nil outside the account route
	Keys        *authn.KeyStore
	Audit       *audit.Writer
	Auth        *authn.Manager
	RealmURL    string // public URL of the realm, e.g. https://id.example.com/realms/demo
	Log         *zap.SugaredLogger
}

// Factory builds the handler that owns a realm sub-path. The handler sees
// request paths relative to its mount point ("/" for the mount itself).
type Factory func(Deps) http.Handler
