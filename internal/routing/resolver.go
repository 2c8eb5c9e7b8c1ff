package routing

import (
	"context"
	"errors"

	"realmgate/pkg/realms"
)

// Resolver maps a realm name from the path to the stored realm.
type Resolver struct {
	store realms.Provider
}

func NewResolver(store realms.Provider) *Resolver { return &Resolver{store: store} }

// Resolve never retries; a store miss is ErrTenantNotFound, any other store
// failure is ErrUpstream.
func (r *Resolver) Resolve(ctx context.Context, name string) (*realms.Realm, error) {
	if name == "" {
		return nil, newError(KindTenantNotFound, "realm name is empty", nil)
	}
	realm, err := r.store.FindRealmByName(ctx, name)
	if errors.Is(err, realms.ErrNotFound) || (err == nil && realm == nil) {
		return nil, newError(KindTenantNotFound, "realm "+name+" not found", nil)
	}
	if err != nil {
		return nil, newError(KindUpstream, "realm lookup failed", err)
	}
	return realm, nil
}
