// pkg/realms/memory.go
package realms

import (
	"context"

	"go.uber.org/zap"
)

// memProvider is immutable after construction, so lookups need no locking.
type memProvider struct {
	byName map[string]*Realm
}

// NewMemoryProvider serves a fixed set of realms.
func NewMemoryProvider(realms ...*Realm) Provider {
	p := &memProvider{byName: make(map[string]*Realm, len(realms))}
	for _, r := range realms {
		p.byName[r.Name] = r
	}
	return p
}

// NewMemoryProviderFromSeeds builds the dev store. Without seeds it serves a
// single "master" realm with a localhost console client and the account app.
func NewMemoryProviderFromSeeds(seeds []Seed, log *zap.SugaredLogger) Provider {
	if len(seeds) == 0 {
		log.Infow("no realm seed configured, serving dev realm", "realm", "master")
		return NewMemoryProvider(devRealm())
	}
	realms := make([]*Realm, 0, len(seeds))
	for _, s := range seeds {
		realms = append(realms, s.Realm())
	}
	log.Infow("realm store seeded", "realms", len(realms))
	return NewMemoryProvider(realms...)
}

func devRealm() *Realm {
	return NewRealm("master", "",
		&Client{
			ClientID:     "console",
			Kind:         KindApplication,
			Enabled:      true,
			WebOrigins:   []string{"http://localhost:3000"},
			RedirectURIs: []string{"http://localhost:3000/*"},
		},
		&Client{ClientID: AccountManagementApp, Kind: KindApplication, Enabled: true, RedirectURIs: []string{"/realms/master/account/*"}},
	)
}

func (m *memProvider) FindRealmByName(_ context.Context, name string) (*Realm, error) {
	if r, ok := m.byName[name]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}
