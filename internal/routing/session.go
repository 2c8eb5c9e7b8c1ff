package routing

import (
	"context"

	"realmgate/pkg/authn"
	"realmgate/pkg/realms"
)

// SessionProbe checks for a valid identity cookie without touching the
// session.
type SessionProbe struct {
	keys       *authn.KeyStore
	cookieName string
}

func NewSessionProbe(keys *authn.KeyStore, cookieName string) *SessionProbe {
	return &SessionProbe{keys: keys, cookieName: cookieName}
}

// Probe returns the identity behind the request, or nil when there is none.
func (p *SessionProbe) Probe(ctx context.Context, realm *realms.Realm, rc RequestContext) (*authn.Identity, error) {
	id, err := authn.NewManager(p.keys, p.cookieName, nil).AuthenticateIdentityCookie(ctx, realm, rc.Cookies)
	if err != nil {
		return nil, newError(KindUpstream, "session check failed", err)
	}
	return id, nil
}
