package authn

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"realmgate/pkg/bruteforce"
	"realmgate/pkg/realms"
)

// Identity is the subject behind a valid identity cookie.
type Identity struct {
	Subject      string
	Username     string
	SessionState string
	IssuedAt     time.Time
}

// Manager validates identity cookies for one request. Create a fresh Manager
// per request; it holds no state beyond its collaborators.
type Manager struct {
	keys       *KeyStore
	cookieName string
	protector  bruteforce.Protector // optional
}

func NewManager(keys *KeyStore, cookieName string, protector bruteforce.Protector) *Manager {
	return &Manager{keys: keys, cookieName: cookieName, protector: protector}
}

func (m *Manager) CookieName() string { return m.cookieName }

// AuthenticateIdentityCookie returns (nil, nil) when the cookie is missing,
// malformed, expired, not issued by the realm, or its subject is locked out.
// An error means the realm or a collaborator could not be consulted.
func (m *Manager) AuthenticateIdentityCookie(ctx context.Context, realm *realms.Realm, cookies []*http.Cookie) (*Identity, error) {
	raw := ""
	for _, c := range cookies {
		if c.Name == m.cookieName {
			raw = c.Value
			break
		}
	}
	if raw == "" {
		return nil, nil
	}

	key, err := m.keys.Key(realm)
	if err != nil {
		return nil, err
	}
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.RS256, key),
		jwt.WithValidate(true),
		jwt.WithIssuer(realm.Name),
	)
	if err != nil || tok.Subject() == "" {
		return nil, nil
	}

	if m.protector != nil {
		locked, err := m.protector.IsTemporarilyDisabled(ctx, realm.Name, tok.Subject())
		if err != nil {
			return nil, fmt.Errorf("brute force check: %w", err)
		}
		if locked {
			return nil, nil
		}
	}

	id := &Identity{Subject: tok.Subject(), IssuedAt: tok.IssuedAt()}
	if v, ok := tok.Get("preferred_username"); ok {
		id.Username, _ = v.(string)
	}
	if v, ok := tok.Get("session_state"); ok {
		id.SessionState, _ = v.(string)
	}
	return id, nil
}

// ExpireCookie returns a cookie that removes the identity cookie for the realm.
func (m *Manager) ExpireCookie(path string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	}
}
