package authn

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"realmgate/pkg/realms"
)

// ErrNoRealmKey is returned when a realm has no signing key configured.
var ErrNoRealmKey = errors.New("realm has no signing key")

// KeyStore turns realm PEM keys into jwk keys. It holds one parsed key per
// realm; a realm whose PEM changed gets its entry replaced on the next lookup.
type KeyStore struct {
	mu   sync.RWMutex
	keys map[string]realmKey
}

type realmKey struct {
	pem string
	key jwk.Key
}

func NewKeyStore() *KeyStore { return &KeyStore{keys: map[string]realmKey{}} }

// Key returns the realm's public verification key.
func (s *KeyStore) Key(realm *realms.Realm) (jwk.Key, error) {
	if realm.PublicKeyPEM == "" {
		return nil, fmt.Errorf("%s: %w", realm.Name, ErrNoRealmKey)
	}
	s.mu.RLock()
	rk, ok := s.keys[realm.Name]
	s.mu.RUnlock()
	if ok && rk.pem == realm.PublicKeyPEM {
		return rk.key, nil
	}

	k, err := parseRealmKey(realm)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rk, ok := s.keys[realm.Name]; ok && rk.pem == realm.PublicKeyPEM {
		return rk.key, nil
	}
	s.keys[realm.Name] = realmKey{pem: realm.PublicKeyPEM, key: k}
	return k, nil
}

func parseRealmKey(realm *realms.Realm) (jwk.Key, error) {
	k, err := jwk.ParseKey([]byte(realm.PublicKeyPEM), jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse key of realm %s: %w", realm.Name, err)
	}
	thumb, err := k.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("thumbprint key of realm %s: %w", realm.Name, err)
	}
	_ = k.Set(jwk.KeyIDKey, base64.RawURLEncoding.EncodeToString(thumb))
	_ = k.Set(jwk.AlgorithmKey, jwa.RS256)
	_ = k.Set(jwk.KeyUsageKey, string(jwk.ForSignature))
	return k, nil
}

// KeySet returns the realm keys as a JWKS document.
func (s *KeyStore) KeySet(realm *realms.Realm) (jwk.Set, error) {
	k, err := s.Key(realm)
	if err != nil {
		return nil, err
	}
	set := jwk.NewSet()
	if err := set.AddKey(k); err != nil {
		return nil, err
	}
	return set, nil
}
