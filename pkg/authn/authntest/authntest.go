// Package authntest builds realm signing keys and identity cookies for tests.
package authntest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type RealmKey struct {
	Private *rsa.PrivateKey
	PEM     string
}

func NewRealmKey(t testing.TB) RealmKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return RealmKey{
		Private: priv,
		PEM:     string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
	}
}

// Token signs an identity token for subject, issued by realm, valid for ttl
// (negative ttl yields an expired token).
func (k RealmKey) Token(t testing.TB, realm, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	tok := jwt.New()
	_ = tok.Set(jwt.IssuerKey, realm)
	_ = tok.Set(jwt.SubjectKey, subject)
	_ = tok.Set(jwt.IssuedAtKey, now.Add(-time.Minute))
	_ = tok.Set(jwt.ExpirationKey, now.Add(ttl))
	_ = tok.Set("preferred_username", subject+"@"+realm)
	_ = tok.Set("session_state", "state-"+subject)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, k.Private))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

// Cookie wraps a signed token into the named identity cookie.
func (k RealmKey) Cookie(t testing.TB, name, realm, subject string) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: name, Value: k.Token(t, realm, subject, time.Hour)}
}
