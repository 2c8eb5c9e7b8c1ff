package publicrealm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realmgate/internal/resource"
	"realmgate/pkg/authn/authntest"
	"realmgate/pkg/logger"
	"realmgate/pkg/realms"
)

func TestPublicRealmInfo(t *testing.T) {
	key := authntest.NewRealmKey(t)
	d := resource.Deps{
		Realm:    realms.NewRealm("demo", key.PEM),
		RealmURL: "https://id.example.com/realms/demo",
		Log:      logger.Nop(),
	}

	w := httptest.NewRecorder()
	New(d).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var info Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "demo", info.Realm)
	assert.Equal(t, "https://id.example.com/realms/demo/tokens", info.TokenService)
	assert.Equal(t, "https://id.example.com/realms/demo/account", info.AccountService)
	assert.NotEmpty(t, info.PublicKey)
	assert.NotContains(t, info.PublicKey, "-----")
	assert.True(t, strings.Contains(key.PEM, info.PublicKey[:32]))
}

func TestStripPEM(t *testing.T) {
	pem := "-----BEGIN PUBLIC KEY-----\nAAAA\nBBBB\n-----END PUBLIC KEY-----\n"
	assert.Equal(t, "AAAABBBB", stripPEM(pem))
	assert.Empty(t, stripPEM(""))
}

func TestUnknownPath(t *testing.T) {
	d := resource.Deps{Realm: realms.NewRealm("demo", ""), Log: logger.Nop()}
	w := httptest.NewRecorder()
	New(d).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anything/else", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
