package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realmgate/internal/resource"
	"realmgate/pkg/audit"
	"realmgate/pkg/authn"
	"realmgate/pkg/authn/authntest"
	"realmgate/pkg/logger"
	"realmgate/pkg/realms"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Write(ctx context.Context, ev audit.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func newDeps(t *testing.T, sink audit.Sink) (resource.Deps, authntest.RealmKey) {
	t.Helper()
	key := authntest.NewRealmKey(t)
	realm := realms.NewRealm("demo", key.PEM, &realms.Client{ClientID: realms.AccountManagementApp, Enabled: true})
	log := logger.Nop()
	keys := authn.NewKeyStore()
	return resource.Deps{
		Realm:       realm,
		Application: realm.AccountApplication(),
		Keys:        keys,
		Audit:       audit.NewManager(sink, log).CreateWriter(realm, audit.ClientConnection{}),
		Auth:        authn.NewManager(keys, "REALM_IDENTITY", nil),
		RealmURL:    "https://id.example.com/realms/demo",
		Log:         log,
	}, key
}

func TestAccountView(t *testing.T) {
	sink := &mockSink{}
	sink.On("Write", mock.Anything, mock.MatchedBy(func(ev audit.Event) bool {
		return ev.Type == audit.EventViewAccount && ev.Subject == "alice" && ev.ClientID == realms.AccountManagementApp
	})).Return(nil).Once()
	d, key := newDeps(t, sink)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(key.Cookie(t, "REALM_IDENTITY", "demo", "alice"))
	w := httptest.NewRecorder()
	New(d).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var v View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "demo", v.Realm)
	assert.Equal(t, "alice", v.Subject)
	assert.Equal(t, "alice@demo", v.Username)
	assert.Equal(t, "state-alice", v.SessionState)
	assert.Equal(t, realms.AccountManagementApp, v.Application)
	sink.AssertExpectations(t)
}

func TestAccountRequiresLogin(t *testing.T) {
	sink := &mockSink{}
	d, _ := newDeps(t, sink)

	w := httptest.NewRecorder()
	New(d).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestAccountUnknownPath(t *testing.T) {
	d, _ := newDeps(t, &mockSink{})
	w := httptest.NewRecorder()
	New(d).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/totp", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
