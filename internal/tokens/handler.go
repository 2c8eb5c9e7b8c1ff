// Package tokens is the token sub-resource of a realm. It publishes the realm
// signing keys and ends browser sessions.
package tokens

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"realmgate/internal/resource"
	"realmgate/pkg/audit"
	"realmgate/pkg/authn"
	"realmgate/pkg/problems"
)

// New builds the token sub-resource for one request.
func New(d resource.Deps) http.Handler {
	h := &handler{d: d}
	r := chi.NewRouter()
	r.Get("/certs", h.certs)
	r.Get("/logout", h.logout)
	r.Post("/logout", h.logout)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		problems.Write(w, http.StatusNotFound, "not-found", "Not found", "")
	})
	return r
}

type handler struct {
	d resource.Deps
}

func (h *handler) certs(w http.ResponseWriter, _ *http.Request) {
	set, err := h.d.Keys.KeySet(h.d.Realm)
	if errors.Is(err, authn.ErrNoRealmKey) {
		set, err = jwk.NewSet(), nil
	}
	if err != nil {
		h.d.Log.Errorw("realm keys", "err", err)
		problems.Write(w, http.StatusInternalServerError, "realm-keys", "Realm keys unavailable", "")
		return
	}
	body, err := json.Marshal(set)
	if err != nil {
		h.d.Log.Errorw("encode jwks", "err", err)
		problems.Write(w, http.StatusInternalServerError, "realm-keys", "Realm keys unavailable", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(body)
}

// logout expires the identity cookie. It answers 204 whether or not a session
// was present.
func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ev := h.d.Audit.Client(r.URL.Query().Get("client_id"))

	id, err := h.d.Auth.AuthenticateIdentityCookie(ctx, h.d.Realm, r.Cookies())
	if err != nil {
		h.d.Log.Errorw("logout: identity check", "err", err)
		problems.Write(w, http.StatusInternalServerError, "upstream-failure", "Unexpected error", "")
		return
	}

	http.SetCookie(w, h.d.Auth.ExpireCookie(cookiePath(h.d.RealmURL)))
	w.Header().Set("Cache-Control", "no-store")
	if id == nil {
		ev.Error(ctx, audit.EventLogout, "user_not_logged_in")
	} else {
		ev.User(id.Subject).Success(ctx, audit.EventLogout, map[string]string{
			"session_state": id.SessionState,
			"username":      id.Username,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

func cookiePath(realmURL string) string {
	u, err := url.Parse(realmURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
