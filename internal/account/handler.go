// Package account is a read-only account view for the signed-in user.
package account

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"realmgate/internal/resource"
	"realmgate/pkg/audit"
	"realmgate/pkg/problems"
)

// View is the account document returned to the signed-in user.
type View struct {
	Realm        string    `json:"realm"`
	Subject      string    `json:"sub"`
	Username     string    `json:"username,omitempty"`
	SessionState string    `json:"session_state,omitempty"`
	AuthTime     time.Time `json:"auth_time"`
	Application  string    `json:"application"`
}

// New builds the account sub-resource for one request.
func New(d resource.Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		id, err := d.Auth.AuthenticateIdentityCookie(ctx, d.Realm, req.Cookies())
		if err != nil {
			d.Log.Errorw("account: identity check", "err", err)
			problems.Write(w, http.StatusInternalServerError, "upstream-failure", "Unexpected error", "")
			return
		}
		if id == nil {
			problems.Write(w, http.StatusUnauthorized, "unauthorized", "Not logged in", "")
			return
		}
		d.Audit.Client(d.Application.ClientID).User(id.Subject).Success(ctx, audit.EventViewAccount, nil)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(View{
			Realm:        d.Realm.Name,
			Subject:      id.Subject,
			Username:     id.Username,
			SessionState: id.SessionState,
			AuthTime:     id.IssuedAt,
			Application:  d.Application.ClientID,
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		problems.Write(w, http.StatusNotFound, "not-found", "Not found", "")
	})
	return r
}
