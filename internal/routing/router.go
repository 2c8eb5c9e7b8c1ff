package routing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"realmgate/internal/resource"
	"realmgate/pkg/audit"
	"realmgate/pkg/authn"
	"realmgate/pkg/bruteforce"
	"realmgate/pkg/logger"
	"realmgate/pkg/problems"
	"realmgate/pkg/realms"
)

var tracer = otel.Tracer("realmgate/internal/routing")

// Config wires the router to its collaborators.
type Config struct {
	Log            *zap.SugaredLogger
	Store          realms.Provider
	Keys           *authn.KeyStore
	Audit          *audit.Manager
	Protector      bruteforce.Protector // bound to token-service auth managers
	Template       *Template
	IdentityCookie string
	PublicURL      string // public URL of the realms mount, e.g. https://id.example.com/realms
	TrustProxy     bool   // honour X-Forwarded-Proto/Host when building the request base URI

	Tokens  resource.Factory
	Account resource.Factory
	Realm   resource.Factory
}

// Router is the entry point for /realms. It keeps no per-request state; every
// delegation builds its collaborators from scratch.
type Router struct {
	cfg      Config
	resolver *Resolver
	probe    *SessionProbe
}

func NewRouter(cfg Config) *Router {
	if cfg.Protector == nil {
		cfg.Protector = bruteforce.Noop{}
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	return &Router{
		cfg:      cfg,
		resolver: NewResolver(cfg.Store),
		probe:    NewSessionProbe(cfg.Keys, cfg.IdentityCookie),
	}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		path = rctx.RoutePath
	}
	m, ok := MatchPath(path)
	if !ok {
		rt.fail(w, RouteRealm, ErrNotFound)
		return
	}
	rc := NewRequestContext(r, m.Realm, rt.cfg.TrustProxy)

	if m.Route == RouteLoginStatusIframe {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			problems.Write(w, http.StatusMethodNotAllowed, "method-not-allowed", "Method not allowed", "")
			return
		}
		body, err := rt.LoginStatusIframe(r.Context(), rc)
		observe(m.Route, err)
		if err != nil {
			rt.fail(w, m.Route, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Pragma", "no-cache")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(body))
		}
		return
	}

	h, err := rt.SubResource(r.Context(), m.Route, rc)
	observe(m.Route, err)
	if err != nil {
		rt.fail(w, m.Route, err)
		return
	}
	delegate(w, r, h, m.Rest)
}

// LoginStatusIframe runs the cross-origin status probe and returns the page
// with the validated origin substituted.
func (rt *Router) LoginStatusIframe(ctx context.Context, rc RequestContext) (string, error) {
	ctx, span := tracer.Start(ctx, "realms.login_status_iframe")
	defer span.End()
	span.SetAttributes(attribute.String("realm", rc.RealmName), attribute.String("client_id", rc.ClientID))

	body, err := rt.loginStatusIframe(ctx, rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
	}
	return body, err
}

func (rt *Router) loginStatusIframe(ctx context.Context, rc RequestContext) (string, error) {
	realm, err := rt.resolver.Resolve(ctx, rc.RealmName)
	if err != nil {
		return "", err
	}
	client := realm.FindClient(rc.ClientID)
	if client == nil {
		return "", newError(KindClientNotFound, "could not find client: "+rc.ClientID, nil)
	}
	id, err := rt.probe.Probe(ctx, realm, rc)
	if err != nil {
		return "", err
	}
	if id == nil {
		return "", newError(KindUnauthorized, "not logged in, can't get page", nil)
	}
	if rt.cfg.Template == nil {
		return "", ErrServerConfiguration
	}
	if !(OriginValidator{BaseURI: rc.BaseURI}).IsAllowed(rc.Origin, client) {
		return "", newError(KindBadRequest, "invalid origin", nil)
	}
	return rt.cfg.Template.Render(rc.Origin), nil
}

// SubResource resolves the realm and builds the handler for a delegating
// route. Nothing is built when the realm does not resolve.
func (rt *Router) SubResource(ctx context.Context, route RouteName, rc RequestContext) (http.Handler, error) {
	realm, err := rt.resolver.Resolve(ctx, rc.RealmName)
	if err != nil {
		return nil, err
	}
	deps := resource.Deps{
		Realm:    realm,
		Keys:     rt.cfg.Keys,
		RealmURL: strings.TrimRight(rt.cfg.PublicURL, "/") + "/" + url.PathEscape(realm.Name),
		Log:      rt.cfg.Log.With("realm", realm.Name, "route", string(route)),
	}
	switch route {
	case RouteTokens:
		deps.Audit = rt.cfg.Audit.CreateWriter(realm, rc.Conn)
		deps.Auth = authn.NewManager(rt.cfg.Keys, rt.cfg.IdentityCookie, rt.cfg.Protector)
		return rt.cfg.Tokens(deps), nil
	case RouteAccount:
		app := realm.AccountApplication()
		if app == nil {
			rt.cfg.Log.Debugw("account management not enabled", "realm", realm.Name)
			return nil, newError(KindNotFound, "account management not enabled", nil)
		}
		deps.Application = app
		deps.Audit = rt.cfg.Audit.CreateWriter(realm, rc.Conn)
		deps.Auth = authn.NewManager(rt.cfg.Keys, rt.cfg.IdentityCookie, rt.cfg.Protector)
		return rt.cfg.Account(deps), nil
	case RouteRealm:
		return rt.cfg.Realm(deps), nil
	}
	return nil, ErrNotFound
}

// delegate hands the request to a sub-resource with the path rewritten to
// rest and a fresh chi routing context, so the sub-resource routes from "/".
func delegate(w http.ResponseWriter, r *http.Request, h http.Handler, rest string) {
	sub := r.Clone(context.WithValue(r.Context(), chi.RouteCtxKey, chi.NewRouteContext()))
	sub.URL.Path = rest
	sub.URL.RawPath = ""
	h.ServeHTTP(w, sub)
}

func (rt *Router) fail(w http.ResponseWriter, route RouteName, err error) {
	resp := errorResponses[KindOf(err)]
	detail := err.Error()
	var e *Error
	if errors.As(err, &e) {
		detail = e.Message
	}
	if resp.status >= http.StatusInternalServerError {
		rt.cfg.Log.Errorw("realm request failed", "route", string(route), "err", err)
		detail = ""
	} else {
		rt.cfg.Log.Debugw("realm request rejected", "route", string(route), "kind", string(KindOf(err)), "err", err)
	}
	problems.Write(w, resp.status, resp.slug, resp.title, detail)
}
