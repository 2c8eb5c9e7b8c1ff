// cmd/realms-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"realmgate/internal/account"
	"realmgate/internal/publicrealm"
	"realmgate/internal/routing"
	"realmgate/internal/tokens"
	"realmgate/pkg/audit"
	"realmgate/pkg/authn"
	"realmgate/pkg/bruteforce"
	"realmgate/pkg/config"
	"realmgate/pkg/db"
	"realmgate/pkg/logger"
	"realmgate/pkg/middleware"
	"realmgate/pkg/openapi"
	"realmgate/pkg/realms"
)

const mountPath = "/realms"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	seeds, err := realms.LoadSeeds(cfg.RealmSeedFile, cfg.RealmSeedJSON)
	if err != nil {
		log.Fatalw("realm seed", "err", err)
	}

	var store realms.Provider
	var sink audit.Sink = audit.LogSink{Log: log.Named("audit")}
	if pool != nil {
		ctx := context.Background()
		if err := realms.EnsureSchema(ctx, pool); err != nil {
			log.Fatalw("realm schema", "err", err)
		}
		if err := realms.UpsertSeeds(ctx, pool, seeds); err != nil {
			log.Warnw("realm seed", "err", err)
		}
		if err := audit.EnsureSchema(ctx, pool); err != nil {
			log.Fatalw("audit schema", "err", err)
		}
		store = realms.NewPostgresProvider(pool, log)
		sink = audit.NewPostgresSink(pool)
	} else {
		store = realms.NewMemoryProviderFromSeeds(seeds, log)
	}

	var protector bruteforce.Protector = bruteforce.Noop{}
	if rdb != nil {
		protector = bruteforce.NewRedisProtector(rdb, cfg.BruteForceMaxFailures)
	}

	tpl, err := routing.LoadTemplate(cfg.IframeTemplatePath)
	if err != nil {
		log.Fatalw("login status iframe", "err", err)
	}
	log.Infow("login status iframe loaded", "source", tpl.Source())

	router := routing.NewRouter(routing.Config{
		Log:            log.Named("router"),
		Store:          store,
		Keys:           authn.NewKeyStore(),
		Audit:          audit.NewManager(sink, log),
		Protector:      protector,
		Template:       tpl,
		IdentityCookie: cfg.IdentityCookie,
		TrustProxy:     cfg.TrustProxyHeaders,
		PublicURL:      strings.TrimRight(cfg.BasePublicURL, "/") + mountPath,
		Tokens:         tokens.New,
		Account:        account.New,
		Realm:          publicrealm.New,
	})

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log, "/healthz", "/metrics"))
	r.Use(middleware.Tracing(cfg))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/.well-known/openapi.json", openapi.ServeHandler(routing.OpenAPI(mountPath)))
	r.Mount(mountPath, router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("realms-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if pool != nil {
		pool.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	fmt.Println("realms-service stopped")
}
