// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Public base URL used when advertising token/account endpoints.
	BasePublicURL string

	// Honour X-Forwarded-Proto/Host; only set behind a proxy that overwrites them.
	TrustProxyHeaders bool

	// Session / iframe
	IdentityCookie     string // name of the identity cookie read by the session probe
	IframeTemplatePath string // empty -> embedded login-status-iframe.html

	// Realm seeding for the in-memory store (and Postgres upserts)
	RealmSeedFile string
	RealmSeedJSON string

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string

	BruteForceMaxFailures int
	ShutdownTimeout       time.Duration
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:                   env("REALMS_ENV", "dev"),
		HTTPAddr:              env("REALMS_HTTP_ADDR", ":8080"),
		BasePublicURL:         env("BASE_PUBLIC_URL", "http://localhost:8080"),
		TrustProxyHeaders:     envBool("REALMS_TRUST_PROXY_HEADERS", false),
		IdentityCookie:        env("REALMS_IDENTITY_COOKIE", "REALM_IDENTITY"),
		IframeTemplatePath:    env("REALMS_IFRAME_TEMPLATE", ""),
		RealmSeedFile:         env("REALM_SEED_FILE", ""),
		RealmSeedJSON:         env("REALM_SEED_JSON", ""),
		RedisURL:              env("REDIS_URL", ""),
		DatabaseURL:           env("DATABASE_URL", ""),
		BruteForceMaxFailures: envInt("BRUTE_FORCE_MAX_FAILURES", 5),
		ShutdownTimeout:       envDur("SHUTDOWN_TIMEOUT_SEC", 10) * time.Second,
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set, using in-memory realm store")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDur(k string, def int) time.Duration {
	return time.Duration(envInt(k, def))
}
