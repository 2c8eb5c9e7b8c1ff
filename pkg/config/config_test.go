package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"REALMS_ENV", "REALMS_HTTP_ADDR", "REALMS_IDENTITY_COOKIE", "BRUTE_FORCE_MAX_FAILURES", "SHUTDOWN_TIMEOUT_SEC", "DATABASE_URL", "REALMS_TRUST_PROXY_HEADERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "REALM_IDENTITY", cfg.IdentityCookie)
	assert.Equal(t, 5, cfg.BruteForceMaxFailures)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.IframeTemplatePath)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REALMS_ENV", "prod")
	t.Setenv("REALMS_HTTP_ADDR", ":9090")
	t.Setenv("REALMS_IDENTITY_COOKIE", "SSO")
	t.Setenv("BRUTE_FORCE_MAX_FAILURES", "3")
	t.Setenv("SHUTDOWN_TIMEOUT_SEC", "2")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/realms")
	t.Setenv("REALMS_TRUST_PROXY_HEADERS", "true")

	cfg := Load()

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "SSO", cfg.IdentityCookie)
	assert.Equal(t, 3, cfg.BruteForceMaxFailures)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres://u:p@db/realms", cfg.DatabaseURL)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("BRUTE_FORCE_MAX_FAILURES", "lots")
	assert.Equal(t, 5, envInt("BRUTE_FORCE_MAX_FAILURES", 5))
}

func TestEnvBoolIgnoresGarbage(t *testing.T) {
	t.Setenv("REALMS_TRUST_PROXY_HEADERS", "maybe")
	assert.False(t, envBool("REALMS_TRUST_PROXY_HEADERS", false))
}
