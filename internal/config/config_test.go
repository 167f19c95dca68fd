package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "NUDGEPAY_API_URL", "NUDGEPAY_API_TIMEOUT", "NUDGEPAY_SESSION_SECRET", "NUDGEPAY_SECURE_COOKIE", "NUDGEPAY_AUTH_RPS", "NUDGEPAY_AUTH_BURST", "NUDGEPAY_TRACING", "NUDGEPAY_OTLP_ENDPOINT", "NUDGEPAY_OTLP_PROTOCOL", "NUDGEPAY_TRACE_SAMPLE_RATIO"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.False(t, cfg.SecureCookie)
	assert.Equal(t, 5.0, cfg.AuthRPS)
	assert.Equal(t, 10, cfg.AuthBurst)
	assert.NotEmpty(t, cfg.ProfilePath)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, "grpc", cfg.OTLPProtocol)
	assert.Equal(t, 0.1, cfg.TraceSampleRatio)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("NUDGEPAY_API_URL", "https://api.nudgepay.test")
	t.Setenv("NUDGEPAY_API_TIMEOUT", "15s")
	t.Setenv("NUDGEPAY_SECURE_COOKIE", "true")
	t.Setenv("NUDGEPAY_PROFILE", "/tmp/profile.db")
	t.Setenv("NUDGEPAY_AUTH_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.nudgepay.test", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, "/tmp/profile.db", cfg.ProfilePath)
	assert.Equal(t, 10, cfg.AuthBurst, "invalid values fall back to the default")
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("NUDGEPAY_SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("NUDGEPAY_SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDeriveKeys(t *testing.T) {
	keys, err := Config{SessionSecret: "s1"}.DeriveKeys()
	require.NoError(t, err)
	assert.Len(t, keys.CookieHash, 32)
	assert.Len(t, keys.CookieBlock, 32)
	assert.NotEqual(t, keys.CookieHash, keys.CookieBlock)
	assert.NotEqual(t, keys.CookieBlock, keys.CSRF)

	again, err := Config{SessionSecret: "s1"}.DeriveKeys()
	require.NoError(t, err)
	assert.Equal(t, keys, again, "derivation is deterministic")

	other, err := Config{SessionSecret: "s2"}.DeriveKeys()
	require.NoError(t, err)
	assert.NotEqual(t, keys.CookieHash, other.CookieHash)
}

func TestFromEnv_SkipsProductionCheck(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("NUDGEPAY_SESSION_SECRET", "")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
}

func TestFromEnv_Tracing(t *testing.T) {
	t.Setenv("NUDGEPAY_TRACING", "")
	t.Setenv("NUDGEPAY_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("NUDGEPAY_OTLP_PROTOCOL", "http")
	t.Setenv("NUDGEPAY_TRACE_SAMPLE_RATIO", "0.5")

	cfg := FromEnv()
	assert.True(t, cfg.TracingEnabled, "an endpoint turns tracing on")
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	assert.Equal(t, "http", cfg.OTLPProtocol)
	assert.Equal(t, 0.5, cfg.TraceSampleRatio)

	t.Setenv("NUDGEPAY_TRACING", "false")
	assert.False(t, FromEnv().TracingEnabled)
}
