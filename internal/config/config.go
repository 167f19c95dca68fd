package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/crypto/hkdf"
)

const devSessionSecret = "dev-session-secret-change-me"

// Config holds the dashboard settings.
type Config struct {
	Port          string
	Env           string
	APIURL        string
	APITimeout    time.Duration
	SessionSecret string
	SecureCookie  bool
	ProfilePath   string
	AuthRPS       float64
	AuthBurst     int

	// Tracing is on when NUDGEPAY_TRACING is true, or by default once an
	// OTLP endpoint is configured.
	TracingEnabled   bool
	OTLPEndpoint     string
	OTLPProtocol     string
	TraceSampleRatio float64
}

// Load reads configuration from the environment with development defaults
// and refuses settings that are unsafe in production. Call godotenv.Load
// first to pick up a .env file.
func Load() (Config, error) {
	cfg := FromEnv()
	if cfg.IsProduction() && cfg.SessionSecret == devSessionSecret {
		return cfg, errors.New("NUDGEPAY_SESSION_SECRET must be set in production")
	}
	return cfg, nil
}

// FromEnv reads configuration from the environment without validating it.
// The terminal client uses it since it never touches the session secret.
func FromEnv() Config {
	endpoint := getEnv("NUDGEPAY_OTLP_ENDPOINT", "")
	return Config{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("APP_ENV", "development"),
		APIURL:        getEnv("NUDGEPAY_API_URL", "http://localhost:8080"),
		APITimeout:    getDuration("NUDGEPAY_API_TIMEOUT", 0),
		SessionSecret: getEnv("NUDGEPAY_SESSION_SECRET", devSessionSecret),
		SecureCookie:  getBool("NUDGEPAY_SECURE_COOKIE", false),
		ProfilePath:   getEnv("NUDGEPAY_PROFILE", defaultProfilePath()),
		AuthRPS:       getFloat("NUDGEPAY_AUTH_RPS", 5),
		AuthBurst:     getInt("NUDGEPAY_AUTH_BURST", 10),

		TracingEnabled:   getBool("NUDGEPAY_TRACING", endpoint != ""),
		OTLPEndpoint:     endpoint,
		OTLPProtocol:     getEnv("NUDGEPAY_OTLP_PROTOCOL", "grpc"),
		TraceSampleRatio: getFloat("NUDGEPAY_TRACE_SAMPLE_RATIO", 0.1),
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Keys holds the secrets derived from SessionSecret.
type Keys struct {
	CookieHash  []byte
	CookieBlock []byte
	CSRF        []byte
}

// DeriveKeys expands SessionSecret into independent keys for cookie signing,
// cookie encryption and CSRF tokens.
func (c Config) DeriveKeys() (Keys, error) {
	r := hkdf.New(sha256.New, []byte(c.SessionSecret), nil, []byte("nudgepay dashboard"))
	keys := Keys{
		CookieHash:  make([]byte, 32),
		CookieBlock: make([]byte, 32),
		CSRF:        make([]byte, 32),
	}
	for _, k := range [][]byte{keys.CookieHash, keys.CookieBlock, keys.CSRF} {
		if _, err := io.ReadFull(r, k); err != nil {
			return Keys{}, fmt.Errorf("derive keys: %w", err)
		}
	}
	return keys, nil
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nudgepay-profile.db"
	}
	return filepath.Join(home, ".nudgepay", "profile.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}
