// Package config loads runtime settings for the dealership server from the
// environment.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings.
type Config struct {
	Env            string
	Host           string
	Port           string
	LogLevel       string
	DatabaseURL    string
	DBMaxOpenConns int
	SessionSecret  string
	TokenSecret    string
	CSRFKey        []byte
	StaticDir      string

	// TrustProxy makes client addresses come from X-Real-IP and
	// X-Forwarded-For. Enable only behind a proxy that sets them.
	TrustProxy bool
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// IsDevelopment reports whether the server runs in a local development context.
// Cookies are only marked Secure outside development.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment || c.Env == "local"
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Env:           strings.ToLower(valueOr(getenv("APP_ENV"), EnvDevelopment)),
		Host:          valueOr(getenv("HOST"), "localhost"),
		Port:          valueOr(getenv("PORT"), "5500"),
		LogLevel:      valueOr(getenv("LOG_LEVEL"), "info"),
		DatabaseURL:   valueOr(getenv("DATABASE_URL"), "csemotors.db"),
		SessionSecret: getenv("SESSION_SECRET"),
		TokenSecret:   getenv("ACCESS_TOKEN_SECRET"),
		StaticDir:     valueOr(getenv("STATIC_DIR"), "public"),
	}

	if v := getenv("DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q", v)
		}
		cfg.DBMaxOpenConns = n
	}

	if v := getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUST_PROXY %q", v)
		}
		cfg.TrustProxy = trust
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	if cfg.SessionSecret == "" || cfg.TokenSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("SESSION_SECRET and ACCESS_TOKEN_SECRET are required outside development")
		}
		slog.Warn("no secrets configured, generating random ones; sessions and logins will not survive a restart")
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = randomSecret()
		}
		if cfg.TokenSecret == "" {
			cfg.TokenSecret = randomSecret()
		}
	}

	if key := getenv("CSRF_KEY"); key != "" {
		if len(key) != 32 {
			return nil, errors.New("CSRF_KEY must be exactly 32 bytes")
		}
		cfg.CSRFKey = []byte(key)
	} else {
		sum := sha256.Sum256([]byte(cfg.SessionSecret + "csrf"))
		cfg.CSRFKey = sum[:]
	}

	return cfg, nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("generate secret: %v", err))
	}
	return hex.EncodeToString(b)
}
