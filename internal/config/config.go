package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// StoreKind selects the backend for accounts, tokens and submissions.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

const (
	DefaultPort        = 3000
	DefaultCatalogPath = "data/final.json"
	DefaultLogLevel    = "info"
	DefaultAuthRate    = 5
	DefaultAuthBurst   = 10
)

var (
	ErrMissingDatabaseURL = errors.New("STORE=postgres requires DATABASE_URL")
	ErrNoDurableStore     = errors.New("DATABASE_URL is required outside development unless STORE=memory is set")
	ErrInvalidTrustProxy  = errors.New("TRUST_PROXY must be a boolean")
	ErrUnknownStore       = errors.New("unknown STORE kind")
	ErrInvalidPort        = errors.New("PORT must be between 1 and 65535")
	ErrInvalidRate        = errors.New("auth rate limit values must be positive")
)

// Config holds process configuration.
type Config struct {
	Port        int       `yaml:"port"`
	CatalogPath string    `yaml:"catalog_path"`
	Store       StoreKind `yaml:"store"`
	DatabaseURL string    `yaml:"database_url"`
	Env         string    `yaml:"env"`
	LogLevel    string    `yaml:"log_level"`
	CORSOrigins []string  `yaml:"cors_origins"`

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`

	// Per-client limits on /api/register and /api/login.
	AuthRatePerSec float64 `yaml:"auth_rate_per_sec"`
	AuthRateBurst  int     `yaml:"auth_rate_burst"`
}

// Development reports whether the development-only endpoints are enabled.
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load builds the configuration from an optional YAML file named by
// CONFIG_FILE, then applies environment variables on top.
//
// Environment variables:
//   - CONFIG_FILE: optional YAML file
//   - PORT: listen port (default: 3000)
//   - CATALOG_PATH: building catalog snapshot (default: data/final.json)
//   - STORE: "postgres" or "memory" (default: postgres if DATABASE_URL is set,
//     memory in development, otherwise an error)
//   - DATABASE_URL: Postgres DSN
//   - APP_ENV: "development" enables the test endpoints
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//   - CORS_ORIGINS: comma separated origin allow-list
//   - TRUST_PROXY: trust forwarded client address headers (default: false)
//   - AUTH_RATE_PER_SEC, AUTH_RATE_BURST: auth endpoint rate limit (default: 5, 10)
func Load() (Config, error) {
	cfg := Config{
		Port:           DefaultPort,
		CatalogPath:    DefaultCatalogPath,
		LogLevel:       DefaultLogLevel,
		AuthRatePerSec: DefaultAuthRate,
		AuthRateBurst:  DefaultAuthBurst,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if cfg.Store == "" {
		switch {
		case cfg.DatabaseURL != "":
			cfg.Store = StorePostgres
		case cfg.Development():
			cfg.Store = StoreMemory
		default:
			return Config{}, ErrNoDurableStore
		}
	}

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", ErrInvalidPort)
		}
		cfg.Port = port
	}
	if v, ok := get("CATALOG_PATH"); ok {
		cfg.CatalogPath = v
	}
	if v, ok := get("STORE"); ok {
		cfg.Store = StoreKind(strings.ToLower(v))
	}
	if v, ok := get("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := get("APP_ENV"); ok {
		cfg.Env = strings.ToLower(v)
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	if v, ok := get("TRUST_PROXY"); ok {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return ErrInvalidTrustProxy
		}
		cfg.TrustProxy = trust
	}
	if v, ok := get("AUTH_RATE_PER_SEC"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AUTH_RATE_PER_SEC: %w", ErrInvalidRate)
		}
		cfg.AuthRatePerSec = r
	}
	if v, ok := get("AUTH_RATE_BURST"); ok {
		b, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTH_RATE_BURST: %w", ErrInvalidRate)
		}
		cfg.AuthRateBurst = b
	}
	return nil
}

// Validate checks that the configuration can be served.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
	if c.AuthRatePerSec <= 0 || c.AuthRateBurst <= 0 {
		return ErrInvalidRate
	}
	return nil
}
