package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StoreBackend selects which CredentialStore implementation backs the
// session.
type StoreBackend string

const (
	// StoreBackendSQLite is the durable local default.
	StoreBackendSQLite StoreBackend = "sqlite"
	// StoreBackendRedis keeps the credential in a shared cache.
	StoreBackendRedis StoreBackend = "redis"
	// StoreBackendMemory is non-durable, for development and tests.
	StoreBackendMemory StoreBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "sqlite", "redis", "memory":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: sqlite, redis, memory)", v)
	}
}

// StoreConfig selects and configures the credential store backend.
type StoreConfig struct {
	Backend    StoreBackend `env:"BACKEND" envDefault:"sqlite"`
	SQLitePath string       `env:"SQLITE_PATH" envDefault:"comarker-session.db"`
	RedisAddr  string       `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB    int          `env:"REDIS_DB" envDefault:"0"`
}

// GoogleConfig configures the Google sign-in capability.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:4200/auth/callback"`
}

// Config carries the client's settings, loaded from environment variables.
type Config struct {
	// APIBaseURL is the root of the Comarker backend API.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:5000/api"`

	// GuardTimeout bounds the authorization predicates' stream wait.
	GuardTimeout time.Duration `env:"GUARD_TIMEOUT" envDefault:"1s"`

	Store  StoreConfig  `envPrefix:"STORE_"`
	Google GoogleConfig `envPrefix:"GOOGLE_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *Config) Sanitize() {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.GuardTimeout <= 0 {
		c.GuardTimeout = DefaultGuardTimeout
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreBackendSQLite
	}
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
