package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/hongminglow/brewerybook/internal/directory"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	StoreDriver string `env:"STORE_DRIVER" env-default:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret    string `env:"JWT_SECRET" env-required:"true"`
	JWTAlgorithm string `env:"JWT_ALGORITHM" env-default:"HS256"`
	JWTIssuer    string `env:"JWT_ISSUER" env-default:"brewerybook"`

	PasswordScheme string `env:"PASSWORD_HASH_SCHEME" env-default:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" env-default:"10"`

	DirectoryBaseURL string        `env:"DIRECTORY_BASE_URL"`
	DirectoryTimeout time.Duration `env:"DIRECTORY_TIMEOUT" env-default:"15s"`

	RawCORSOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	CORSOrigins    []string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	cfg.Port = fallback(cfg.Port, "8080")
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.JWTAlgorithm = strings.ToUpper(fallback(cfg.JWTAlgorithm, "HS256"))
	cfg.PasswordScheme = strings.ToLower(fallback(cfg.PasswordScheme, "bcrypt"))
	cfg.DirectoryBaseURL = fallback(cfg.DirectoryBaseURL, directory.DefaultBaseURL)
	cfg.CORSOrigins = parseCSV(cfg.RawCORSOrigins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM must be HS256, HS384 or HS512, got %q", c.JWTAlgorithm)
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or memory, got %q", c.StoreDriver)
	}
	if c.DirectoryTimeout < 0 {
		return errors.New("DIRECTORY_TIMEOUT must not be negative")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
