package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name            string `envconfig:"APP_NAME" default:"Stash"`
		Port            int    `envconfig:"PORT" default:"8080"`
		DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"GH₵"`
	}

	Storage struct {
		Driver     string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"stash.db"`
		// LegacyFallback reads the unkeyed budget document for users that have none of their own.
		LegacyFallback bool `envconfig:"STORAGE_LEGACY_FALLBACK" default:"false"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"stash"`
	}

	Redis struct {
		URL      string `envconfig:"REDIS_URL"`
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
		Prefix   string `envconfig:"REDIS_PREFIX" default:"stash:"`
	}

	Auth struct {
		Hasher     string        `envconfig:"AUTH_HASHER" default:"sha256"`
		BcryptCost int           `envconfig:"AUTH_BCRYPT_COST" default:"10"`
		JWTSecret  string        `envconfig:"JWT_SECRET"`
		JWTIssuer  string        `envconfig:"JWT_ISSUER" default:"stash"`
		TokenTTL   time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}

	Advice struct {
		APIKey    string        `envconfig:"ANTHROPIC_API_KEY"`
		Model     string        `envconfig:"ADVICE_MODEL" default:"claude-haiku-4-5"`
		MaxTokens int64         `envconfig:"ADVICE_MAX_TOKENS" default:"1024"`
		Timeout   time.Duration `envconfig:"ADVICE_TIMEOUT" default:"30s"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		// File redirects logs away from stdout; the TUI always sets one.
		File string `envconfig:"LOG_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// Validate checks settings shared by every binary. requireJWT is set by surfaces that issue bearer tokens.
func (c *Config) Validate(requireJWT bool) error {
	var errs []error

	drivers := []string{DriverSQLite, DriverPostgres, DriverRedis, DriverMemory}
	if !slices.Contains(drivers, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unknown driver %q", c.Storage.Driver))
	}

	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH: required for the sqlite driver"))
	}

	if !slices.Contains([]string{"sha256", "bcrypt"}, c.Auth.Hasher) {
		errs = append(errs, fmt.Errorf("AUTH_HASHER: unknown hasher %q", c.Auth.Hasher))
	}

	if requireJWT && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET: required"))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL: must be positive"))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", c.Log.Level))
	}

	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
