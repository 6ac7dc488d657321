package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/config"
)

// clearEnv blanks the variables with defaults so values exported in the shell do not leak into the tests.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"APP_NAME", "PORT", "DEFAULT_CURRENCY",
		"STORAGE_DRIVER", "SQLITE_PATH", "STORAGE_LEGACY_FALLBACK",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
		"AUTH_HASHER", "AUTH_BCRYPT_COST", "JWT_SECRET", "JWT_ISSUER", "AUTH_TOKEN_TTL",
		"ANTHROPIC_API_KEY", "ADVICE_MODEL", "ADVICE_MAX_TOKENS", "ADVICE_TIMEOUT",
		"SERVER_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Stash", cfg.App.Name)
	assert.Equal(t, "GH₵", cfg.App.DefaultCurrency)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "sha256", cfg.Auth.Hasher)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Advice.APIKey)
	assert.NoError(t, cfg.Validate(false))
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "sk-test", cfg.Advice.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	type testCase struct {
		name       string
		mutate     func(c *config.Config)
		requireJWT bool
		wantErr    string
	}

	tests := []testCase{
		{name: "Valid", mutate: func(c *config.Config) {}},
		{
			name:    "UnknownDriver",
			mutate:  func(c *config.Config) { c.Storage.Driver = "mongo" },
			wantErr: "STORAGE_DRIVER",
		},
		{
			name:    "UnknownHasher",
			mutate:  func(c *config.Config) { c.Auth.Hasher = "md5" },
			wantErr: "AUTH_HASHER",
		},
		{
			name:       "MissingJWTSecret",
			mutate:     func(c *config.Config) {},
			requireJWT: true,
			wantErr:    "JWT_SECRET",
		},
		{
			name:       "JWTSecretSet",
			mutate:     func(c *config.Config) { c.Auth.JWTSecret = "s3cret" },
			requireJWT: true,
		},
		{
			name:    "UnknownLogFormat",
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	clearEnv(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load()
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate(tt.requireJWT)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
