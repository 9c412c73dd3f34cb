package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearEnv сбрасывает все переменные сервиса, чтобы тесты не зависели
// от окружения машины
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NODE_ENV", "PORT", "JWT_SECRET", "JWT_EXPIRES_IN", "FRONTEND_URL", "DB_DRIVER", "DB_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(setupTestLogger())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, "bolt", cfg.DBDriver)
	assert.Equal(t, "auth-service.db", cfg.DBPath)
	assert.False(t, cfg.IsProduction())

	// Вне production пустой секрет заменяется dev значением
	assert.Equal(t, DevFallbackSecret, cfg.JWTSecret)
}

func TestLoad_ExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_EXPIRES_IN", "3600")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/var/lib/auth/users.db")

	cfg, err := Load(setupTestLogger())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, 3600*time.Second, cfg.TokenTTL)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/var/lib/auth/users.db", cfg.DBPath)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")

	_, err := Load(setupTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidTTLFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "not-a-number")

	cfg, err := Load(setupTestLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load(setupTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestConfig_AllowedOrigins(t *testing.T) {
	t.Run("production uses frontend url", func(t *testing.T) {
		cfg := &Config{Env: EnvProduction, FrontendURL: "https://app.example.com"}
		assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins())
	})

	t.Run("production without frontend url", func(t *testing.T) {
		cfg := &Config{Env: EnvProduction}
		assert.Equal(t, []string{"http://localhost"}, cfg.AllowedOrigins())
	})

	t.Run("development allows local dev servers", func(t *testing.T) {
		cfg := &Config{Env: "development"}
		origins := cfg.AllowedOrigins()
		assert.Contains(t, origins, "http://localhost:5173")
		assert.Contains(t, origins, "http://localhost:3000")
	})
}
