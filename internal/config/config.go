// Package config загружает настройки сервиса из окружения.
// Имена переменных сохранены от прежнего развертывания (NODE_ENV, JWT_SECRET,
// JWT_EXPIRES_IN, PORT, FRONTEND_URL), чтобы манифесты не пришлось менять.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvProduction значение NODE_ENV, включающее production режим
	EnvProduction = "production"

	// DevFallbackSecret секрет, используемый вне production при пустом JWT_SECRET
	DevFallbackSecret = "dev-only-secret-do-not-use-in-production"

	// DefaultTokenTTL время жизни токена по умолчанию (JWT_EXPIRES_IN, секунды)
	DefaultTokenTTL = 1800 * time.Second
)

// Config holds runtime settings for the auth service.
//
// Fields:
//   - Env: deployment mode; "production" enables Secure/SameSite=Strict cookies
//     and makes a missing JWT secret fatal.
//   - Port: HTTP listen port.
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - TokenTTL: session token lifetime; also the cookie max-age.
//   - FrontendURL: allowed CORS origin in production.
//   - DBDriver: credential store backend, "bolt" or "sqlite".
//   - DBPath: path to the database file.
type Config struct {
	Env         string
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string
	DBDriver    string
	DBPath      string
}

// Load читает настройки из окружения
// .env файл загружается если существует; в production отсутствие
// JWT_SECRET является фатальной ошибкой запуска
func Load(logger *slog.Logger) (*Config, error) {
	// .env файл опционален
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("NODE_ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    time.Duration(getEnvAsInt("JWT_EXPIRES_IN", int(DefaultTokenTTL.Seconds()))) * time.Second,
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBDriver:    getEnv("DB_DRIVER", "bolt"),
		DBPath:      getEnv("DB_PATH", "auth-service.db"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be configured in production environment")
		}
		logger.Warn("JWT_SECRET not set, using default development secret. DO NOT use in production!")
		cfg.JWTSecret = DevFallbackSecret
	}

	if cfg.DBDriver != "bolt" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q, expected bolt or sqlite", cfg.DBDriver)
	}

	return cfg, nil
}

// IsProduction сообщает, работает ли сервис в production режиме
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// AllowedOrigins возвращает CORS allow-list для текущего режима
func (c *Config) AllowedOrigins() []string {
	if c.IsProduction() {
		origin := c.FrontendURL
		if origin == "" {
			origin = "http://localhost"
		}
		return []string{origin}
	}

	return []string{"http://localhost:5173", "http://localhost:3000", "http://localhost"}
}

// getEnv возвращает значение переменной окружения или default
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает числовое значение переменной окружения или default
func getEnvAsInt(key string, defaultValue int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
