// Package config provides configuration for the application
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	LLM      LLMConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings.
// An empty Host disables the quiz cache.
type RedisConfig struct {
	Host     string
	Port     int `validate:"min=1,max=65535"`
	Password string
	DB       int           `validate:"min=0"`
	QuizTTL  time.Duration `validate:"gt=0"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int `validate:"min=1,max=65535"`
	// InternalAPIKey guards maintenance routes. Empty disables them.
	InternalAPIKey string
	// TokenCleanupSchedule is a cron expression. Empty disables the janitor.
	TokenCleanupSchedule string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `validate:"oneof=debug info warn warning error"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string        `validate:"required"`
	AccessTokenExpiry  time.Duration `validate:"gt=0"`
	RefreshTokenExpiry time.Duration `validate:"gtfield=AccessTokenExpiry"`
}

// LLMConfig holds generative model settings
type LLMConfig struct {
	Provider        string `validate:"oneof=gemini openai anthropic mock"`
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	Timeout         time.Duration `validate:"gt=0"`
	MaxAttempts     int           `validate:"min=1,max=10"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort
	cfg.Server.InternalAPIKey = os.Getenv("INTERNAL_API_KEY")
	cfg.Server.TokenCleanupSchedule = stringFromEnv("TOKEN_CLEANUP_SCHEDULE", "0 3 * * *")

	// Logging configuration
	cfg.Logging.Level = stringFromEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	if cfg.JWT.AccessTokenExpiry, err = durationFromEnv("JWT_ACCESS_TOKEN_EXPIRY", time.Hour); err != nil {
		return nil, err
	}
	// 5 days, matching the session cookie lifetime of the web client
	if cfg.JWT.RefreshTokenExpiry, err = durationFromEnv("JWT_REFRESH_TOKEN_EXPIRY", 120*time.Hour); err != nil {
		return nil, err
	}

	// Redis configuration (optional, enables the quiz cache)
	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	if cfg.Redis.Port, err = intFromEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = intFromEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.QuizTTL, err = durationFromEnv("REDIS_QUIZ_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	// LLM configuration
	cfg.LLM.Provider = stringFromEnv("LLM_PROVIDER", "gemini")
	cfg.LLM.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.LLM.GeminiModel = stringFromEnv("GEMINI_MODEL", "gemini-flash")
	cfg.LLM.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.LLM.OpenAIModel = stringFromEnv("OPENAI_MODEL", "gpt-4o-mini")
	cfg.LLM.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.LLM.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.LLM.AnthropicModel = stringFromEnv("ANTHROPIC_MODEL", "claude-haiku")
	if cfg.LLM.Timeout, err = durationFromEnv("LLM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.LLM.MaxAttempts, err = intFromEnv("LLM_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = validator.New()

// validateConfig checks the ranges and enums declared in the struct tags
func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.StructNamespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port pair of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func stringFromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseOrigins splits a comma-separated origin list.
// An empty or blank list allows all origins.
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
