package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Recipe source configuration
	RecipeSource string // file | s3 | db | ai
	RecipePath   string
	S3Bucket     string
	S3Key        string

	// Database configuration (db source, cmd/seed, cmd/migrate)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional: instruction cache and rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// OpenAI-compatible API configuration
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIAPIURL string

	// SMTP configuration (optional: the mailer runs dry without it)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	EmailFromName string

	// JWT configuration (optional: auth is disabled without it)
	JWTSecret string

	// Suggestion limit clamping
	MinLimit     int
	MaxLimit     int
	DefaultLimit int

	// CORS configuration
	CORSOrigins []string
}

// LoadConfig creates a Config from environment variables with Docker-secret
// fallbacks, then validates it for the selected recipe source.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getValue("SERVER_HOST", "server_host", "0.0.0.0"),
		ServerPort: getValue("SERVER_PORT", "server_port", "8080"),

		RecipeSource: strings.ToLower(getValue("RECIPE_SOURCE", "recipe_source", "file")),
		RecipePath:   getValue("RECIPE_DATA_PATH", "recipe_data_path", "data/recipes.json"),
		S3Bucket:     getValue("S3_BUCKET", "s3_bucket", ""),
		S3Key:        getValue("S3_KEY", "s3_key", "recipes.json"),

		DBHost:     getValue("DB_HOST", "db_host", ""),
		DBPort:     getValue("DB_PORT", "db_port", "5432"),
		DBUser:     getValue("DB_USER", "db_user", ""),
		DBPassword: getValue("DB_PASSWORD", "db_password", ""),
		DBName:     getValue("DB_NAME", "db_name", ""),
		DBSSLMode:  getValue("DB_SSL_MODE", "db_ssl_mode", "disable"),

		RedisHost:     getValue("REDIS_HOST", "redis_host", ""),
		RedisPort:     getValue("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: getValue("REDIS_PASSWORD", "redis_password", ""),
		RedisDB:       getIntValue("REDIS_DB", "redis_db", 0),

		OpenAIAPIKey: getValue("OPENAI_API_KEY", "openai_api_key", ""),
		OpenAIModel:  getValue("OPENAI_MODEL", "openai_model", "gpt-4.1-mini"),
		OpenAIAPIURL: getValue("OPENAI_API_URL", "openai_api_url", "https://api.openai.com/v1/chat/completions"),

		SMTPHost:      getValue("SMTP_HOST", "smtp_host", ""),
		SMTPPort:      getValue("SMTP_PORT", "smtp_port", "587"),
		SMTPUsername:  getValue("SMTP_USERNAME", "smtp_username", ""),
		SMTPPassword:  getValue("SMTP_PASSWORD", "smtp_password", ""),
		EmailFrom:     getValue("EMAIL_FROM", "email_from", "no-reply@mealprepai.app"),
		EmailFromName: getValue("EMAIL_FROM_NAME", "email_from_name", "MealPrepAI"),

		JWTSecret: getValue("JWT_SECRET", "jwt_secret", ""),

		MinLimit:     getIntValue("SUGGEST_MIN", "suggest_min", 3),
		MaxLimit:     getIntValue("SUGGEST_MAX", "suggest_max", 8),
		DefaultLimit: getIntValue("SUGGEST_DEFAULT", "suggest_default", 6),

		CORSOrigins: splitList(getValue("CORS_ORIGINS", "cors_origins", "http://localhost:3000,http://localhost:5173")),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisConfigured reports whether a Redis address was provided. The cache
// and rate limiter are skipped entirely without one.
func (c *Config) RedisConfigured() bool {
	return c.RedisHost != ""
}

// AuthEnabled reports whether JWT auth should guard the API.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// getValue reads a configuration value from the environment first, then the
// matching Docker secret, then falls back to the given default.
func getValue(envVar, secretName, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

// getIntValue is getValue for integers; unparseable values fall back.
func getIntValue(envVar, secretName string, fallback int) int {
	raw := getValue(envVar, secretName, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
