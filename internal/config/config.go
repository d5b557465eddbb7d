// Package config loads the authserver configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MinSecretLength is the shortest accepted HS256 signing secret.
const MinSecretLength = 32

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Token    TokenConfig
	Cookie   CookieConfig
	Kakao    OAuthClientConfig
	LogLevel logrus.Level
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the member store configuration. An empty URL selects
// the in-memory store.
type DatabaseConfig struct {
	URL string
}

// CacheConfig holds the API key cache configuration. An empty RedisURL
// disables the cache.
type CacheConfig struct {
	RedisURL  string
	APIKeyTTL time.Duration
}

// TokenConfig holds access token settings.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// CookieConfig holds credential cookie attributes.
type CookieConfig struct {
	Domain string
	Secure bool
}

// OAuthClientConfig holds one federated-login client registration. An empty
// ClientID disables the provider.
type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether the provider is configured.
func (c OAuthClientConfig) Enabled() bool {
	return c.ClientID != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("AUTH_HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvDuration("AUTH_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("AUTH_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("AUTH_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnv("AUTH_DATABASE_URL", ""),
		},
		Cache: CacheConfig{
			RedisURL:  getEnv("AUTH_REDIS_URL", ""),
			APIKeyTTL: getEnvDuration("AUTH_API_KEY_CACHE_TTL", 5*time.Minute),
		},
		Token: TokenConfig{
			Secret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer: getEnv("AUTH_JWT_ISSUER", "authfilter"),
			TTL:    getEnvDuration("AUTH_ACCESS_TOKEN_TTL", 20*time.Minute),
		},
		Cookie: CookieConfig{
			Domain: getEnv("AUTH_COOKIE_DOMAIN", ""),
			Secure: getEnvBool("AUTH_COOKIE_SECURE", false),
		},
		Kakao: OAuthClientConfig{
			ClientID:     getEnv("AUTH_KAKAO_CLIENT_ID", ""),
			ClientSecret: getEnv("AUTH_KAKAO_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("AUTH_KAKAO_REDIRECT_URL", ""),
		},
		LogLevel: parseLogLevel(getEnv("AUTH_LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("http address is required")
	}

	if len(c.Token.Secret) < MinSecretLength {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.Token.TTL <= 0 {
		return fmt.Errorf("access token ttl must be positive")
	}
	if c.Token.Issuer == "" {
		return fmt.Errorf("token issuer is required")
	}

	if c.Cache.RedisURL != "" && c.Cache.APIKeyTTL <= 0 {
		return fmt.Errorf("api key cache ttl must be positive when redis is configured")
	}

	if c.Kakao.Enabled() && c.Kakao.RedirectURL == "" {
		return fmt.Errorf("AUTH_KAKAO_REDIRECT_URL is required when kakao login is enabled")
	}

	return nil
}

// parseLogLevel parses a log level string, defaulting to info
func parseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
