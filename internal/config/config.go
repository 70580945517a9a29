package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Backend  BackendConfig
	Refresh  RefreshConfig
	Session  SessionConfig
	Log      LogConfig
}

// ServerConfig holds configuration of the local API that serves UI subscribers
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// BackendConfig describes the remote trading backend.
type BackendConfig struct {
	BaseURL string
	// Timeout is the overall timeout of a single request. Zero keeps the transport default.
	Timeout time.Duration
}

// RefreshConfig holds the polling intervals of the refresh pipeline and the market feed.
type RefreshConfig struct {
	Interval         time.Duration
	QuoteConcurrency int
	SearchDebounce   time.Duration
	MarketSchedule   string // cron spec, e.g. "@every 5m"
}

// SessionConfig holds the persisted session settings.
type SessionConfig struct {
	Key string        // fernet key used to encrypt the token at rest
	TTL time.Duration // maximum age of a persisted token
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5002"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/dashboard_session.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080/api"), "/"),
		},
		Refresh: RefreshConfig{
			MarketSchedule: getEnv("MARKET_SCHEDULE", "@every 5m"),
		},
		Session: SessionConfig{
			Key: os.Getenv("SESSION_KEY"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	var err error
	if config.Backend.Timeout, err = getDuration("HTTP_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if config.Refresh.Interval, err = getDuration("REFRESH_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if config.Refresh.Interval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", config.Refresh.Interval)
	}
	if config.Refresh.SearchDebounce, err = getDuration("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if config.Refresh.QuoteConcurrency, err = getInt("QUOTE_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if config.Refresh.QuoteConcurrency < 1 {
		return nil, fmt.Errorf("QUOTE_CONCURRENCY must be at least 1, got %d", config.Refresh.QuoteConcurrency)
	}
	if config.Session.TTL, err = getDuration("SESSION_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration parses a Go duration such as "30s" from the environment.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return i, nil
}

// getList splits a comma separated environment variable.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
