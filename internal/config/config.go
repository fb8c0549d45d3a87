package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway
type Config struct {
	// Server configuration
	Server ServerConfig

	// Directory backend the gateway fronts
	Backend BackendConfig

	// Database configuration (checkout saga records)
	Database DatabaseConfig

	// Session configuration
	Session SessionConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Checkout saga housekeeping
	Checkout CheckoutConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	Environment    string   // development, staging, production
	LogLevel       string   // debug, info, warn, error
	PublicBaseURL  string   // externally visible gateway URL, used for payment return links
	TrustedProxies []string // proxies whose forwarding headers are believed; empty trusts none
}

// BackendConfig selects the REST backend target
type BackendConfig struct {
	BaseURL   string
	APIPrefix string
	Timeout   time.Duration // 0 leaves the transport default in place
	JWTSecret string        // optional; verifies backend token signatures when set
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// SessionConfig holds browser session and token store configuration
type SessionConfig struct {
	Store         string // "file" or "redis"
	Dir           string
	RedisURL      string
	Secret        string // hex encoded 32 byte key used to seal stored tokens
	CookieName    string
	TTL           time.Duration
	ViewCacheSize int
	SecureCookie  bool
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CheckoutConfig controls the abandoned checkout sweep
type CheckoutConfig struct {
	AbandonAfter  time.Duration
	SweepSchedule string // cron spec with seconds field
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES", nil),
		},
		Backend: BackendConfig{
			BaseURL:   strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
			APIPrefix: getEnv("API_PREFIX", "/api"),
			Timeout:   getEnvAsDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			JWTSecret: getEnv("BACKEND_JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Session: SessionConfig{
			Store:         getEnv("SESSION_STORE", "file"),
			Dir:           getEnv("SESSION_DIR", "./data/sessions"),
			RedisURL:      getEnv("REDIS_URL", ""),
			Secret:        getEnv("SESSION_SECRET", ""),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "directtree_session"),
			TTL:           getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
			ViewCacheSize: getEnvAsInt("VIEW_CACHE_SIZE", 4096),
			SecureCookie:  getEnvAsBool("SESSION_SECURE_COOKIE", false),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_SECOND", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Checkout: CheckoutConfig{
			AbandonAfter:  getEnvAsDuration("CHECKOUT_ABANDON_AFTER", 72*time.Hour),
			SweepSchedule: getEnv("CHECKOUT_SWEEP_SCHEDULE", "0 */15 * * * *"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := c.Session.Key(); err != nil {
		return err
	}

	switch c.Session.Store {
	case "file":
		if c.Session.Dir == "" {
			return fmt.Errorf("SESSION_DIR is required for the file session store")
		}
	case "redis":
		if c.Session.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session store")
		}
	default:
		return fmt.Errorf("invalid session store: %s (must be 'file' or 'redis')", c.Session.Store)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// Key decodes the session sealing key
func (s SessionConfig) Key() ([32]byte, error) {
	var key [32]byte
	if s.Secret == "" {
		return key, fmt.Errorf("SESSION_SECRET is required")
	}
	raw, err := hex.DecodeString(s.Secret)
	if err != nil {
		return key, fmt.Errorf("SESSION_SECRET must be hex encoded: %w", err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("SESSION_SECRET must decode to %d bytes, got %d", len(key), len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

// APIBaseURL joins the backend base URL and API prefix
func (b BackendConfig) APIBaseURL() string {
	prefix := strings.Trim(b.APIPrefix, "/")
	if prefix == "" {
		return b.BaseURL
	}
	return b.BaseURL + "/" + prefix
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings ("45s", "72h") or plain seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid duration value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
