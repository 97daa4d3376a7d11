package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default engine tuning. Overridable through the environment; see LoadConfig.
const (
	DefaultCorpusTTL           = 24 * time.Hour
	DefaultLibraryCacheTTL     = 30 * time.Minute
	DefaultFetchMaxAttempts    = 3
	DefaultFetchBackoffBase    = time.Second
	DefaultRateLimitWindow     = time.Minute
	DefaultRateLimitMax        = 10
	DefaultRateLimitRetryDelay = 2 * time.Second
	DefaultBatchSize           = 5
	DefaultBatchDelay          = 2 * time.Second
)

// Config holds all configuration for the planning engine
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Knowledge API configuration
	KnowledgeAPIURL string
	KnowledgeAPIKey string
	KnowledgeModel  string

	// Corpus cache and fetch tuning
	CorpusTTL           time.Duration
	LibraryCacheTTL     time.Duration
	FetchMaxAttempts    int
	FetchBackoffBase    time.Duration
	RateLimitWindow     time.Duration
	RateLimitMax        int
	RateLimitRetryDelay time.Duration
	BatchSize           int
	BatchDelay          time.Duration
}

// LoadConfig creates a new Config instance with values from environment
// variables or secrets, depending on the runtime environment
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	switch env := GetEnvironment(); env {
	case Production:
		loadEnvConfig(cfg)
		loadSecretConfig(cfg)
	case CI, Development, Test:
		loadEnvConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment, for embedding the engine with explicit settings.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		DBHost:    "localhost",
		DBPort:    "5432",
		DBUser:    "postgres",
		DBName:    "mealmosaic",
		DBSSLMode: "disable",

		RedisHost: "localhost",
		RedisPort: "6379",
		RedisDB:   0,

		KnowledgeAPIURL: "https://api.deepseek.com/v1/chat/completions",
		KnowledgeModel:  "deepseek-chat",

		CorpusTTL:           DefaultCorpusTTL,
		LibraryCacheTTL:     DefaultLibraryCacheTTL,
		FetchMaxAttempts:    DefaultFetchMaxAttempts,
		FetchBackoffBase:    DefaultFetchBackoffBase,
		RateLimitWindow:     DefaultRateLimitWindow,
		RateLimitMax:        DefaultRateLimitMax,
		RateLimitRetryDelay: DefaultRateLimitRetryDelay,
		BatchSize:           DefaultBatchSize,
		BatchDelay:          DefaultBatchDelay,
	}
}

// loadEnvConfig overlays environment variables onto the defaults
func loadEnvConfig(cfg *Config) {
	cfg.DBHost = envString("DB_HOST", cfg.DBHost)
	cfg.DBPort = envString("DB_PORT", cfg.DBPort)
	cfg.DBUser = envString("DB_USER", cfg.DBUser)
	cfg.DBPassword = envString("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = envString("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = envString("DB_SSL_MODE", cfg.DBSSLMode)

	cfg.RedisHost = envString("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = envString("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = envString("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisURL = envString("REDIS_URL", cfg.RedisURL)

	cfg.KnowledgeAPIURL = envString("KNOWLEDGE_API_URL", cfg.KnowledgeAPIURL)
	cfg.KnowledgeAPIKey = envString("KNOWLEDGE_API_KEY", cfg.KnowledgeAPIKey)
	cfg.KnowledgeModel = envString("KNOWLEDGE_MODEL", cfg.KnowledgeModel)

	cfg.CorpusTTL = envDuration("CORPUS_TTL", cfg.CorpusTTL)
	cfg.LibraryCacheTTL = envDuration("LIBRARY_CACHE_TTL", cfg.LibraryCacheTTL)
	cfg.FetchMaxAttempts = envInt("FETCH_MAX_ATTEMPTS", cfg.FetchMaxAttempts)
	cfg.FetchBackoffBase = envDuration("FETCH_BACKOFF_BASE", cfg.FetchBackoffBase)
	cfg.RateLimitWindow = envDuration("RATE_LIMIT_WINDOW", cfg.RateLimitWindow)
	cfg.RateLimitMax = envInt("RATE_LIMIT_MAX", cfg.RateLimitMax)
	cfg.RateLimitRetryDelay = envDuration("RATE_LIMIT_RETRY_DELAY", cfg.RateLimitRetryDelay)
	cfg.BatchSize = envInt("BATCH_SIZE", cfg.BatchSize)
	cfg.BatchDelay = envDuration("BATCH_DELAY", cfg.BatchDelay)
}

// loadSecretConfig overlays Docker secrets onto the config. Secrets hold the
// sensitive values in production; anything absent keeps its current value.
func loadSecretConfig(cfg *Config) {
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("knowledge_api_key"); v != "" {
		cfg.KnowledgeAPIKey = v
	}
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisAddr joins the Redis host and port
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
