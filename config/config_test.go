package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "planner")
	t.Setenv("DB_PASSWORD", "sekrit")
	t.Setenv("DB_NAME", "meals")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("KNOWLEDGE_API_KEY", "test-key")
	t.Setenv("CORPUS_TTL", "12h")
	t.Setenv("RATE_LIMIT_MAX", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "planner", cfg.DBUser)
	assert.Equal(t, "sekrit", cfg.DBPassword)
	assert.Equal(t, "meals", cfg.DBName)
	assert.Equal(t, "cache.internal", cfg.RedisHost)
	assert.Equal(t, "test-key", cfg.KnowledgeAPIKey)
	assert.Equal(t, 12*time.Hour, cfg.CorpusTTL)
	assert.Equal(t, 25, cfg.RateLimitMax)

	assert.Equal(t, "host=db.internal port=5433 user=planner password=sekrit dbname=meals sslmode=disable", cfg.DSN())
	assert.Equal(t, "cache.internal:6379", cfg.RedisAddr())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	for _, name := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
		"KNOWLEDGE_API_URL", "KNOWLEDGE_API_KEY", "KNOWLEDGE_MODEL",
		"CORPUS_TTL", "LIBRARY_CACHE_TTL", "FETCH_MAX_ATTEMPTS", "FETCH_BACKOFF_BASE",
		"RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "RATE_LIMIT_RETRY_DELAY",
		"BATCH_SIZE", "BATCH_DELAY",
	} {
		t.Setenv(name, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "mealmosaic", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "deepseek-chat", cfg.KnowledgeModel)
	assert.Equal(t, DefaultCorpusTTL, cfg.CorpusTTL)
	assert.Equal(t, DefaultLibraryCacheTTL, cfg.LibraryCacheTTL)
	assert.Equal(t, DefaultFetchMaxAttempts, cfg.FetchMaxAttempts)
	assert.Equal(t, DefaultRateLimitWindow, cfg.RateLimitWindow)
	assert.Equal(t, DefaultRateLimitMax, cfg.RateLimitMax)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
}

func TestLoadConfigBadOverridesFallBack(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("CORPUS_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_MAX", "many")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultCorpusTTL, cfg.CorpusTTL)
	assert.Equal(t, DefaultRateLimitMax, cfg.RateLimitMax)
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := defaultConfig()
	cfg.DBHost = ""
	cfg.DBName = ""
	cfg.CorpusTTL = 0
	cfg.BatchSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DBHost")
	assert.Contains(t, err.Error(), "DBName")
	assert.Contains(t, err.Error(), "CorpusTTL")
	assert.Contains(t, err.Error(), "BatchSize")
}

func TestValidateRequiresAPIKeyInProduction(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := defaultConfig()
	cfg.KnowledgeAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KnowledgeAPIKey")

	cfg.KnowledgeAPIKey = "k"
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ENV", "production")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())
}
