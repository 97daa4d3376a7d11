// Package knowledge maintains the durable cache of cuisine corpora fetched
// from the external knowledge service. Reads are cheap and tolerate a cold
// cache; fetches are retried, rate limited, and quality scored before the
// corpus is stored.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealmosaic/engine/internal/models"
	"github.com/mealmosaic/engine/internal/ratelimit"
	"github.com/mealmosaic/engine/internal/retrieval"
)

// Config holds the cache tunables. Zero values fall back to the defaults
// the engine ships with.
type Config struct {
	// TTL is how long a stored corpus stays fresh.
	TTL time.Duration
	// MaxAttempts bounds fetch retries per cuisine.
	MaxAttempts int
	// BackoffBase is the first retry delay; it doubles per attempt.
	BackoffBase time.Duration
	// BatchSize is how many cuisines fetch concurrently in a batch.
	BatchSize int
	// BatchDelay separates consecutive batches.
	BatchDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = 2 * time.Second
	}
	return c
}

// Cache is the durable corpus cache.
type Cache struct {
	db      *gorm.DB
	client  retrieval.Client
	limiter *ratelimit.SlidingWindow
	logger  *zap.Logger
	config  Config

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a corpus cache. The limiter and logger may be nil; a nil
// limiter gets the standard knowledge-fetch budget.
func New(db *gorm.DB, client retrieval.Client, limiter *ratelimit.SlidingWindow, logger *zap.Logger, config Config) *Cache {
	if limiter == nil {
		limiter = ratelimit.NewKnowledgeFetchLimiter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		db:      db,
		client:  client,
		limiter: limiter,
		logger:  logger,
		config:  config.withDefaults(),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Get returns the corpus for a cuisine, fetching and storing it when the
// cache has no fresh copy. A cuisine the knowledge service cannot supply
// yields (nil, nil); only context cancellation surfaces as an error.
func (c *Cache) Get(ctx context.Context, cuisine string) (*models.CuisineCorpus, error) {
	return c.get(ctx, cuisine, false)
}

// GetFresh bypasses any stored copy and refetches the corpus.
func (c *Cache) GetFresh(ctx context.Context, cuisine string) (*models.CuisineCorpus, error) {
	return c.get(ctx, cuisine, true)
}

func (c *Cache) get(ctx context.Context, cuisine string, forceRefresh bool) (*models.CuisineCorpus, error) {
	key := models.NormalizeKey(cuisine)
	if key == "" {
		return nil, fmt.Errorf("cuisine name is empty")
	}

	if !forceRefresh {
		var row models.CuisineCorpus
		err := c.db.WithContext(ctx).Where("cuisine_name = ?", key).First(&row).Error
		switch {
		case err == nil:
			if row.Age(c.now()) < c.config.TTL && row.DataVersion == models.CorpusDataVersion {
				c.touch(ctx, &row)
				c.logger.Debug("corpus cache hit",
					zap.String("cuisine", key),
					zap.Int("quality", row.QualityScore))
				return &row, nil
			}
			// Expired or stale-schema rows are dropped and refetched.
			if delErr := c.db.WithContext(ctx).Delete(&row).Error; delErr != nil {
				c.logger.Warn("failed to delete expired corpus",
					zap.String("cuisine", key), zap.Error(delErr))
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Cold cache; fall through to fetch.
		default:
			c.logger.Warn("corpus lookup failed, falling back to fetch",
				zap.String("cuisine", key), zap.Error(err))
		}
	}

	return c.refresh(ctx, key)
}

// touch bumps the access counter without moving the fetched-at timestamp.
func (c *Cache) touch(ctx context.Context, row *models.CuisineCorpus) {
	err := c.db.WithContext(ctx).Model(row).
		UpdateColumn("access_count", gorm.Expr("access_count + 1")).Error
	if err != nil {
		c.logger.Warn("failed to bump corpus access count",
			zap.String("cuisine", row.CuisineName), zap.Error(err))
		return
	}
	row.AccessCount++
}

func (c *Cache) refresh(ctx context.Context, key string) (*models.CuisineCorpus, error) {
	payload, err := c.fetchWithRetry(ctx, key)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Warn("knowledge unavailable for cuisine",
			zap.String("cuisine", key), zap.Error(err))
		return nil, nil
	}

	row, err := c.buildRow(key, payload)
	if err != nil {
		c.logger.Error("failed to encode corpus",
			zap.String("cuisine", key), zap.Error(err))
		return nil, nil
	}

	err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cuisine_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"meals_data", "summary_data", "data_version",
			"quality_score", "access_count", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		// The fetched corpus is still good; the caller gets it either way.
		c.logger.Error("failed to store corpus",
			zap.String("cuisine", key), zap.Error(err))
	}

	c.logger.Info("corpus refreshed",
		zap.String("cuisine", key),
		zap.Int("quality", row.QualityScore))
	return row, nil
}

func (c *Cache) buildRow(key string, payload *models.CorpusPayload) (*models.CuisineCorpus, error) {
	mealsData, err := json.Marshal(payload.Meals)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meals: %w", err)
	}
	summaryData, err := json.Marshal(payload.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	now := c.now()
	return &models.CuisineCorpus{
		ID:           uuid.New(),
		CuisineName:  key,
		MealsData:    mealsData,
		SummaryData:  summaryData,
		DataVersion:  models.CorpusDataVersion,
		QualityScore: QualityScore(payload),
		AccessCount:  1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// fetchWithRetry runs the attempt loop: a full rate-limit window pauses
// without spending an attempt, while transport and schema failures back off
// exponentially until the budget runs out.
func (c *Cache) fetchWithRetry(ctx context.Context, cuisine string) (*models.CorpusPayload, error) {
	var lastErr error
	attempt := 1
	for attempt <= c.config.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !c.limiter.Allow() {
			c.logger.Debug("fetch window full, waiting",
				zap.String("cuisine", cuisine))
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			continue
		}

		raw, err := c.client.FetchCuisine(ctx, cuisine)
		if err == nil {
			payload, parseErr := retrieval.ParsePayload(raw)
			if parseErr == nil {
				return payload, nil
			}
			err = parseErr
		}
		lastErr = err
		c.logger.Warn("knowledge fetch attempt failed",
			zap.String("cuisine", cuisine),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < c.config.MaxAttempts {
			backoff := c.config.BackoffBase << (attempt - 1)
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}
		attempt++
	}
	return nil, fmt.Errorf("%w for %s after %d attempts: %v",
		retrieval.ErrRetryExhausted, cuisine, c.config.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
