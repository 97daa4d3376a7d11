// Package library serves a user's cultural meal pool: saved collections
// normalized into a uniform shape, filtered by culture and mandatory dietary
// safety, with a short-lived cache in front of storage.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealmosaic/engine/internal/dietary"
	"github.com/mealmosaic/engine/internal/knowledge"
	"github.com/mealmosaic/engine/internal/kvcache"
	"github.com/mealmosaic/engine/internal/models"
)

const (
	defaultCacheTTL = 30 * time.Minute
	// recentUseWindow is how long a selected meal stays excluded from
	// recency-sensitive filters.
	recentUseWindow = 14 * 24 * time.Hour
)

// Library loads and filters a user's cultural meals.
type Library struct {
	db         *gorm.DB
	cache      kvcache.Store
	classifier dietary.Classifier
	knowledge  *knowledge.Cache
	logger     *zap.Logger
	cacheTTL   time.Duration
	now        func() time.Time
}

// Options configures optional collaborators. Knowledge enables seeding the
// pool from cuisine corpora when a user has no saved collections.
type Options struct {
	Cache      kvcache.Store
	Classifier dietary.Classifier
	Knowledge  *knowledge.Cache
	Logger     *zap.Logger
	CacheTTL   time.Duration
}

// New creates a meal library over the given database.
func New(db *gorm.DB, opts Options) *Library {
	if opts.Cache == nil {
		opts.Cache = kvcache.NewMemory()
	}
	if opts.Classifier == nil {
		opts.Classifier = dietary.Keyword{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Library{
		db:         db,
		cache:      opts.Cache,
		classifier: opts.Classifier,
		knowledge:  opts.Knowledge,
		logger:     opts.Logger,
		cacheTTL:   opts.CacheTTL,
		now:        time.Now,
	}
}

func mealCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("library:meals:%s", userID)
}

// LoadUserCulturalMeals returns every normalized meal from the user's saved
// collections. Results are cached for the library TTL; storage trouble
// degrades to an empty pool rather than failing the plan.
func (l *Library) LoadUserCulturalMeals(ctx context.Context, userID uuid.UUID) ([]*models.CulturalMeal, error) {
	key := mealCacheKey(userID)

	if data, ok, err := l.cache.Get(ctx, key); err != nil {
		l.logger.Warn("meal cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	} else if ok {
		var meals []*models.CulturalMeal
		if err := json.Unmarshal(data, &meals); err == nil {
			return meals, nil
		}
		l.logger.Warn("discarding undecodable meal cache entry", zap.String("user_id", userID.String()))
		if err := l.cache.Delete(ctx, key); err != nil {
			l.logger.Warn("meal cache delete failed", zap.Error(err))
		}
	}

	var collections []models.SavedMealCollection
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&collections).Error
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.logger.Error("failed to load saved collections",
			zap.String("user_id", userID.String()), zap.Error(err))
		return []*models.CulturalMeal{}, nil
	}

	meals := make([]*models.CulturalMeal, 0)
	for _, col := range collections {
		meals = append(meals, l.normalizeCollection(&col)...)
	}

	l.cacheMeals(ctx, key, meals)
	return meals, nil
}

func (l *Library) normalizeCollection(col *models.SavedMealCollection) []*models.CulturalMeal {
	if len(col.MealsData) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(col.MealsData, &entries); err != nil {
		l.logger.Warn("collection meals data is not a list",
			zap.String("collection_id", col.ID.String()), zap.Error(err))
		return nil
	}

	meals := make([]*models.CulturalMeal, 0, len(entries))
	for i, entry := range entries {
		var raw map[string]any
		if err := json.Unmarshal(entry, &raw); err != nil || raw == nil {
			l.logger.Warn("dropping malformed meal record",
				zap.String("collection_id", col.ID.String()), zap.Int("index", i))
			continue
		}
		meal, err := normalizeMeal(raw, col.CuisineName)
		if err != nil {
			l.logger.Warn("dropping malformed meal record",
				zap.String("collection_id", col.ID.String()),
				zap.Int("index", i), zap.Error(err))
			continue
		}
		meals = append(meals, meal)
	}
	return meals
}

func (l *Library) cacheMeals(ctx context.Context, key string, meals []*models.CulturalMeal) {
	data, err := json.Marshal(meals)
	if err != nil {
		l.logger.Warn("failed to encode meal cache entry", zap.Error(err))
		return
	}
	if err := l.cache.Set(ctx, key, data, l.cacheTTL); err != nil {
		l.logger.Warn("failed to write meal cache entry", zap.Error(err))
	}
}

// GetCompatibleMeals returns the user's meals that match the requested
// cultures and pass every dietary restriction. A user with no saved meals
// gets a pool seeded from the knowledge corpora of the requested cultures.
func (l *Library) GetCompatibleMeals(ctx context.Context, userID uuid.UUID, cultures, restrictions []string) ([]*models.CulturalMeal, error) {
	meals, err := l.LoadUserCulturalMeals(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(meals) == 0 && len(cultures) > 0 && l.knowledge != nil {
		meals = l.seedFromKnowledge(ctx, cultures)
	}

	compatible := make([]*models.CulturalMeal, 0, len(meals))
	for _, meal := range meals {
		if !cultureCompatible(meal, cultures) {
			continue
		}
		if !dietary.SafeForAll(l.classifier, meal.DietaryProfile(), restrictions) {
			continue
		}
		compatible = append(compatible, meal)
	}

	l.logger.Debug("compatible meal pool built",
		zap.String("user_id", userID.String()),
		zap.Int("pool", len(compatible)),
		zap.Strings("cultures", cultures))
	return compatible, nil
}

// seedFromKnowledge builds a starter pool from cuisine corpora. Seeded meals
// are per-request; they are not cached under the user's key so later saves
// take effect immediately.
func (l *Library) seedFromKnowledge(ctx context.Context, cultures []string) []*models.CulturalMeal {
	meals := make([]*models.CulturalMeal, 0)
	for _, culture := range cultures {
		corpus, err := l.knowledge.Get(ctx, culture)
		if err != nil || corpus == nil {
			if err != nil {
				l.logger.Warn("knowledge seed failed", zap.String("culture", culture), zap.Error(err))
			}
			continue
		}
		payload, err := corpus.Payload()
		if err != nil {
			l.logger.Warn("stored corpus is undecodable", zap.String("culture", culture), zap.Error(err))
			continue
		}
		for _, cm := range payload.Meals {
			meals = append(meals, corpusMealToCultural(cm, corpus.CuisineName))
		}
	}
	if len(meals) > 0 {
		l.logger.Info("meal pool seeded from knowledge corpora",
			zap.Strings("cultures", cultures), zap.Int("meals", len(meals)))
	}
	return meals
}

func cultureCompatible(meal *models.CulturalMeal, cultures []string) bool {
	if len(cultures) == 0 {
		return true
	}
	for _, culture := range cultures {
		if models.CultureMatches(meal.CultureTag, culture) {
			return true
		}
	}
	return false
}

// FilterOptions narrows a compatible pool further.
type FilterOptions struct {
	Cultures            []string
	Restrictions        []string
	MaxCookTimeMinutes  int
	MaxDifficulty       float64
	ExcludeRecentlyUsed bool
}

// GetFilteredMeals applies cook-time, difficulty and recency constraints on
// top of culture and dietary compatibility.
func (l *Library) GetFilteredMeals(ctx context.Context, userID uuid.UUID, opts FilterOptions) ([]*models.CulturalMeal, error) {
	meals, err := l.GetCompatibleMeals(ctx, userID, opts.Cultures, opts.Restrictions)
	if err != nil {
		return nil, err
	}

	now := l.now()
	filtered := make([]*models.CulturalMeal, 0, len(meals))
	for _, meal := range meals {
		if opts.MaxCookTimeMinutes > 0 && meal.CookTimeMinutes > opts.MaxCookTimeMinutes {
			continue
		}
		if opts.MaxDifficulty > 0 && meal.Difficulty > opts.MaxDifficulty {
			continue
		}
		if opts.ExcludeRecentlyUsed && meal.UsedWithin(now, recentUseWindow) {
			continue
		}
		filtered = append(filtered, meal)
	}
	return filtered, nil
}

// UpdateMealUsage records one use of a meal, bumping its counter and stamping
// the time, with an optional rating. Tracking is best-effort telemetry held
// in the meal cache; an unknown meal ID is a no-op.
func (l *Library) UpdateMealUsage(ctx context.Context, userID uuid.UUID, mealID string, rating *float64) error {
	meals, err := l.LoadUserCulturalMeals(ctx, userID)
	if err != nil {
		return err
	}

	for _, meal := range meals {
		if meal.ID != mealID {
			continue
		}
		meal.RecordUse(l.now())
		if rating != nil {
			meal.Usage.Rating = *rating
		}
		l.cacheMeals(ctx, mealCacheKey(userID), meals)
		return nil
	}

	l.logger.Debug("usage update for unknown meal",
		zap.String("user_id", userID.String()), zap.String("meal_id", mealID))
	return nil
}
