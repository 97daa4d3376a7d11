// Package engine plans culturally diverse weekly meals. It wires the corpus
// knowledge cache, the user's meal library, hero ingredient selection and the
// per-slot cultural allocation behind one facade.
package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealmosaic/engine/config"
	"github.com/mealmosaic/engine/internal/cultural"
	"github.com/mealmosaic/engine/internal/dietary"
	"github.com/mealmosaic/engine/internal/hero"
	"github.com/mealmosaic/engine/internal/knowledge"
	"github.com/mealmosaic/engine/internal/kvcache"
	"github.com/mealmosaic/engine/internal/library"
	"github.com/mealmosaic/engine/internal/models"
	"github.com/mealmosaic/engine/internal/ratelimit"
	"github.com/mealmosaic/engine/internal/retrieval"
)

// Options configures an Engine. DB is required; everything else has a
// sensible default. Rand makes planning runs reproducible in tests.
type Options struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Retrieval retrieval.Client
	Logger    *zap.Logger
	Rand      *rand.Rand
	Config    *config.Config
}

// Engine is the meal planning facade.
type Engine struct {
	db        *gorm.DB
	logger    *zap.Logger
	config    *config.Config
	knowledge *knowledge.Cache
	library   *library.Library
	hero      *hero.Selector
	cultural  *cultural.Selector
}

// New wires an Engine from its parts.
func New(opts Options) (*Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := opts.Retrieval
	if client == nil {
		client = retrieval.NewHTTPClient(retrieval.Config{
			APIURL: cfg.KnowledgeAPIURL,
			APIKey: cfg.KnowledgeAPIKey,
			Model:  cfg.KnowledgeModel,
		}, logger)
	}

	limiter := ratelimit.New(ratelimit.Config{
		Window:     cfg.RateLimitWindow,
		Limit:      cfg.RateLimitMax,
		RetryDelay: cfg.RateLimitRetryDelay,
	})
	knowledgeCache := knowledge.New(opts.DB, client, limiter, logger, knowledge.Config{
		TTL:         cfg.CorpusTTL,
		MaxAttempts: cfg.FetchMaxAttempts,
		BackoffBase: cfg.FetchBackoffBase,
		BatchSize:   cfg.BatchSize,
		BatchDelay:  cfg.BatchDelay,
	})

	var store kvcache.Store
	if opts.Redis != nil {
		store = kvcache.NewRedis(opts.Redis)
	} else {
		store = kvcache.NewMemory()
	}

	classifier := dietary.Keyword{}
	lib := library.New(opts.DB, library.Options{
		Cache:      store,
		Classifier: classifier,
		Knowledge:  knowledgeCache,
		Logger:     logger,
		CacheTTL:   cfg.LibraryCacheTTL,
	})

	return &Engine{
		db:        opts.DB,
		logger:    logger,
		config:    cfg,
		knowledge: knowledgeCache,
		library:   lib,
		hero:      hero.New(hero.Options{Classifier: classifier, Logger: logger}),
		cultural:  cultural.New(cultural.Options{Classifier: classifier, Rand: opts.Rand, Logger: logger}),
	}, nil
}

// BuildRequest describes the plan an allocation is being prepared for.
type BuildRequest struct {
	UserID       uuid.UUID
	TotalMeals   int
	Cultures     []string
	Restrictions []string
	Weights      models.GoalWeights
}

// BuildAllocation assembles the per-plan allocation state: the compatible
// meal pool (seeded from cuisine corpora when the user has no saved meals)
// and the cultural meal quota for a plan of this size.
func (e *Engine) BuildAllocation(ctx context.Context, req BuildRequest) (*models.AllocationState, error) {
	pool, err := e.library.GetCompatibleMeals(ctx, req.UserID, req.Cultures, req.Restrictions)
	if err != nil {
		return nil, fmt.Errorf("failed to build meal pool: %w", err)
	}

	state := &models.AllocationState{
		TotalMeals:           req.TotalMeals,
		OptimalCulturalMeals: e.cultural.OptimalCulturalMealCount(req.TotalMeals, req.Weights.Cultural),
		Restrictions:         req.Restrictions,
		Pool:                 pool,
	}
	e.logger.Debug("allocation built",
		zap.String("user_id", req.UserID.String()),
		zap.Int("pool", len(pool)),
		zap.Int("total_meals", state.TotalMeals),
		zap.Int("optimal_cultural", state.OptimalCulturalMeals))
	return state, nil
}

// SlotDecision is the outcome of one slot: whether it goes cultural, and
// with which meal.
type SlotDecision struct {
	UseCultural bool
	Meal        *models.CulturalMeal
}

// DecideSlot runs the per-slot gate and, when it fires, picks the meal.
// The state is mutated: quota usage and the picked meal's history advance.
func (e *Engine) DecideSlot(state *models.AllocationState, slot models.SlotContext, weights models.GoalWeights) SlotDecision {
	if !e.cultural.ShouldUseCulturalMeal(state, slot, weights) {
		return SlotDecision{}
	}
	meal := e.cultural.SelectBestCulturalMeal(state, slot, weights)
	if meal == nil {
		return SlotDecision{}
	}
	return SlotDecision{UseCultural: true, Meal: meal}
}

// ScoreMeal rates one meal against one slot under the given priorities.
func (e *Engine) ScoreMeal(meal *models.CulturalMeal, slot models.SlotContext, weights models.GoalWeights) float64 {
	return e.cultural.ScoreMealCompatibility(meal, slot, weights)
}

// SelectHeroIngredients picks the week's bulk staples.
func (e *Engine) SelectHeroIngredients(cultures, available []string, costPriority float64, restrictions []string) hero.Selection {
	return e.hero.Select(cultures, available, costPriority, restrictions)
}

// EnhanceMeal weaves hero ingredients into a meal and returns what was added.
func (e *Engine) EnhanceMeal(meal *models.CulturalMeal, heroNames []string, costPriority float64) []string {
	return e.hero.Enhance(meal, heroNames, costPriority)
}

// TrackHeroUsage audits hero ingredient usage across a finished plan.
func (e *Engine) TrackHeroUsage(plan []*models.CulturalMeal, targets []string) hero.UsageReport {
	return e.hero.Track(plan, targets)
}

// LoadMeals returns the user's full normalized meal pool.
func (e *Engine) LoadMeals(ctx context.Context, userID uuid.UUID) ([]*models.CulturalMeal, error) {
	return e.library.LoadUserCulturalMeals(ctx, userID)
}

// FilteredMeals returns the user's meals narrowed by the given options.
func (e *Engine) FilteredMeals(ctx context.Context, userID uuid.UUID, opts library.FilterOptions) ([]*models.CulturalMeal, error) {
	return e.library.GetFilteredMeals(ctx, userID, opts)
}

// UpdateMealUsage records that a meal was cooked, with an optional rating.
func (e *Engine) UpdateMealUsage(ctx context.Context, userID uuid.UUID, mealID string, rating *float64) error {
	return e.library.UpdateMealUsage(ctx, userID, mealID, rating)
}

// LibraryStats summarizes the user's meal pool.
func (e *Engine) LibraryStats(ctx context.Context, userID uuid.UUID) (*library.Stats, error) {
	return e.library.Stats(ctx, userID)
}

// GetCuisineCorpus returns the cached corpus for a cuisine, fetching it when
// absent or expired. A nil corpus with nil error means the fetch budget was
// exhausted and planning should continue without corpus knowledge.
func (e *Engine) GetCuisineCorpus(ctx context.Context, cuisine string) (*models.CuisineCorpus, error) {
	return e.knowledge.Get(ctx, cuisine)
}

// RefreshCuisineCorpus forces a refetch regardless of cache freshness.
func (e *Engine) RefreshCuisineCorpus(ctx context.Context, cuisine string) (*models.CuisineCorpus, error) {
	return e.knowledge.GetFresh(ctx, cuisine)
}

// BatchFetchCorpora warms the corpus cache for several cuisines.
func (e *Engine) BatchFetchCorpora(ctx context.Context, cuisines []string) knowledge.BatchResult {
	return e.knowledge.BatchFetch(ctx, cuisines)
}

// KnowledgeStats reports corpus cache coverage and quality.
func (e *Engine) KnowledgeStats(ctx context.Context) (*knowledge.Stats, error) {
	return e.knowledge.Stats(ctx)
}

// PlanStats summarizes the cultural makeup of a finished plan.
func (e *Engine) PlanStats(assignments []models.PlanAssignment) cultural.PlanStats {
	return e.cultural.Stats(assignments)
}

// ValidatePlan checks a plan's cultural share against the target band.
func (e *Engine) ValidatePlan(stats cultural.PlanStats) cultural.Validation {
	return e.cultural.ValidateInsertion(stats)
}
