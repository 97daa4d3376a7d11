package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mealmosaic/engine/config"
	"github.com/mealmosaic/engine/internal/database"
	"github.com/mealmosaic/engine/internal/library"
	"github.com/mealmosaic/engine/internal/models"
	"github.com/mealmosaic/engine/internal/retrieval"
)

// stubRetrievalClient returns a well-formed corpus for every cuisine.
type stubRetrievalClient struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (s *stubRetrievalClient) FetchCuisine(ctx context.Context, cuisine string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail {
		return "", errors.New("service unavailable")
	}

	payload := models.CorpusPayload{
		Culture: cuisine,
		Summary: models.CorpusSummary{
			CommonHealthyIngredients: []string{"vegetables", "legumes"},
			CommonCookingTechniques:  []string{"simmering"},
			KeyFlavorProfiles:        []string{"savory"},
			TraditionalMealPatterns:  []string{"shared plates"},
		},
	}
	for i := 0; i < retrieval.CorpusMealCount; i++ {
		payload.Meals = append(payload.Meals, models.CorpusMeal{
			Name:                 fmt.Sprintf("%s dish %d", cuisine, i+1),
			Description:          "a traditional dish",
			CookingTechniques:    []string{"simmer"},
			HealthyIngredients:   []string{"vegetables", "rice"},
			HealthyModifications: []string{"less oil"},
		})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *stubRetrievalClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestEngine(t *testing.T, seed int64, client retrieval.Client) (*Engine, *gorm.DB) {
	t.Helper()
	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := config.Default()
	cfg.FetchBackoffBase = time.Millisecond
	cfg.BatchDelay = time.Millisecond
	cfg.RateLimitRetryDelay = time.Millisecond
	cfg.RateLimitMax = 1000

	eng, err := New(Options{
		DB:        db,
		Retrieval: client,
		Rand:      rand.New(rand.NewSource(seed)),
		Config:    cfg,
	})
	require.NoError(t, err)
	return eng, db
}

type mealRecord struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Culture      string   `json:"culture"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Nutrition    struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	} `json:"nutrition"`
	CookTime     int      `json:"cook_time"`
	Difficulty   float64  `json:"difficulty"`
	Authenticity float64  `json:"authenticity"`
	DietaryTags  []string `json:"dietary_tags"`
}

func seedMealPool(t *testing.T, db *gorm.DB, userID uuid.UUID, cultures []string, perCulture int) {
	t.Helper()
	for _, culture := range cultures {
		records := make([]mealRecord, 0, perCulture)
		for i := 0; i < perCulture; i++ {
			rec := mealRecord{
				Name:         fmt.Sprintf("%s classic %d", culture, i+1),
				Description:  "weeknight staple",
				Culture:      culture,
				Ingredients:  []string{"rice", "beans", "onion"},
				Instructions: []string{"Cook the aromatics.", "Simmer and serve."},
				CookTime:     12,
				Difficulty:   2,
				Authenticity: 0.8,
				DietaryTags:  []string{"vegetarian"},
			}
			rec.Nutrition.Calories = 450
			rec.Nutrition.Protein = 25
			rec.Nutrition.Carbs = 50
			rec.Nutrition.Fat = 10
			records = append(records, rec)
		}
		data, err := json.Marshal(records)
		require.NoError(t, err)

		require.NoError(t, db.Create(&models.SavedMealCollection{
			ID:          uuid.New(),
			UserID:      userID,
			CuisineName: culture,
			CustomName:  culture + " favorites",
			MealsData:   datatypes.JSON(data),
		}).Error)
	}
}

func TestNewRequiresDB(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestPlanGenerationEndToEnd(t *testing.T) {
	ctx := context.Background()
	client := &stubRetrievalClient{}
	eng, db := newTestEngine(t, 42, client)

	userID := uuid.New()
	cultures := []string{"mexican", "thai", "indian", "korean"}
	seedMealPool(t, db, userID, cultures, 3)

	weights := models.GoalWeights{Cost: 0.5, Health: 0.5, Cultural: 0.8, Variety: 0.5, Time: 0.5}
	state, err := eng.BuildAllocation(ctx, BuildRequest{
		UserID:     userID,
		TotalMeals: 21,
		Cultures:   cultures,
		Weights:    weights,
	})
	require.NoError(t, err)
	require.Len(t, state.Pool, 12)
	assert.Equal(t, 6, state.OptimalCulturalMeals)
	assert.Zero(t, client.callCount(), "saved collections cover the pool, no fetch needed")

	days := []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	types := []string{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner}

	var prior []models.PlanAssignment
	picked := make(map[string]int)
	for i := 0; i < state.TotalMeals; i++ {
		slot := models.SlotContext{
			Day:       days[i/3],
			MealType:  types[i%3],
			SlotIndex: i,
			Prior:     prior,
		}
		decision := eng.DecideSlot(state, slot, weights)
		assignment := models.PlanAssignment{MealName: "house meal"}
		if decision.UseCultural {
			require.NotNil(t, decision.Meal)
			picked[decision.Meal.Name]++
			assignment = models.PlanAssignment{
				MealName:   decision.Meal.Name,
				CultureTag: decision.Meal.CultureTag,
				IsCultural: true,
			}
		}
		prior = append(prior, assignment)
	}

	assert.Equal(t, state.OptimalCulturalMeals, state.CulturalUsed, "the walk fills the quota")
	for name, count := range picked {
		assert.Equal(t, 1, count, "meal %s repeated within the plan", name)
	}

	stats := eng.PlanStats(prior)
	assert.Equal(t, state.CulturalUsed, stats.CulturalMeals)
	assert.InDelta(t, 100.0*6.0/21.0, stats.CulturalPercent, 1e-9)

	validation := eng.ValidatePlan(stats)
	assert.True(t, validation.WithinTarget)
	assert.Equal(t, stats.CulturalPercent, validation.CulturalPercent)
}

func TestBuildAllocationSeedsFromKnowledge(t *testing.T) {
	ctx := context.Background()
	client := &stubRetrievalClient{}
	eng, db := newTestEngine(t, 7, client)

	state, err := eng.BuildAllocation(ctx, BuildRequest{
		UserID:     uuid.New(),
		TotalMeals: 7,
		Cultures:   []string{"mexican"},
		Weights:    models.GoalWeights{Cultural: 0.5},
	})
	require.NoError(t, err)

	require.Len(t, state.Pool, retrieval.CorpusMealCount, "an empty library borrows the cuisine corpus")
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, "mexican", state.Pool[0].CultureTag)

	var count int64
	require.NoError(t, db.Model(&models.CuisineCorpus{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the fetched corpus is stored durably")

	kstats, err := eng.KnowledgeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), kstats.Corpora)
}

func TestGetCuisineCorpusDegradesToNil(t *testing.T) {
	ctx := context.Background()
	client := &stubRetrievalClient{fail: true}
	eng, _ := newTestEngine(t, 7, client)

	corpus, err := eng.GetCuisineCorpus(ctx, "atlantis")
	require.NoError(t, err, "an unfetchable cuisine is not an error")
	assert.Nil(t, corpus)
	assert.Equal(t, 3, client.callCount(), "the full retry budget is spent")
}

func TestRefreshCuisineCorpusForcesFetch(t *testing.T) {
	ctx := context.Background()
	client := &stubRetrievalClient{}
	eng, _ := newTestEngine(t, 7, client)

	first, err := eng.GetCuisineCorpus(ctx, "thai")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, client.callCount())

	cached, err := eng.GetCuisineCorpus(ctx, "thai")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 1, client.callCount(), "a fresh corpus is served from the cache")

	refreshed, err := eng.RefreshCuisineCorpus(ctx, "thai")
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.Equal(t, 2, client.callCount())
}

func TestBatchFetchCorpora(t *testing.T) {
	ctx := context.Background()
	client := &stubRetrievalClient{}
	eng, _ := newTestEngine(t, 7, client)

	result := eng.BatchFetchCorpora(ctx, []string{"mexican", "thai"})

	assert.Len(t, result.Corpora, 2)
	assert.Empty(t, result.Failed)
}

func TestMealUsageRoundTrip(t *testing.T) {
	ctx := context.Background()
	eng, db := newTestEngine(t, 7, &stubRetrievalClient{})

	userID := uuid.New()
	seedMealPool(t, db, userID, []string{"mexican"}, 2)

	meals, err := eng.LoadMeals(ctx, userID)
	require.NoError(t, err)
	require.Len(t, meals, 2)

	rating := 4.5
	require.NoError(t, eng.UpdateMealUsage(ctx, userID, meals[0].ID, &rating))

	remaining, err := eng.FilteredMeals(ctx, userID, library.FilterOptions{ExcludeRecentlyUsed: true})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, meals[1].ID, remaining[0].ID)

	lstats, err := eng.LibraryStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, lstats.TotalMeals)
}

func TestHeroFlowThroughFacade(t *testing.T) {
	eng, _ := newTestEngine(t, 7, &stubRetrievalClient{})

	selection := eng.SelectHeroIngredients([]string{"mexican"}, nil, 0.8, []string{"vegetarian"})
	require.GreaterOrEqual(t, len(selection.Ingredients), 3)
	assert.Greater(t, selection.EstimatedWeeklySavings, 0.0)

	meal := &models.CulturalMeal{
		Name:         "Simple salad",
		Ingredients:  []string{"lettuce", "lime"},
		Instructions: []string{"Toss and serve."},
	}
	names := make([]string, 0, len(selection.Ingredients))
	for _, ing := range selection.Ingredients {
		names = append(names, ing.Name)
	}
	applied := eng.EnhanceMeal(meal, names, 0.8)
	assert.NotEmpty(t, applied)
	assert.Equal(t, applied, meal.HeroIngredients)

	report := eng.TrackHeroUsage([]*models.CulturalMeal{meal}, names)
	assert.Equal(t, 3, report.Target)
	assert.NotEmpty(t, report.Recommendations)
}

func TestScoreMealPassThrough(t *testing.T) {
	eng, _ := newTestEngine(t, 7, &stubRetrievalClient{})

	meal := &models.CulturalMeal{
		Name:            "dal",
		CultureTag:      "indian",
		Ingredients:     []string{"lentils", "onion"},
		CookTimeMinutes: 25,
		Authenticity:    0.9,
		Nutrition:       models.Nutrition{Calories: 400, ProteinG: 22},
	}
	slot := models.SlotContext{MealType: models.MealTypeLunch}

	score := eng.ScoreMeal(meal, slot, models.GoalWeights{Cultural: 1.0})
	assert.InDelta(t, 0.9, score, 1e-9)
}
