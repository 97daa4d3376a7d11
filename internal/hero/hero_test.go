package hero

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmosaic/engine/internal/models"
)

func testCatalog() []models.HeroIngredient {
	return []models.HeroIngredient{
		{
			Name: "Black beans", Versatility: 0.9, CostEfficiency: 1.0,
			Cuisines: []string{"mexican"}, StorageLifeDays: 365, BulkFriendly: true,
			SafeTags: []string{"vegan", "vegetarian", "gluten-free"},
			Contexts: []string{models.ContextProtein, models.ContextBase},
		},
		{
			Name: "Rice", Versatility: 0.95, CostEfficiency: 0.95,
			Cuisines: []string{"mexican", "chinese"}, StorageLifeDays: 730, BulkFriendly: true,
			SafeTags: []string{"vegan", "vegetarian", "gluten-free"},
			Contexts: []string{models.ContextBase},
		},
		{
			Name: "Onions", Versatility: 0.95, CostEfficiency: 0.9,
			Cuisines: []string{"mexican", "indian"}, StorageLifeDays: 60, BulkFriendly: true,
			SafeTags: []string{"vegan", "vegetarian", "gluten-free"},
			Contexts: []string{models.ContextAromatics, models.ContextVegetable},
		},
		{
			Name: "Carrots", Versatility: 0.8, CostEfficiency: 0.9,
			Cuisines: []string{"french"}, StorageLifeDays: 30, BulkFriendly: true,
			SafeTags: []string{"vegan", "vegetarian", "gluten-free"},
			Contexts: []string{models.ContextVegetable},
		},
		{
			Name: "Chicken thighs", Versatility: 0.95, CostEfficiency: 0.8,
			Cuisines: []string{"mexican"}, StorageLifeDays: 180, BulkFriendly: true,
			SafeTags: []string{"gluten-free", "dairy-free"},
			Contexts: []string{models.ContextProtein},
		},
	}
}

func TestSelectCoversContextsFirst(t *testing.T) {
	s := New(Options{Catalog: testCatalog()})

	sel := s.Select([]string{"mexican"}, nil, 1.0, nil)

	require.Len(t, sel.Ingredients, 5)
	names := make([]string, 0, 5)
	for _, ing := range sel.Ingredients {
		names = append(names, ing.Name)
	}
	// Black beans (protein+base) and Onions (aromatics+vegetable) finish
	// coverage in two picks; the rest fill in by score.
	assert.Equal(t, []string{"Black beans", "Onions", "Rice", "Chicken thighs", "Carrots"}, names)
	assert.Equal(t, models.AllContexts, sel.ContextCoverage)
	assert.NotEmpty(t, sel.Rationale)
}

func TestSelectScoreComponents(t *testing.T) {
	s := New(Options{Catalog: testCatalog()})

	sel := s.Select([]string{"mexican"}, nil, 1.0, nil)
	require.Len(t, sel.Ingredients, 5)

	byName := make(map[string]RankedIngredient)
	for _, ing := range sel.Ingredients {
		byName[ing.Name] = ing
	}
	// 0.3*0.9 + 0.4*1.0 + 0.15 culture + 0.05 storage + 0.05 bulk
	assert.InDelta(t, 0.92, byName["Black beans"].Score, 1e-9)
	// Carrots miss the culture bonus.
	assert.InDelta(t, 0.70, byName["Carrots"].Score, 1e-9)
}

func TestSelectTargetUsesAndSavings(t *testing.T) {
	s := New(Options{Catalog: testCatalog()})

	sel := s.Select([]string{"mexican"}, nil, 1.0, nil)
	require.Len(t, sel.Ingredients, 5)

	for _, ing := range sel.Ingredients {
		switch {
		case ing.Versatility >= 0.9:
			assert.Equal(t, 4, ing.TargetUses, ing.Name)
		case ing.Versatility >= 0.8:
			assert.Equal(t, 3, ing.TargetUses, ing.Name)
		default:
			assert.Equal(t, 2, ing.TargetUses, ing.Name)
		}
	}
	// 4*1.0*2 + 4*0.95*2 + 4*0.9*2 + 4*0.8*2 + 3*0.9*2
	assert.InDelta(t, 34.6, sel.EstimatedWeeklySavings, 1e-9)
}

func TestSelectDietaryFilterIsHard(t *testing.T) {
	s := New(Options{Catalog: testCatalog()})

	sel := s.Select([]string{"mexican"}, nil, 0.5, []string{"vegan"})

	require.Len(t, sel.Ingredients, 4)
	for _, ing := range sel.Ingredients {
		assert.NotEqual(t, "Chicken thighs", ing.Name)
	}
	assert.Equal(t, models.AllContexts, sel.ContextCoverage)
	assert.Contains(t, sel.DietCoverage, "vegan")
}

func TestSelectDietCoverageIsSharedTags(t *testing.T) {
	s := New(Options{Catalog: testCatalog()})

	sel := s.Select([]string{"mexican"}, nil, 1.0, nil)

	// Chicken thighs lack the vegan tags, so only gluten-free is shared.
	assert.Equal(t, []string{"gluten-free"}, sel.DietCoverage)
}

func TestSelectAvailabilityBonus(t *testing.T) {
	s := New(Options{Catalog: testCatalog()})

	without := s.Select(nil, nil, 0.0, nil)
	with := s.Select(nil, []string{"carrots"}, 0.0, nil)

	find := func(sel Selection, name string) RankedIngredient {
		for _, ing := range sel.Ingredients {
			if ing.Name == name {
				return ing
			}
		}
		t.Fatalf("ingredient %s not selected", name)
		return RankedIngredient{}
	}
	assert.InDelta(t, 0.1, find(with, "Carrots").Score-find(without, "Carrots").Score, 1e-9)
}

func TestSelectDefaultCatalogProperties(t *testing.T) {
	s := New(Options{})

	sel := s.Select([]string{"thai"}, nil, 0.5, nil)

	require.Len(t, sel.Ingredients, 5)
	assert.Equal(t, models.AllContexts, sel.ContextCoverage)
	assert.Greater(t, sel.EstimatedWeeklySavings, 0.0)

	seen := make(map[string]bool)
	for _, ing := range sel.Ingredients {
		assert.False(t, seen[ing.Name], "duplicate selection %s", ing.Name)
		seen[ing.Name] = true
		assert.GreaterOrEqual(t, ing.TargetUses, 2)
		assert.LessOrEqual(t, ing.TargetUses, 4)
	}
}

func TestSelectDefaultCatalogVegan(t *testing.T) {
	s := New(Options{})

	sel := s.Select(nil, nil, 0.5, []string{"vegan", "nut-free"})

	require.GreaterOrEqual(t, len(sel.Ingredients), 3)
	for _, ing := range sel.Ingredients {
		assert.Contains(t, ing.SafeTags, "vegan", ing.Name)
	}
}

func newSpinachMeal() *models.CulturalMeal {
	return &models.CulturalMeal{
		Name:         "Steamed greens",
		Description:  "simple side",
		Ingredients:  []string{"spinach", "salt"},
		Instructions: []string{"Steam the spinach until wilted."},
	}
}

func TestEnhanceAppliesContextRules(t *testing.T) {
	s := New(Options{})
	meal := newSpinachMeal()

	applied := s.Enhance(meal, []string{"Garlic", "Dried black beans", "Long-grain rice"}, 0.0)

	assert.Equal(t, []string{"Long-grain rice", "Dried black beans", "Garlic"}, applied)
	assert.Equal(t, applied, meal.HeroIngredients)

	// Aromatics go first in the ingredient list and rewrite the opening step.
	assert.Equal(t, "Garlic", meal.Ingredients[0])
	assert.Equal(t, "Start by sautéing the garlic, then steam the spinach until wilted.", meal.Instructions[0])
	assert.Contains(t, meal.Instructions, "Serve over rice.")
	assert.Contains(t, meal.Instructions, "Add the black beans for extra protein.")
}

func TestEnhanceSkipsIngredientsAlreadyPresent(t *testing.T) {
	s := New(Options{})
	meal := newSpinachMeal()
	meal.Ingredients = append(meal.Ingredients, "two garlic cloves")

	applied := s.Enhance(meal, []string{"Garlic"}, 0.5)

	assert.Empty(t, applied)
	assert.Empty(t, meal.HeroIngredients)
}

func TestEnhanceSkipsFilledContexts(t *testing.T) {
	s := New(Options{})
	meal := &models.CulturalMeal{
		Name:         "Chicken fried rice",
		Ingredients:  []string{"chicken", "rice", "soy sauce"},
		Instructions: []string{"Fry everything together."},
	}

	// Protein and base are both covered, so neither hero applies.
	applied := s.Enhance(meal, []string{"Firm tofu", "Rolled oats"}, 0.5)

	assert.Empty(t, applied)
}

func TestEnhanceCapsAdditions(t *testing.T) {
	s := New(Options{})
	meal := newSpinachMeal()

	applied := s.Enhance(meal, []string{"Garlic", "Firm tofu", "Long-grain rice", "Carrots"}, 0.0)

	assert.Len(t, applied, 3)
	assert.NotContains(t, applied, "Firm tofu")
}

func TestEnhanceCapsTotalIngredients(t *testing.T) {
	s := New(Options{})
	meal := newSpinachMeal()
	for len(meal.Ingredients) < 11 {
		meal.Ingredients = append(meal.Ingredients, "filler")
	}

	applied := s.Enhance(meal, []string{"Garlic", "Long-grain rice"}, 0.0)

	assert.Len(t, applied, 1)
	assert.Len(t, meal.Ingredients, 12)
}

func TestEnhanceNilAndEmptyInputs(t *testing.T) {
	s := New(Options{})

	assert.Nil(t, s.Enhance(nil, []string{"Garlic"}, 0.5))
	assert.Nil(t, s.Enhance(newSpinachMeal(), nil, 0.5))
}

func TestTrackRecommendations(t *testing.T) {
	s := New(Options{})

	mealWith := func(ingredients ...string) *models.CulturalMeal {
		return &models.CulturalMeal{Name: "dish", Ingredients: ingredients}
	}
	plan := []*models.CulturalMeal{
		mealWith("garlic", "black beans", "rice"),
		mealWith("garlic", "rice"),
		mealWith("garlic", "rice"),
		mealWith("garlic", "tomatoes"),
		mealWith("garlic", "tomatoes"),
	}

	report := s.Track(plan, []string{"Dried black beans", "Garlic", "Long-grain rice"})

	assert.Equal(t, 3, report.Target)
	assert.Equal(t, 1, report.Counts["Dried black beans"])
	assert.Equal(t, 5, report.Counts["Garlic"])
	assert.Equal(t, 3, report.Counts["Long-grain rice"])
	require.Len(t, report.Recommendations, 2)
	assert.Equal(t, "work black beans into 2 more meals this week", report.Recommendations[0])
	assert.Equal(t, "ease off garlic, it already appears in 5 meals", report.Recommendations[1])
}

func TestTrackBalanced(t *testing.T) {
	s := New(Options{})

	plan := []*models.CulturalMeal{
		{Name: "a", Ingredients: []string{"garlic"}},
		{Name: "b", Ingredients: []string{"garlic"}},
		{Name: "c", Ingredients: []string{"garlic"}},
	}

	report := s.Track(plan, []string{"Garlic"})

	assert.Equal(t, []string{"hero ingredient usage is well balanced"}, report.Recommendations)
}

func TestTrackTokenMatching(t *testing.T) {
	s := New(Options{})

	plan := []*models.CulturalMeal{
		{Name: "Eggplant parmesan", Ingredients: []string{"eggplant", "cheese"}},
	}

	report := s.Track(plan, []string{"Eggs"})

	assert.Equal(t, 0, report.Counts["Eggs"])
}
