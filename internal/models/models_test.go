package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCuisineCorpusPayload(t *testing.T) {
	corpus := &CuisineCorpus{
		CuisineName: "mexican",
		MealsData:   datatypes.JSON(`[{"name":"Pozole","description":"Hominy stew","cooking_techniques":["simmering"],"healthy_ingredients":["hominy","pork shoulder"],"healthy_modifications":["use lean pork"]}]`),
		SummaryData: datatypes.JSON(`{"common_healthy_ingredients":["beans"],"common_cooking_techniques":["grilling"],"key_flavor_profiles":["smoky"],"traditional_meal_patterns":["large midday meal"]}`),
	}

	p, err := corpus.Payload()
	require.NoError(t, err)
	assert.Equal(t, "mexican", p.Culture)
	require.Len(t, p.Meals, 1)
	assert.Equal(t, "Pozole", p.Meals[0].Name)
	assert.Equal(t, []string{"beans"}, p.Summary.CommonHealthyIngredients)
	assert.Equal(t, []string{"large midday meal"}, p.Summary.TraditionalMealPatterns)
}

func TestCuisineCorpusPayloadMalformed(t *testing.T) {
	corpus := &CuisineCorpus{
		CuisineName: "thai",
		MealsData:   datatypes.JSON(`{"not":"an array"}`),
	}

	_, err := corpus.Payload()
	assert.Error(t, err)
}

func TestCulturalMealSearchText(t *testing.T) {
	meal := &CulturalMeal{
		Name:         "Chicken Tinga",
		Description:  "Shredded chicken in chipotle sauce",
		Ingredients:  []string{"Chicken thighs", "Chipotle peppers"},
		Instructions: []string{"Simmer until tender"},
	}

	text := meal.SearchText()
	assert.Contains(t, text, "chicken tinga")
	assert.Contains(t, text, "chipotle peppers")
	assert.Contains(t, text, "simmer until tender")
	assert.NotContains(t, text, "Chicken")
}

func TestCulturalMealUsage(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	meal := &CulturalMeal{Name: "Bibimbap"}

	assert.False(t, meal.UsedWithin(now, 14*24*time.Hour))

	meal.RecordUse(now.Add(-10 * 24 * time.Hour))
	assert.True(t, meal.UsedWithin(now, 14*24*time.Hour))
	assert.False(t, meal.UsedWithin(now, 5*24*time.Hour))
	assert.Equal(t, 1, meal.Usage.Count)
}

func TestSlotContextHistory(t *testing.T) {
	slot := SlotContext{
		Prior: []PlanAssignment{
			{MealName: "Oatmeal"},
			{MealName: "Tacos", CultureTag: "mexican", IsCultural: true},
			{MealName: "Pad Thai", CultureTag: "thai", IsCultural: true},
			{MealName: "Salad"},
			{MealName: "Pho", CultureTag: "vietnamese", IsCultural: true},
		},
	}

	t.Run("last cultural counts the tail", func(t *testing.T) {
		assert.Equal(t, 2, slot.LastCultural(3))
		assert.Equal(t, 3, slot.LastCultural(5))
		assert.Equal(t, 0, SlotContext{}.LastCultural(3))
	})

	t.Run("recent cultures skips untagged slots", func(t *testing.T) {
		assert.Equal(t, []string{"thai", "vietnamese"}, slot.RecentCultures(3))
		assert.Equal(t, []string{"mexican", "thai", "vietnamese"}, slot.RecentCultures(5))
	})
}

func TestAllocationStateRemaining(t *testing.T) {
	state := &AllocationState{TotalMeals: 21, OptimalCulturalMeals: 5, CulturalUsed: 3}

	assert.Equal(t, 11, state.RemainingSlots(10))
	assert.Equal(t, 0, state.RemainingSlots(25))
	assert.Equal(t, 2, state.RemainingQuota())

	state.CulturalUsed = 7
	assert.Equal(t, 0, state.RemainingQuota())
}

func TestCultureMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "mexican", "mexican", true},
		{"case insensitive", "Mexican", "MEXICAN", true},
		{"substring either direction", "mexican food", "Mexican", true},
		{"unrelated", "thai", "italian", false},
		{"empty never matches", "", "thai", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CultureMatches(tt.a, tt.b))
		})
	}
}

func TestHeroIngredientContexts(t *testing.T) {
	hero := &HeroIngredient{Name: "Dried black beans", Contexts: []string{ContextProtein, ContextBase}}

	assert.True(t, hero.HasContext(ContextProtein))
	assert.False(t, hero.HasContext(ContextAromatics))

	profile := hero.DietaryProfile()
	assert.Equal(t, "dried black beans", profile.Text)
	assert.False(t, profile.HasNutrition)
}
