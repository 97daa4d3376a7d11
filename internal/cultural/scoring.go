package cultural

import (
	"strings"

	"github.com/mealmosaic/engine/internal/models"
)

// stapleKeywords mark pantry ingredients that keep a meal cheap to cook.
var stapleKeywords = []string{
	"rice", "beans", "lentils", "potato", "onion", "garlic", "cabbage",
	"carrot", "egg", "oats", "tofu", "tomato", "flour", "pasta", "noodle",
}

// compatibilityThreshold is the minimum weighted score a meal needs to be
// considered for a slot at all.
const compatibilityThreshold = 0.3

// ScoreMealCompatibility rates how well a meal fits a slot under the given
// priorities. Five axes, each in [0,1], are blended by the goal weights and
// the sum is capped at 1.0. The score is deterministic for fixed inputs.
func (s *Selector) ScoreMealCompatibility(meal *models.CulturalMeal, slot models.SlotContext, weights models.GoalWeights) float64 {
	if meal == nil {
		return 0
	}
	score := clamp01(weights.Cost)*costScore(meal) +
		clamp01(weights.Health)*healthScore(meal) +
		clamp01(weights.Cultural)*clamp01(meal.Authenticity) +
		clamp01(weights.Variety)*varietyScore(meal, slot) +
		clamp01(weights.Time)*timeScore(meal, weights.Time)
	if score > 1 {
		return 1
	}
	return score
}

// costScore averages how much of the ingredient list is cheap staples with
// how quick the meal is to cook. Long cooking is a cost too: energy and
// attention.
func costScore(meal *models.CulturalMeal) float64 {
	staples := 0
	for _, ing := range meal.Ingredients {
		if models.ContainsAnyKeyword(strings.ToLower(ing), stapleKeywords) {
			staples++
		}
	}
	fraction := 0.0
	if len(meal.Ingredients) > 0 {
		fraction = float64(staples) / float64(len(meal.Ingredients))
	}
	return (fraction + decay(meal.CookTimeMinutes, 30, 90, 0.3)) / 2
}

// healthScore starts at a neutral 0.5 and rewards a moderate calorie load
// and real protein.
func healthScore(meal *models.CulturalMeal) float64 {
	score := 0.5
	if meal.Nutrition.Calories >= 300 && meal.Nutrition.Calories <= 600 {
		score += 0.25
	}
	if meal.Nutrition.ProteinG >= 20 {
		score += 0.25
	}
	return score
}

// varietyScore penalizes a culture that already appeared among the last
// five assignments.
func varietyScore(meal *models.CulturalMeal, slot models.SlotContext) float64 {
	for _, culture := range slot.RecentCultures(5) {
		if models.CultureMatches(meal.CultureTag, culture) {
			return 0.3
		}
	}
	return 0.9
}

// timeScore bands by how much the user cares about speed. High priority
// wants meals on the table in twenty minutes; moderate priority tolerates
// forty-five; low priority barely looks at the clock.
func timeScore(meal *models.CulturalMeal, timeWeight float64) float64 {
	switch {
	case timeWeight >= 0.7:
		return decay(meal.CookTimeMinutes, 20, 60, 0.2)
	case timeWeight >= 0.4:
		return decay(meal.CookTimeMinutes, 45, 105, 0.3)
	default:
		return 0.7
	}
}

// decay returns 1.0 up to fullUntil minutes, then falls linearly to floor at
// zeroAt minutes and stays there.
func decay(cookMinutes, fullUntil, zeroAt int, floor float64) float64 {
	if cookMinutes <= fullUntil {
		return 1.0
	}
	if cookMinutes >= zeroAt {
		return floor
	}
	span := float64(zeroAt - fullUntil)
	return 1.0 - float64(cookMinutes-fullUntil)/span*(1.0-floor)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
