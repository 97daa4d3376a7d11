package library

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
)

// commonDiets are the restrictions the library reports pass rates for.
var commonDiets = []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "nut-free"}

// Stats summarizes a user's meal library.
type Stats struct {
	TotalMeals             int                `json:"total_meals"`
	Cuisines               []string           `json:"cuisines"`
	AverageCookTimeMinutes float64            `json:"average_cook_time_minutes"`
	DifficultyHistogram    map[int]int        `json:"difficulty_histogram"`
	DietPassRates          map[string]float64 `json:"diet_pass_rates"`
}

// Stats reports cuisine coverage, cook-time and difficulty shape, and how
// much of the library survives each common diet.
func (l *Library) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	meals, err := l.LoadUserCulturalMeals(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalMeals:          len(meals),
		DifficultyHistogram: make(map[int]int),
		DietPassRates:       make(map[string]float64),
	}
	if len(meals) == 0 {
		return stats, nil
	}

	cuisines := make(map[string]struct{})
	totalCookTime := 0
	passes := make(map[string]int, len(commonDiets))
	for _, meal := range meals {
		if meal.CultureTag != "" {
			cuisines[meal.CultureTag] = struct{}{}
		}
		totalCookTime += meal.CookTimeMinutes

		bucket := int(math.Round(meal.Difficulty))
		if bucket < 1 {
			bucket = 1
		}
		if bucket > 5 {
			bucket = 5
		}
		stats.DifficultyHistogram[bucket]++

		profile := meal.DietaryProfile()
		for _, diet := range commonDiets {
			if l.classifier.Safe(profile, diet) {
				passes[diet]++
			}
		}
	}

	for cuisine := range cuisines {
		stats.Cuisines = append(stats.Cuisines, cuisine)
	}
	sort.Strings(stats.Cuisines)

	stats.AverageCookTimeMinutes = math.Round(float64(totalCookTime)/float64(len(meals))*10) / 10
	for _, diet := range commonDiets {
		stats.DietPassRates[diet] = math.Round(float64(passes[diet])/float64(len(meals))*1000) / 10
	}

	return stats, nil
}
