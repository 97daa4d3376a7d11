package library

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mealmosaic/engine/internal/models"
)

// Defaults for fields the saved record does not carry. Estimates are typical
// home-cooking values so scoring always has something to work with.
const (
	defaultDifficulty  = 2.5
	defaultCookTimeMin = 30
	defaultCalories    = 400
	defaultProteinG    = 20
	defaultCarbsG      = 30
	defaultFatG        = 15

	defaultAuthenticity = 0.7
)

// normalizeMeal cleans one heterogeneous saved-meal record into a fully
// populated CulturalMeal. Field names vary by the client version that wrote
// the record, so every field tries its known aliases before defaulting.
func normalizeMeal(raw map[string]any, fallbackCulture string) (*models.CulturalMeal, error) {
	if raw == nil {
		return nil, fmt.Errorf("meal entry is not an object")
	}

	name := stringField(raw, "name", "meal_name", "title")
	ingredients := listField(raw, "ingredients", "healthy_ingredients")
	if name == "" && len(ingredients) == 0 {
		return nil, fmt.Errorf("meal entry has neither name nor ingredients")
	}
	if name == "" {
		name = "Unnamed dish"
	}

	culture := stringField(raw, "culture", "cuisine")
	if culture == "" {
		culture = fallbackCulture
	}

	id := stringField(raw, "id", "meal_id")
	if id == "" {
		id = uuid.New().String()
	}

	meal := &models.CulturalMeal{
		ID:              id,
		Name:            name,
		Description:     stringField(raw, "description", "summary"),
		CultureTag:      models.NormalizeKey(culture),
		Ingredients:     ingredients,
		Instructions:    instructionsField(raw),
		Nutrition:       nutritionField(raw),
		CookTimeMinutes: cookTimeField(raw),
		Difficulty:      difficultyField(raw),
		Authenticity:    authenticityField(raw),
		DietaryTags:     tagsField(raw),
	}
	return meal, nil
}

// corpusMealToCultural lifts a knowledge-corpus meal into the library shape,
// with estimate defaults for the fields a corpus does not provide.
func corpusMealToCultural(m models.CorpusMeal, culture string) *models.CulturalMeal {
	return &models.CulturalMeal{
		ID:              uuid.New().String(),
		Name:            m.Name,
		Description:     m.Description,
		CultureTag:      models.NormalizeKey(culture),
		Ingredients:     append([]string(nil), m.HealthyIngredients...),
		Instructions:    append([]string(nil), m.HealthyModifications...),
		Nutrition:       defaultNutrition(),
		CookTimeMinutes: defaultCookTimeMin,
		Difficulty:      defaultDifficulty,
		Authenticity:    defaultAuthenticity,
	}
}

func defaultNutrition() models.Nutrition {
	return models.Nutrition{
		Calories: defaultCalories,
		ProteinG: defaultProteinG,
		CarbsG:   defaultCarbsG,
		FatG:     defaultFatG,
	}
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// listField reads a string list that may arrive as plain strings or as
// objects with name/amount fields.
func listField(raw map[string]any, keys ...string) []string {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			switch v := item.(type) {
			case string:
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					out = append(out, trimmed)
				}
			case map[string]any:
				name, _ := v["name"].(string)
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if amount, _ := v["amount"].(string); strings.TrimSpace(amount) != "" {
					out = append(out, strings.TrimSpace(amount)+" "+name)
				} else {
					out = append(out, name)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// instructionsField accepts a list of steps or a single text block, which is
// split on newlines.
func instructionsField(raw map[string]any) []string {
	for _, key := range []string{"instructions", "steps", "preparation"} {
		switch v := raw[key].(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			var out []string
			for _, line := range strings.Split(v, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func nutritionField(raw map[string]any) models.Nutrition {
	n := defaultNutrition()

	source := raw
	if nested, ok := raw["nutrition"].(map[string]any); ok {
		source = nested
	}
	if v, ok := numberField(source, "calories", "cal", "kcal"); ok {
		n.Calories = v
	}
	if v, ok := numberField(source, "protein", "protein_g"); ok {
		n.ProteinG = v
	}
	if v, ok := numberField(source, "carbs", "carbs_g", "carbohydrates"); ok {
		n.CarbsG = v
	}
	if v, ok := numberField(source, "fat", "fat_g"); ok {
		n.FatG = v
	}
	return n
}

func cookTimeField(raw map[string]any) int {
	if v, ok := numberField(raw, "cook_time", "cooking_time", "time_minutes", "cook_time_minutes"); ok && v > 0 {
		return int(math.Round(v))
	}
	return defaultCookTimeMin
}

func difficultyField(raw map[string]any) float64 {
	if v, ok := numberField(raw, "difficulty", "difficulty_level"); ok {
		return clamp(v, 1, 5)
	}
	switch strings.ToLower(stringField(raw, "difficulty", "difficulty_level")) {
	case "easy", "beginner":
		return 2
	case "medium", "intermediate":
		return 3
	case "hard", "advanced":
		return 4
	}
	return defaultDifficulty
}

func authenticityField(raw map[string]any) float64 {
	if v, ok := numberField(raw, "authenticity", "authenticity_score"); ok {
		return clamp(v, 0, 1)
	}
	return defaultAuthenticity
}

func tagsField(raw map[string]any) []string {
	for _, key := range []string{"dietary_tags", "diet", "tags"} {
		items, ok := raw[key].([]any)
		if !ok {
			if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
				return []string{models.NormalizeKey(s)}
			}
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, models.NormalizeKey(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// numberField reads a numeric value that may arrive as a JSON number or as
// text with a leading number ("45 minutes").
func numberField(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v, true
		case string:
			if n, ok := parseLeadingNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func parseLeadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
