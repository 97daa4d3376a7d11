package models

import (
	"strings"
	"time"
)

// Nutrition is the per-serving macro estimate attached to a meal.
type Nutrition struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// UsageTracking records in-plan selection history for a meal.
type UsageTracking struct {
	LastUsed *time.Time `json:"last_used,omitempty"`
	Count    int        `json:"count"`
	Rating   float64    `json:"rating,omitempty"`
}

// CulturalMeal is a normalized meal drawn from a user's saved collections or
// seeded from a cuisine corpus. All fields are populated by normalization;
// downstream scoring never has to nil-check.
type CulturalMeal struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	CultureTag      string        `json:"culture_tag"`
	Ingredients     []string      `json:"ingredients"`
	Instructions    []string      `json:"instructions"`
	Nutrition       Nutrition     `json:"nutrition"`
	CookTimeMinutes int           `json:"cook_time_minutes"`
	Difficulty      float64       `json:"difficulty"`
	Authenticity    float64       `json:"authenticity"`
	DietaryTags     []string      `json:"dietary_tags"`
	HeroIngredients []string      `json:"hero_ingredients,omitempty"`
	Usage           UsageTracking `json:"usage"`
}

// SearchText returns the lowercased name, description, ingredients and
// instructions joined into one haystack for keyword heuristics.
func (m *CulturalMeal) SearchText() string {
	parts := make([]string, 0, 2+len(m.Ingredients)+len(m.Instructions))
	parts = append(parts, m.Name, m.Description)
	parts = append(parts, m.Ingredients...)
	parts = append(parts, m.Instructions...)
	return strings.ToLower(strings.Join(parts, " "))
}

// DietaryProfile adapts the meal for the shared dietary classifier.
func (m *CulturalMeal) DietaryProfile() DietaryProfile {
	return DietaryProfile{
		Tags:         m.DietaryTags,
		Text:         m.SearchText(),
		CarbsG:       m.Nutrition.CarbsG,
		HasNutrition: true,
	}
}

// UsedWithin reports whether the meal was selected inside the given window.
func (m *CulturalMeal) UsedWithin(now time.Time, window time.Duration) bool {
	return m.Usage.LastUsed != nil && now.Sub(*m.Usage.LastUsed) < window
}

// RecordUse marks a selection, bumping the usage counter.
func (m *CulturalMeal) RecordUse(now time.Time) {
	t := now
	m.Usage.LastUsed = &t
	m.Usage.Count++
}

// DietaryProfile is the classifier-facing view of a meal or ingredient: its
// explicit tags, a lowercased text haystack, and carbs when known.
type DietaryProfile struct {
	Tags         []string
	Text         string
	CarbsG       float64
	HasNutrition bool
}
