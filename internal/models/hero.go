package models

import "strings"

// Usage contexts a hero ingredient can fill inside a meal.
const (
	ContextProtein   = "protein"
	ContextVegetable = "vegetable"
	ContextAromatics = "aromatics"
	ContextBase      = "base"
)

// AllContexts lists every usage context a selection should try to cover.
var AllContexts = []string{ContextProtein, ContextVegetable, ContextAromatics, ContextBase}

// HeroIngredient is a catalog entry for a bulk-buy staple worth anchoring a
// weekly plan around. Versatility and CostEfficiency are on [0,1].
type HeroIngredient struct {
	Name            string   `json:"name"`
	Versatility     float64  `json:"versatility"`
	CostEfficiency  float64  `json:"cost_efficiency"`
	Cuisines        []string `json:"cuisines"`
	StorageLifeDays int      `json:"storage_life_days"`
	BulkFriendly    bool     `json:"bulk_friendly"`
	SafeTags        []string `json:"safe_tags"`
	Contexts        []string `json:"contexts"`
}

// DietaryProfile adapts the ingredient for the shared dietary classifier.
// Safety rests on the explicit tags; there is no macro data to fall back on.
func (h *HeroIngredient) DietaryProfile() DietaryProfile {
	return DietaryProfile{
		Tags: h.SafeTags,
		Text: strings.ToLower(h.Name),
	}
}

// HasContext reports whether the ingredient can fill the given usage context.
func (h *HeroIngredient) HasContext(ctx string) bool {
	for _, c := range h.Contexts {
		if c == ctx {
			return true
		}
	}
	return false
}
