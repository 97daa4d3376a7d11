package hero

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mealmosaic/engine/internal/models"
)

const (
	maxEnhancements    = 3
	maxMealIngredients = 12
)

var (
	aromaticsWords = []string{"onion", "garlic", "ginger", "scallion", "shallot", "leek"}
	proteinWords   = []string{
		"chicken", "beef", "pork", "fish", "shrimp", "salmon", "tuna", "turkey",
		"tofu", "tempeh", "beans", "lentils", "chickpeas", "eggs", "paneer",
	}
	starchWords = []string{
		"rice", "noodle", "pasta", "bread", "tortilla", "potato", "quinoa",
		"couscous", "polenta", "oats",
	}

	// descriptor words stripped from a catalog name before matching it
	// against meal text, so "Dried black beans" matches "black beans".
	nameDescriptors = map[string]bool{
		"dried": true, "fresh": true, "canned": true, "frozen": true,
		"rolled": true, "firm": true, "long-grain": true, "yellow": true,
		"green": true, "brown": true, "whole": true,
	}
)

// Enhance weaves up to three of the given hero ingredients into the meal,
// mutating its ingredient and instruction lists. An ingredient is only added
// when the meal has a gap its context fills and the meal does not mention it
// already. The meal never grows past twelve ingredients. Returns the names
// actually applied.
func (s *Selector) Enhance(meal *models.CulturalMeal, heroNames []string, costPriority float64) []string {
	if meal == nil || len(heroNames) == 0 {
		return nil
	}
	costPriority = clamp01(costPriority)

	candidates := s.lookup(heroNames)
	sort.SliceStable(candidates, func(i, j int) bool {
		wi := 0.3*candidates[i].Versatility + (0.2+0.2*costPriority)*candidates[i].CostEfficiency
		wj := 0.3*candidates[j].Versatility + (0.2+0.2*costPriority)*candidates[j].CostEfficiency
		if wi != wj {
			return wi > wj
		}
		return candidates[i].Name < candidates[j].Name
	})

	applied := make([]string, 0, maxEnhancements)
	for i := range candidates {
		if len(applied) >= maxEnhancements || len(meal.Ingredients) >= maxMealIngredients {
			break
		}
		cand := &candidates[i]
		text := meal.SearchText()
		if mentionsIngredient(text, cand.Name) {
			continue
		}
		if s.apply(meal, cand, text) {
			applied = append(applied, cand.Name)
			meal.HeroIngredients = append(meal.HeroIngredients, cand.Name)
		}
	}
	if len(applied) > 0 {
		s.logger.Debug("enhanced meal with hero ingredients",
			zap.String("meal", meal.Name),
			zap.Strings("added", applied))
	}
	return applied
}

func (s *Selector) lookup(names []string) []models.HeroIngredient {
	out := make([]models.HeroIngredient, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := models.NormalizeKey(name)
		if key == "" || seen[key] {
			continue
		}
		for _, ing := range s.catalog {
			if models.NormalizeKey(ing.Name) == key {
				out = append(out, ing)
				seen[key] = true
				break
			}
		}
	}
	return out
}

// apply tries the ingredient's contexts in order and uses the first rule
// whose gap the meal actually has.
func (s *Selector) apply(meal *models.CulturalMeal, ing *models.HeroIngredient, text string) bool {
	core := coreName(ing.Name)
	for _, ctx := range ing.Contexts {
		switch ctx {
		case models.ContextAromatics:
			if models.ContainsAnyKeyword(text, aromaticsWords) {
				continue
			}
			meal.Ingredients = append([]string{ing.Name}, meal.Ingredients...)
			lead := fmt.Sprintf("Start by sautéing the %s", core)
			if len(meal.Instructions) == 0 {
				meal.Instructions = []string{lead + "."}
			} else {
				meal.Instructions[0] = lead + ", then " + lowerFirst(meal.Instructions[0])
			}
			return true
		case models.ContextProtein:
			if models.ContainsAnyKeyword(text, proteinWords) {
				continue
			}
			meal.Ingredients = append(meal.Ingredients, ing.Name)
			meal.Instructions = append(meal.Instructions, fmt.Sprintf("Add the %s for extra protein.", core))
			return true
		case models.ContextVegetable:
			meal.Ingredients = append(meal.Ingredients, ing.Name)
			meal.Instructions = append(meal.Instructions, fmt.Sprintf("Fold in the %s toward the end of cooking.", core))
			return true
		case models.ContextBase:
			if models.ContainsAnyKeyword(text, starchWords) {
				continue
			}
			meal.Ingredients = append(meal.Ingredients, ing.Name)
			meal.Instructions = append(meal.Instructions, fmt.Sprintf("Serve over %s.", core))
			return true
		}
	}
	return false
}

// mentionsIngredient reports whether the meal text already names the
// ingredient, ignoring descriptor words and trailing plurals.
func mentionsIngredient(text, name string) bool {
	tokens := textTokens(text)
	for _, word := range coreTokens(name) {
		if tokens[word] || tokens[word+"s"] || tokens[strings.TrimSuffix(word, "s")] {
			return true
		}
	}
	return false
}

// coreName strips descriptor words from a catalog name, e.g.
// "Dried black beans" becomes "black beans".
func coreName(name string) string {
	return strings.Join(coreTokens(name), " ")
}

func coreTokens(name string) []string {
	fields := strings.Fields(models.NormalizeKey(name))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if nameDescriptors[f] {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return fields
	}
	return out
}

func textTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		tokens[f] = true
	}
	return tokens
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
