package knowledge

import "github.com/mealmosaic/engine/internal/models"

// Quality rubric: meal count and per-meal completeness carry 60 points, the
// four summary lists the remaining 40.
const (
	pointsPerMeal    = 4
	maxMealPoints    = 40
	pointsPerDetail  = 2
	maxDetailPoints  = 20
	pointsPerSummary = 10
)

// QualityScore grades a corpus payload on a 0-100 scale.
func QualityScore(p *models.CorpusPayload) int {
	score := len(p.Meals) * pointsPerMeal
	if score > maxMealPoints {
		score = maxMealPoints
	}

	detail := 0
	for _, meal := range p.Meals {
		if mealComplete(meal) {
			detail += pointsPerDetail
		}
	}
	if detail > maxDetailPoints {
		detail = maxDetailPoints
	}
	score += detail

	for _, list := range [][]string{
		p.Summary.CommonHealthyIngredients,
		p.Summary.CommonCookingTechniques,
		p.Summary.KeyFlavorProfiles,
		p.Summary.TraditionalMealPatterns,
	} {
		if len(list) > 0 {
			score += pointsPerSummary
		}
	}

	return score
}

func mealComplete(m models.CorpusMeal) bool {
	return m.Name != "" && m.Description != "" &&
		len(m.CookingTechniques) > 0 && len(m.HealthyIngredients) > 0
}
