package cultural

import (
	"fmt"

	"github.com/mealmosaic/engine/internal/models"
)

// Cultural share band the validator holds plans to, in percent.
const (
	targetMinPercent = 20.0
	targetMaxPercent = 35.0

	minVarietyScore = 0.5
)

// PlanStats summarizes the cultural makeup of a finished plan.
type PlanStats struct {
	TotalMeals          int            `json:"total_meals"`
	CulturalMeals       int            `json:"cultural_meals"`
	CulturalPercent     float64        `json:"cultural_percent"`
	CultureDistribution map[string]int `json:"culture_distribution"`
	VarietyScore        float64        `json:"variety_score"`
}

// Stats computes the cultural share and per-culture spread of a plan.
// VarietyScore is distinct cultures over cultural meal count, so a plan that
// leans on one cuisine scores low even when its share is on target.
func (s *Selector) Stats(assignments []models.PlanAssignment) PlanStats {
	stats := PlanStats{
		TotalMeals:          len(assignments),
		CultureDistribution: make(map[string]int),
	}
	distinct := make(map[string]bool)
	for _, a := range assignments {
		if !a.IsCultural {
			continue
		}
		stats.CulturalMeals++
		culture := models.NormalizeKey(a.CultureTag)
		if culture == "" {
			culture = "unknown"
		}
		stats.CultureDistribution[culture]++
		distinct[culture] = true
	}
	if stats.TotalMeals > 0 {
		stats.CulturalPercent = float64(stats.CulturalMeals) / float64(stats.TotalMeals) * 100
	}
	if stats.CulturalMeals > 0 {
		stats.VarietyScore = float64(len(distinct)) / float64(stats.CulturalMeals)
	}
	return stats
}

// Validation is the verdict on a plan's cultural balance.
type Validation struct {
	WithinTarget    bool     `json:"within_target"`
	CulturalPercent float64  `json:"cultural_percent"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ValidateInsertion checks a plan's cultural share against the target band
// and flags low cuisine variety.
func (s *Selector) ValidateInsertion(stats PlanStats) Validation {
	v := Validation{
		WithinTarget:    stats.CulturalPercent >= targetMinPercent && stats.CulturalPercent <= targetMaxPercent,
		CulturalPercent: stats.CulturalPercent,
	}
	switch {
	case stats.CulturalPercent < targetMinPercent:
		v.Recommendations = append(v.Recommendations, fmt.Sprintf(
			"cultural share is %.1f%%, below the %.0f%% target; add more cultural meals",
			stats.CulturalPercent, targetMinPercent))
	case stats.CulturalPercent > targetMaxPercent:
		v.Recommendations = append(v.Recommendations, fmt.Sprintf(
			"cultural share is %.1f%%, above the %.0f%% target; swap some cultural meals for flexible ones",
			stats.CulturalPercent, targetMaxPercent))
	}
	if stats.CulturalMeals > 1 && stats.VarietyScore < minVarietyScore {
		v.Recommendations = append(v.Recommendations,
			"cultural meals lean on few cuisines; draw from more of the user's cultures")
	}
	return v
}
