package hero

import (
	"fmt"
	"sort"

	"github.com/mealmosaic/engine/internal/models"
)

// WeeklyTargetUses is how many meals per week each hero ingredient should
// appear in for a bulk purchase to pay off.
const WeeklyTargetUses = 3

// UsageReport summarizes how thoroughly a week's plan uses its hero
// ingredients.
type UsageReport struct {
	Counts          map[string]int `json:"counts"`
	Target          int            `json:"target"`
	Recommendations []string       `json:"recommendations"`
}

// Track counts actual mentions of each target ingredient across the plan's
// meal text and recommends rebalancing where usage strays from the weekly
// target.
func (s *Selector) Track(plan []*models.CulturalMeal, targets []string) UsageReport {
	report := UsageReport{
		Counts: make(map[string]int, len(targets)),
		Target: WeeklyTargetUses,
	}

	texts := make([]string, 0, len(plan))
	for _, meal := range plan {
		if meal != nil {
			texts = append(texts, meal.SearchText())
		}
	}

	names := make([]string, 0, len(targets))
	for _, name := range targets {
		if name == "" {
			continue
		}
		names = append(names, name)
		count := 0
		for _, text := range texts {
			if mentionsIngredient(text, name) {
				count++
			}
		}
		report.Counts[name] = count
	}
	sort.Strings(names)

	for _, name := range names {
		count := report.Counts[name]
		switch {
		case count < WeeklyTargetUses:
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("work %s into %d more meals this week", coreName(name), WeeklyTargetUses-count))
		case count > WeeklyTargetUses+1:
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("ease off %s, it already appears in %d meals", coreName(name), count))
		}
	}
	if len(names) > 0 && len(report.Recommendations) == 0 {
		report.Recommendations = []string{"hero ingredient usage is well balanced"}
	}
	return report
}
