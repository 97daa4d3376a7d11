package models

// GoalWeights expresses the user's plan priorities on five axes. Values are
// clamped to [0,1] by scoring; they are not required to sum to 1.
type GoalWeights struct {
	Cost     float64 `json:"cost"`
	Health   float64 `json:"health"`
	Cultural float64 `json:"cultural"`
	Variety  float64 `json:"variety"`
	Time     float64 `json:"time"`
}

// Meal slot types as the plan generator names them.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// PlanAssignment is one already-decided slot of the plan under construction.
type PlanAssignment struct {
	MealName   string `json:"meal_name"`
	CultureTag string `json:"culture_tag,omitempty"`
	IsCultural bool   `json:"is_cultural"`
}

// SlotContext describes the slot currently being filled. SlotIndex counts
// from 0 in plan order and Prior holds the assignments made before it.
type SlotContext struct {
	Day       string           `json:"day"`
	MealType  string           `json:"meal_type"`
	SlotIndex int              `json:"slot_index"`
	Prior     []PlanAssignment `json:"prior,omitempty"`
}

// LastCultural reports how many of the n most recent prior assignments were
// cultural meals.
func (s SlotContext) LastCultural(n int) int {
	count := 0
	start := len(s.Prior) - n
	if start < 0 {
		start = 0
	}
	for _, a := range s.Prior[start:] {
		if a.IsCultural {
			count++
		}
	}
	return count
}

// RecentCultures returns the culture tags of the n most recent prior
// assignments, cultural or not, oldest first.
func (s SlotContext) RecentCultures(n int) []string {
	start := len(s.Prior) - n
	if start < 0 {
		start = 0
	}
	cultures := make([]string, 0, n)
	for _, a := range s.Prior[start:] {
		if a.CultureTag != "" {
			cultures = append(cultures, a.CultureTag)
		}
	}
	return cultures
}

// AllocationState carries the per-plan selection bookkeeping across slot
// decisions. It lives for one plan-generation call and is mutated in place.
type AllocationState struct {
	TotalMeals           int             `json:"total_meals"`
	OptimalCulturalMeals int             `json:"optimal_cultural_meals"`
	CulturalUsed         int             `json:"cultural_used"`
	Restrictions         []string        `json:"restrictions,omitempty"`
	Pool                 []*CulturalMeal `json:"pool"`
}

// RemainingSlots reports how many slots are still undecided at the given
// slot index.
func (s *AllocationState) RemainingSlots(slotIndex int) int {
	remaining := s.TotalMeals - slotIndex
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingQuota reports how many cultural meals the plan still wants.
func (s *AllocationState) RemainingQuota() int {
	remaining := s.OptimalCulturalMeals - s.CulturalUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
