// Package cultural decides where cultural meals land inside a weekly plan:
// how many the plan should carry, whether the slot being filled should take
// one, and which candidate fits that slot best.
package cultural

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mealmosaic/engine/internal/dietary"
	"github.com/mealmosaic/engine/internal/models"
)

const (
	// recentUseWindow keeps a picked meal out of rotation long enough
	// that two consecutive weekly plans do not repeat it.
	recentUseWindow = 14 * 24 * time.Hour

	// minCulturalWeight is the gate below which a plan takes no cultural
	// meals at all.
	minCulturalWeight = 0.2

	topCandidates = 3
)

// breakfastKeywords identify meals that read as breakfast dishes by name.
var breakfastKeywords = []string{
	"breakfast", "pancake", "waffle", "oatmeal", "porridge", "congee",
	"omelette", "omelet", "toast", "cereal", "granola", "chilaquiles",
	"shakshuka",
}

// Selector makes the per-slot cultural meal decisions. The random source is
// injectable so planning runs can be reproduced.
type Selector struct {
	classifier dietary.Classifier
	rng        *rand.Rand
	logger     *zap.Logger
	now        func() time.Time
}

// Options configures optional collaborators for the selector.
type Options struct {
	Classifier dietary.Classifier
	Rand       *rand.Rand
	Logger     *zap.Logger
}

// New creates a cultural meal selector. A nil Rand gets a time-seeded source.
func New(opts Options) *Selector {
	if opts.Classifier == nil {
		opts.Classifier = dietary.Keyword{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Selector{
		classifier: opts.Classifier,
		rng:        opts.Rand,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

// OptimalCulturalMealCount returns how many cultural meals a plan of the
// given size should target. The base is a quarter of the plan, nudged up by
// the cultural weight, then clamped to a per-size band that keeps the share
// near the 20 to 35 percent target.
func (s *Selector) OptimalCulturalMealCount(totalMeals int, culturalWeight float64) int {
	if totalMeals <= 0 {
		return 0
	}
	base := float64(totalMeals) * 0.25 * (1 + clamp01(culturalWeight)*0.15)
	count := int(math.Ceil(base))

	var lo, hi int
	switch {
	case totalMeals <= 5:
		lo, hi = 1, 2
	case totalMeals <= 7:
		lo, hi = 1, 3
	case totalMeals <= 14:
		lo, hi = 2, 4
	default:
		lo, hi = 3, 6
	}
	if count < lo {
		return lo
	}
	if count > hi {
		return hi
	}
	return count
}

// ShouldUseCulturalMeal decides whether the slot being filled takes a
// cultural meal. Hard vetoes first: quota already met, nothing in the pool,
// cultural weight under the gate, or no candidate compatible with the slot.
// Otherwise the cultural weight becomes a probability, nudged up when the
// remaining quota is crowding the remaining slots and down after a cultural
// streak, and one uniform draw decides.
func (s *Selector) ShouldUseCulturalMeal(state *models.AllocationState, slot models.SlotContext, weights models.GoalWeights) bool {
	if state == nil || state.RemainingQuota() == 0 || len(state.Pool) == 0 {
		return false
	}
	if weights.Cultural < minCulturalWeight {
		return false
	}
	if len(s.compatibleMeals(state, slot, weights)) == 0 {
		return false
	}

	p := clamp01(weights.Cultural)
	if remaining := state.RemainingSlots(slot.SlotIndex); remaining > 0 {
		if float64(state.RemainingQuota())/float64(remaining) > 0.5 {
			p += 0.2
		}
	}
	if slot.LastCultural(3) >= 2 {
		p -= 0.3
	}
	p = clamp01(p)

	take := s.rng.Float64() < p
	s.logger.Debug("cultural slot decision",
		zap.String("day", slot.Day),
		zap.String("meal_type", slot.MealType),
		zap.Float64("probability", p),
		zap.Bool("take", take))
	return take
}

// SelectBestCulturalMeal picks the meal for a slot that already decided to
// go cultural. Candidates are scored, and the pick is uniform among the top
// three so repeated plans do not all converge on one dish. When no candidate
// is compatible the first meal of the pool is used anyway; a cultural slot
// never goes unfilled from here.
func (s *Selector) SelectBestCulturalMeal(state *models.AllocationState, slot models.SlotContext, weights models.GoalWeights) *models.CulturalMeal {
	if state == nil || len(state.Pool) == 0 {
		return nil
	}

	candidates := s.compatibleMeals(state, slot, weights)
	var pick *models.CulturalMeal
	if len(candidates) == 0 {
		pick = state.Pool[0]
		s.logger.Debug("no compatible cultural meal, falling back",
			zap.String("meal", pick.Name),
			zap.String("meal_type", slot.MealType))
	} else {
		sort.SliceStable(candidates, func(i, j int) bool {
			si := s.ScoreMealCompatibility(candidates[i], slot, weights)
			sj := s.ScoreMealCompatibility(candidates[j], slot, weights)
			if si != sj {
				return si > sj
			}
			return candidates[i].Name < candidates[j].Name
		})
		n := topCandidates
		if len(candidates) < n {
			n = len(candidates)
		}
		pick = candidates[s.rng.Intn(n)]
	}

	pick.RecordUse(s.now())
	state.CulturalUsed++
	s.logger.Debug("cultural meal selected",
		zap.String("meal", pick.Name),
		zap.String("culture", pick.CultureTag),
		zap.Int("cultural_used", state.CulturalUsed))
	return pick
}

// compatibleMeals filters the pool down to meals usable in this slot: safe
// for the plan's restrictions, not used in the recent window, allowed for
// the meal type, and scoring above the compatibility floor.
func (s *Selector) compatibleMeals(state *models.AllocationState, slot models.SlotContext, weights models.GoalWeights) []*models.CulturalMeal {
	now := s.now()
	out := make([]*models.CulturalMeal, 0, len(state.Pool))
	for _, meal := range state.Pool {
		if meal == nil || meal.UsedWithin(now, recentUseWindow) {
			continue
		}
		if !dietary.SafeForAll(s.classifier, meal.DietaryProfile(), state.Restrictions) {
			continue
		}
		if !mealTypeCompatible(meal, slot.MealType) {
			continue
		}
		if s.ScoreMealCompatibility(meal, slot, weights) < compatibilityThreshold {
			continue
		}
		out = append(out, meal)
	}
	return out
}

// mealTypeCompatible applies the slot-type rules: breakfast slots want a
// breakfast-sounding name or something very quick, dinner slots refuse
// breakfast dishes, lunch and snack slots take anything.
func mealTypeCompatible(meal *models.CulturalMeal, mealType string) bool {
	switch mealType {
	case models.MealTypeBreakfast:
		return isBreakfastName(meal.Name) || meal.CookTimeMinutes <= 15
	case models.MealTypeDinner:
		return !isBreakfastName(meal.Name)
	default:
		return true
	}
}

func isBreakfastName(name string) bool {
	return models.ContainsAnyKeyword(models.NormalizeKey(name), breakfastKeywords)
}
