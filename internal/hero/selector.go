// Package hero picks a small set of versatile, budget-friendly staple
// ingredients and weaves them through a week's meals so bulk purchases
// actually get used up.
package hero

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mealmosaic/engine/internal/dietary"
	"github.com/mealmosaic/engine/internal/models"
)

const (
	minSelection = 3
	maxSelection = 5

	// savingsPerUse is the assumed dollar saving each planned use of a
	// staple yields versus buying a one-off ingredient.
	savingsPerUse = 2.0
)

// Selector ranks the staple catalog for a household and augments meals
// with the chosen ingredients.
type Selector struct {
	catalog    []models.HeroIngredient
	classifier dietary.Classifier
	logger     *zap.Logger
}

// Options configures optional collaborators for the selector.
type Options struct {
	Catalog    []models.HeroIngredient
	Classifier dietary.Classifier
	Logger     *zap.Logger
}

// New creates a hero ingredient selector.
func New(opts Options) *Selector {
	if opts.Catalog == nil {
		opts.Catalog = Catalog()
	}
	if opts.Classifier == nil {
		opts.Classifier = dietary.Keyword{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Selector{
		catalog:    opts.Catalog,
		classifier: opts.Classifier,
		logger:     opts.Logger,
	}
}

// RankedIngredient is a catalog entry with its household fit score and the
// number of times the week's plan should use it.
type RankedIngredient struct {
	models.HeroIngredient
	Score      float64 `json:"score"`
	TargetUses int     `json:"target_uses"`
}

// Selection is the outcome of a weekly hero ingredient pick.
type Selection struct {
	Ingredients            []RankedIngredient `json:"ingredients"`
	EstimatedWeeklySavings float64            `json:"estimated_weekly_savings"`
	CuisineCoverage        []string           `json:"cuisine_coverage"`
	ContextCoverage        []string           `json:"context_coverage"`
	DietCoverage           []string           `json:"diet_coverage"`
	Rationale              []string           `json:"rationale"`
}

// Select picks three to five staples for the week. Dietary restrictions are
// a hard filter; everything else only shifts the ranking. The pick is greedy:
// a first pass walks the score order taking ingredients that cover a usage
// context not covered yet, a second pass fills remaining slots by score.
func (s *Selector) Select(cultures, available []string, costPriority float64, restrictions []string) Selection {
	costPriority = clamp01(costPriority)

	safe := make([]models.HeroIngredient, 0, len(s.catalog))
	for _, ing := range s.catalog {
		if dietary.SafeForAll(s.classifier, ing.DietaryProfile(), restrictions) {
			safe = append(safe, ing)
		}
	}
	if len(safe) < len(s.catalog) {
		s.logger.Debug("dietary filter removed staples",
			zap.Int("kept", len(safe)),
			zap.Int("catalog", len(s.catalog)))
	}

	ranked := make([]RankedIngredient, 0, len(safe))
	for _, ing := range safe {
		ranked = append(ranked, RankedIngredient{
			HeroIngredient: ing,
			Score:          s.score(&ing, cultures, available, costPriority),
			TargetUses:     targetUses(ing.Versatility),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})

	chosen := make([]RankedIngredient, 0, maxSelection)
	picked := make(map[string]bool, maxSelection)
	uncovered := make(map[string]bool, len(models.AllContexts))
	for _, ctx := range models.AllContexts {
		uncovered[ctx] = true
	}
	rationale := make([]string, 0, maxSelection+1)

	// Pass 1: context coverage.
	for _, cand := range ranked {
		if len(chosen) >= maxSelection || len(uncovered) == 0 {
			break
		}
		covers := make([]string, 0, len(cand.Contexts))
		for _, ctx := range cand.Contexts {
			if uncovered[ctx] {
				covers = append(covers, ctx)
			}
		}
		if len(covers) == 0 {
			continue
		}
		for _, ctx := range covers {
			delete(uncovered, ctx)
		}
		chosen = append(chosen, cand)
		picked[cand.Name] = true
		rationale = append(rationale, fmt.Sprintf("%s covers %s at score %.2f",
			cand.Name, strings.Join(covers, " and "), cand.Score))
	}

	// Pass 2: fill remaining slots by score alone.
	for _, cand := range ranked {
		if len(chosen) >= maxSelection {
			break
		}
		if picked[cand.Name] {
			continue
		}
		chosen = append(chosen, cand)
		picked[cand.Name] = true
		rationale = append(rationale, fmt.Sprintf("%s added on score %.2f", cand.Name, cand.Score))
	}

	sel := Selection{
		Ingredients:     chosen,
		CuisineCoverage: cuisineCoverage(chosen),
		ContextCoverage: contextCoverage(chosen),
		DietCoverage:    dietCoverage(chosen),
	}
	for _, ing := range chosen {
		sel.EstimatedWeeklySavings += float64(ing.TargetUses) * ing.CostEfficiency * savingsPerUse
	}
	rationale = append(rationale, fmt.Sprintf("estimated weekly savings $%.2f across %d staples",
		sel.EstimatedWeeklySavings, len(chosen)))
	sel.Rationale = rationale
	return sel
}

func (s *Selector) score(ing *models.HeroIngredient, cultures, available []string, costPriority float64) float64 {
	score := 0.3 * ing.Versatility
	score += (0.2 + 0.2*costPriority) * ing.CostEfficiency
	if matchesAnyCulture(ing, cultures) {
		score += 0.15
	}
	if alreadyAvailable(ing, available) {
		score += 0.1
	}
	if ing.StorageLifeDays > 14 {
		score += 0.05
	}
	if ing.BulkFriendly {
		score += 0.05
	}
	return score
}

// targetUses maps versatility to how many meals a week should feature the
// ingredient.
func targetUses(versatility float64) int {
	switch {
	case versatility >= 0.9:
		return 4
	case versatility >= 0.8:
		return 3
	default:
		return 2
	}
}

func matchesAnyCulture(ing *models.HeroIngredient, cultures []string) bool {
	for _, want := range cultures {
		for _, have := range ing.Cuisines {
			if models.CultureMatches(want, have) {
				return true
			}
		}
	}
	return false
}

func alreadyAvailable(ing *models.HeroIngredient, available []string) bool {
	name := models.NormalizeKey(ing.Name)
	for _, item := range available {
		item = models.NormalizeKey(item)
		if item == "" {
			continue
		}
		if strings.Contains(name, item) || strings.Contains(item, name) {
			return true
		}
	}
	return false
}

func cuisineCoverage(chosen []RankedIngredient) []string {
	seen := make(map[string]bool)
	for _, ing := range chosen {
		for _, c := range ing.Cuisines {
			seen[models.NormalizeKey(c)] = true
		}
	}
	return sortedKeys(seen)
}

func contextCoverage(chosen []RankedIngredient) []string {
	covered := make(map[string]bool)
	for _, ing := range chosen {
		for _, ctx := range ing.Contexts {
			covered[ctx] = true
		}
	}
	out := make([]string, 0, len(covered))
	for _, ctx := range models.AllContexts {
		if covered[ctx] {
			out = append(out, ctx)
		}
	}
	return out
}

// dietCoverage lists the tags every chosen ingredient carries, i.e. the
// diets the whole selection works for.
func dietCoverage(chosen []RankedIngredient) []string {
	if len(chosen) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, ing := range chosen {
		for _, tag := range ing.SafeTags {
			counts[models.NormalizeKey(tag)]++
		}
	}
	shared := make(map[string]bool)
	for tag, n := range counts {
		if n == len(chosen) {
			shared[tag] = true
		}
	}
	return sortedKeys(shared)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
