// Package dietary holds the restriction policy shared by meal filtering and
// hero-ingredient selection. Classification is deny-list keyword matching on
// ingredient text plus explicit tag passes; it is deliberately conservative,
// excluding on any hit rather than trying to prove safety.
package dietary

import (
	"strings"

	"github.com/mealmosaic/engine/internal/models"
)

// Classifier decides whether a profile is safe for one restriction.
// Implementations must treat unrecognized restrictions as safe.
type Classifier interface {
	Safe(p models.DietaryProfile, restriction string) bool
}

const ketoCarbLimitG = 20.0

// Keyword groups that the restriction deny lists compose from. Single words
// match whole tokens (with plural forms); phrases match as substrings.
var (
	meatKeywords = []string{
		"meat", "beef", "pork", "chicken", "turkey", "lamb", "veal", "duck",
		"bacon", "ham", "sausage", "chorizo", "prosciutto", "salami", "lard",
		"gelatin", "fish", "salmon", "tuna", "cod", "anchovy", "sardine",
		"shrimp", "prawn", "crab", "lobster", "clam", "mussel", "oyster",
		"squid", "octopus", "fish sauce", "oyster sauce",
	}
	dairyKeywords = []string{
		"milk", "cheese", "butter", "cream", "yogurt", "whey", "ghee",
		"paneer", "custard", "condensed milk",
	}
	eggHoneyKeywords = []string{"egg", "honey", "mayonnaise"}
	glutenKeywords   = []string{
		"wheat", "flour", "bread", "pasta", "noodle", "barley", "rye",
		"couscous", "semolina", "seitan", "cracker", "soy sauce", "hoisin",
	}
	nutKeywords = []string{
		"peanut", "almond", "cashew", "walnut", "pecan", "pistachio",
		"hazelnut", "macadamia", "pine nut", "nut butter", "mixed nuts",
	}
)

// denyKeywords maps each supported restriction to the ingredient keywords
// that disqualify a meal.
var denyKeywords = map[string][]string{
	"vegetarian":  meatKeywords,
	"vegan":       concat(meatKeywords, dairyKeywords, eggHoneyKeywords),
	"gluten-free": glutenKeywords,
	"nut-free":    nutKeywords,
	"dairy-free":  dairyKeywords,
}

func concat(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		out = append(out, list...)
	}
	return out
}

// restrictionAliases folds common spellings onto the canonical names above.
var restrictionAliases = map[string]string{
	"gluten free":  "gluten-free",
	"glutenfree":   "gluten-free",
	"dairy free":   "dairy-free",
	"dairyfree":    "dairy-free",
	"lactose free": "dairy-free",
	"nut free":     "nut-free",
	"nutfree":      "nut-free",
	"nut allergy":  "nut-free",
	"plant based":  "vegan",
	"plant-based":  "vegan",
	"ketogenic":    "keto",
	"low carb":     "keto",
	"low-carb":     "keto",
}

// Normalize folds a restriction or tag onto its canonical lowercase name.
func Normalize(restriction string) string {
	r := strings.ToLower(strings.TrimSpace(restriction))
	r = strings.ReplaceAll(r, "_", " ")
	if canonical, ok := restrictionAliases[r]; ok {
		return canonical
	}
	return r
}

// Keyword is the default deny-list classifier.
type Keyword struct{}

var _ Classifier = Keyword{}

// Safe reports whether the profile passes the restriction. Explicit tags win
// over the keyword scan; keto uses the carb estimate instead of keywords.
func (Keyword) Safe(p models.DietaryProfile, restriction string) bool {
	r := Normalize(restriction)
	if r == "" {
		return true
	}
	if hasTag(p.Tags, r) {
		return true
	}

	if r == "keto" {
		return p.HasNutrition && p.CarbsG < ketoCarbLimitG
	}

	keywords, known := denyKeywords[r]
	if !known {
		// Unrecognized restrictions never veto a meal.
		return true
	}
	tokens := tokenize(p.Text)
	for _, kw := range keywords {
		if mentions(p.Text, tokens, kw) {
			return false
		}
	}
	return true
}

// SafeForAll applies the mandatory all-or-nothing rule: a profile passes only
// if every restriction passes.
func SafeForAll(c Classifier, p models.DietaryProfile, restrictions []string) bool {
	for _, r := range restrictions {
		if !c.Safe(p, r) {
			return false
		}
	}
	return true
}

// hasTag checks the normalized tags for the restriction. A vegan tag also
// satisfies vegetarian and dairy-free, since it is strictly stronger.
func hasTag(tags []string, restriction string) bool {
	for _, tag := range tags {
		t := Normalize(tag)
		if t == restriction {
			return true
		}
		if t == "vegan" && (restriction == "vegetarian" || restriction == "dairy-free") {
			return true
		}
	}
	return false
}

// mentions matches phrases by substring and single keywords against whole
// tokens, so "egg" hits "eggs" but not "eggplant".
func mentions(text string, tokens map[string]struct{}, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	for _, form := range [3]string{keyword, keyword + "s", keyword + "es"} {
		if _, ok := tokens[form]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}
