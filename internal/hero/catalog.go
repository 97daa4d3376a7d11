package hero

import "github.com/mealmosaic/engine/internal/models"

// catalog is the built-in staple list. Versatility and cost efficiency are
// hand-tuned against typical bulk prices; storage life assumes sensible
// pantry or freezer handling.
var catalog = []models.HeroIngredient{
	{
		Name: "Dried black beans", Versatility: 0.9, CostEfficiency: 0.95,
		Cuisines:        []string{"mexican", "brazilian", "caribbean", "cuban"},
		StorageLifeDays: 365, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextProtein, models.ContextBase},
	},
	{
		Name: "Brown lentils", Versatility: 0.85, CostEfficiency: 0.9,
		Cuisines:        []string{"indian", "middle eastern", "mediterranean", "ethiopian"},
		StorageLifeDays: 365, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextProtein},
	},
	{
		Name: "Chicken thighs", Versatility: 0.95, CostEfficiency: 0.8,
		Cuisines:        []string{"mexican", "thai", "indian", "chinese", "american", "korean"},
		StorageLifeDays: 180, BulkFriendly: true,
		SafeTags: []string{"gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextProtein},
	},
	{
		Name: "Eggs", Versatility: 0.9, CostEfficiency: 0.85,
		Cuisines:        []string{"chinese", "japanese", "mexican", "italian", "french"},
		StorageLifeDays: 21, BulkFriendly: false,
		SafeTags: []string{"vegetarian", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextProtein},
	},
	{
		Name: "Firm tofu", Versatility: 0.8, CostEfficiency: 0.75,
		Cuisines:        []string{"chinese", "japanese", "thai", "korean", "vietnamese"},
		StorageLifeDays: 14, BulkFriendly: false,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextProtein},
	},
	{
		Name: "Long-grain rice", Versatility: 0.95, CostEfficiency: 0.95,
		Cuisines:        []string{"mexican", "chinese", "indian", "thai", "japanese", "korean"},
		StorageLifeDays: 730, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextBase},
	},
	{
		Name: "Potatoes", Versatility: 0.85, CostEfficiency: 0.9,
		Cuisines:        []string{"indian", "peruvian", "american", "german", "irish"},
		StorageLifeDays: 30, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextBase, models.ContextVegetable},
	},
	{
		Name: "Rolled oats", Versatility: 0.7, CostEfficiency: 0.9,
		Cuisines:        []string{"american", "british", "scandinavian"},
		StorageLifeDays: 365, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextBase},
	},
	{
		Name: "Yellow onions", Versatility: 0.95, CostEfficiency: 0.9,
		Cuisines:        []string{"mexican", "indian", "chinese", "italian", "french", "thai"},
		StorageLifeDays: 60, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextAromatics, models.ContextVegetable},
	},
	{
		Name: "Garlic", Versatility: 0.95, CostEfficiency: 0.85,
		Cuisines:        []string{"italian", "chinese", "korean", "thai", "mediterranean", "mexican"},
		StorageLifeDays: 90, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextAromatics},
	},
	{
		Name: "Fresh ginger", Versatility: 0.8, CostEfficiency: 0.7,
		Cuisines:        []string{"chinese", "thai", "indian", "japanese", "vietnamese"},
		StorageLifeDays: 30, BulkFriendly: false,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextAromatics},
	},
	{
		Name: "Scallions", Versatility: 0.75, CostEfficiency: 0.7,
		Cuisines:        []string{"chinese", "korean", "japanese", "vietnamese", "mexican"},
		StorageLifeDays: 10, BulkFriendly: false,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextAromatics, models.ContextVegetable},
	},
	{
		Name: "Carrots", Versatility: 0.85, CostEfficiency: 0.9,
		Cuisines:        []string{"chinese", "french", "american", "japanese", "moroccan"},
		StorageLifeDays: 30, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextVegetable},
	},
	{
		Name: "Green cabbage", Versatility: 0.8, CostEfficiency: 0.95,
		Cuisines:        []string{"korean", "chinese", "german", "polish", "indian"},
		StorageLifeDays: 30, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextVegetable},
	},
	{
		Name: "Canned tomatoes", Versatility: 0.85, CostEfficiency: 0.85,
		Cuisines:        []string{"italian", "mexican", "indian", "spanish"},
		StorageLifeDays: 730, BulkFriendly: true,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free"},
		Contexts: []string{models.ContextVegetable, models.ContextBase},
	},
	{
		Name: "Bell peppers", Versatility: 0.75, CostEfficiency: 0.6,
		Cuisines:        []string{"mexican", "chinese", "italian", "spanish", "thai"},
		StorageLifeDays: 14, BulkFriendly: false,
		SafeTags: []string{"vegetarian", "vegan", "gluten-free", "nut-free", "dairy-free", "keto"},
		Contexts: []string{models.ContextVegetable},
	},
}

// Catalog returns a copy of the built-in staple catalog.
func Catalog() []models.HeroIngredient {
	out := make([]models.HeroIngredient, len(catalog))
	copy(out, catalog)
	return out
}
