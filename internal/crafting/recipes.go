package crafting

import (
	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// Catalog is the item catalog as seen by recipe building.
type Catalog interface {
	Get(name string) (domain.ItemData, bool)
}

// RecipesFromSlots builds the recipe list offered by a crafting bench. Every
// slot that names an item and lists ingredients is a recipe. Labels come from
// the slot, then the catalog, then the item name; MissingNames lists what the
// catalog still lacks.
func RecipesFromSlots(items []domain.Slot, cat Catalog) []domain.CraftingRecipe {
	recipes := make([]domain.CraftingRecipe, 0, len(items))
	for _, s := range items {
		if s.Name == "" || len(s.Ingredients) == 0 {
			continue
		}
		r := domain.CraftingRecipe{
			Name:        s.Name,
			Label:       s.Label,
			Ingredients: make(map[string]float64, len(s.Ingredients)),
			Count:       s.CountValue(1),
			Slot:        s.Slot,
		}
		for name, qty := range s.Ingredients {
			r.Ingredients[name] = qty
		}
		if s.Duration != nil {
			r.Duration = *s.Duration
		}
		if r.Label == "" && cat != nil {
			if data, ok := cat.Get(s.Name); ok {
				r.Label = data.Label
			}
		}
		if r.Label == "" {
			r.Label = s.Name
		}
		recipes = append(recipes, r)
	}
	return recipes
}

// MissingNames returns the recipe and ingredient names the catalog does not
// know yet.
func MissingNames(items []domain.Slot, cat Catalog) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		if _, ok := cat.Get(name); !ok {
			out = append(out, name)
		}
	}
	for _, s := range items {
		if len(s.Ingredients) == 0 {
			continue
		}
		add(s.Name)
		for name := range s.Ingredients {
			add(name)
		}
	}
	return out
}
