package crafting

import (
	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// sources lists the inventories materials may be drawn from, crafting
// storage first.
func sources(bundle *domain.Inventories) []*domain.Inventory {
	out := make([]*domain.Inventory, 0, 3)
	if bundle.Crafting != nil {
		out = append(out, bundle.Crafting)
	}
	out = append(out, &bundle.Left, &bundle.Backpack)
	return out
}

// availableCount sums the count of name across every material source. A
// present slot without a count is one item.
func availableCount(bundle *domain.Inventories, name string) int {
	total := 0
	for _, inv := range sources(bundle) {
		for _, s := range inv.Items {
			if s.Name == name && domain.IsItemPresent(s, false) {
				total += s.CountValue(1)
			}
		}
	}
	return total
}

// hasDurability reports whether any single item called name carries at least
// need durability.
func hasDurability(bundle *domain.Inventories, name string, need float64) bool {
	for _, inv := range sources(bundle) {
		for _, s := range inv.Items {
			if s.Name != name || !domain.IsItemPresent(s, false) {
				continue
			}
			if d, ok := s.Metadata.Number(domain.MetaDurability); ok && d >= need {
				return true
			}
		}
	}
	return false
}

// HasEnoughMaterials reports whether quantity crafts of recipe are affordable.
// Every ingredient is counted across the material sources, fractional
// durability ingredients included.
func HasEnoughMaterials(bundle domain.Inventories, recipe domain.CraftingRecipe, quantity int) bool {
	for name, qty := range recipe.Ingredients {
		if float64(availableCount(&bundle, name)) < qty*float64(quantity) {
			return false
		}
	}
	return true
}

// CanCraftItem reports whether a single craft of the recipe in item is
// affordable. Slots outside a crafting bench are always craftable.
func CanCraftItem(bundle domain.Inventories, item domain.Slot, inventoryType domain.InventoryType) bool {
	if inventoryType != domain.InventoryCrafting || !domain.IsItemPresent(item, false) {
		return true
	}
	for name, qty := range item.Ingredients {
		if domain.IsDurabilityConsumptionRule(qty) {
			if !hasDurability(&bundle, name, qty*durabilityUnit) {
				return false
			}
			continue
		}
		if float64(availableCount(&bundle, name)) < qty {
			return false
		}
	}
	return true
}
