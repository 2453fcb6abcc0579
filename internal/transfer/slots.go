package transfer

import "github.com/osse101/InventoryHUD_Go/internal/domain"

// CanStack reports whether b can absorb a: same item, structurally equal
// metadata.
func CanStack(a, b domain.Slot) bool {
	return a.Name == b.Name && domain.MetadataEqual(a.Metadata, b.Metadata)
}

// FindAvailableSlot picks a destination for item when none was given.
// Utility slots are never chosen. Stackable items prefer a matching stack and
// otherwise take the first empty slot. The returned index is into candidates;
// -1 means nothing fits.
func FindAvailableSlot(item domain.Slot, data domain.ItemData, candidates []domain.Slot) int {
	if data.Stack {
		for i, c := range candidates {
			if domain.IsUtilitySlot(c.Slot) {
				continue
			}
			if c.Name == item.Name && domain.MetadataEqual(c.Metadata, item.Metadata) {
				return i
			}
		}
	}
	for i, c := range candidates {
		if domain.IsUtilitySlot(c.Slot) {
			continue
		}
		if c.Name == "" {
			return i
		}
	}
	return -1
}

// ResolveQuantity decides how many items a transfer carries. Holding shift
// halves a stack (except from shops); otherwise a pending split amount is used
// when it fits, else the whole stack.
func ResolveQuantity(shiftPressed bool, itemAmount int, source domain.Slot, sourceType domain.InventoryType) int {
	count := source.CountValue(0)
	switch {
	case shiftPressed && count > 1 && sourceType != domain.InventoryShop:
		return count / 2
	case itemAmount <= 0 || itemAmount > count:
		return count
	default:
		return itemAmount
	}
}
