package economy

import (
	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// CanPurchaseItem reports whether the player may buy item from inventory.
// The shop's groups name the jobs that may buy from it; playerGroups are the
// player's own job grades.
func CanPurchaseItem(item domain.Slot, inventory domain.Inventory, playerGroups domain.Groups) bool {
	if inventory.Type != domain.InventoryShop || !domain.IsItemPresent(item, false) {
		return true
	}
	if item.Count != nil && *item.Count == 0 {
		return false
	}
	if item.Grade == nil || len(item.Grade.Levels) == 0 || inventory.Groups == nil {
		return true
	}
	if playerGroups == nil {
		return false
	}

	for group := range inventory.Groups {
		playerGrade, ok := playerGroups[group]
		if !ok {
			continue
		}
		if item.Grade.List {
			for _, required := range item.Grade.Levels {
				if playerGrade == required {
					return true
				}
			}
			continue
		}
		if playerGrade >= item.Grade.Levels[0] {
			return true
		}
	}
	return false
}
