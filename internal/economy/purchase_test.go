package economy

import (
	"testing"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

func gradedSlot(grade *domain.Grade) domain.Slot {
	s := domain.NewItemSlot(1, "WEAPON_PISTOL", 5, 1.2, nil)
	s.Grade = grade
	return s
}

func TestCanPurchaseItem(t *testing.T) {
	shop := domain.Inventory{Type: domain.InventoryShop, Groups: domain.Groups{"police": 0, "sheriff": 0}}
	soldOut := domain.NewItemSlot(2, "water", 0, 0.5, nil)

	tests := []struct {
		name   string
		item   domain.Slot
		inv    domain.Inventory
		player domain.Groups
		want   bool
	}{
		{"not a shop", gradedSlot(&domain.Grade{Levels: []int{3}}), domain.Inventory{Type: domain.InventoryContainer}, nil, true},
		{"empty slot", domain.EmptySlot(3), shop, nil, true},
		{"sold out", soldOut, shop, domain.Groups{"police": 4}, false},
		{"no grade", gradedSlot(nil), shop, nil, true},
		{"shop without groups", gradedSlot(&domain.Grade{Levels: []int{2}}), domain.Inventory{Type: domain.InventoryShop}, nil, true},
		{"player without groups", gradedSlot(&domain.Grade{Levels: []int{2}}), shop, nil, false},
		{"scalar grade met", gradedSlot(&domain.Grade{Levels: []int{2}}), shop, domain.Groups{"sheriff": 3}, true},
		{"scalar grade short", gradedSlot(&domain.Grade{Levels: []int{2}}), shop, domain.Groups{"police": 1}, false},
		{"other job only", gradedSlot(&domain.Grade{Levels: []int{0}}), shop, domain.Groups{"ambulance": 4}, false},
		{"list grade exact", gradedSlot(&domain.Grade{Levels: []int{1, 3}, List: true}), shop, domain.Groups{"police": 3}, true},
		{"list grade miss", gradedSlot(&domain.Grade{Levels: []int{1, 3}, List: true}), shop, domain.Groups{"police": 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPurchaseItem(tt.item, tt.inv, tt.player); got != tt.want {
				t.Errorf("CanPurchaseItem() = %v, want %v", got, tt.want)
			}
		})
	}
}
