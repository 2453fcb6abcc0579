package state

import (
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/event"
)

// layout returns inv with Items expanded to exactly n slots. The first host
// entry for each slot number wins; slots the host left out become empty.
func layout(inv domain.Inventory, n int, now int64) domain.Inventory {
	out := inv.Clone()
	if n < 0 {
		n = 0
	}
	items := make(domain.SlotList, n)
	filled := make([]bool, n)
	for _, s := range inv.Items {
		if s.Slot < 1 || s.Slot > n || filled[s.Slot-1] {
			continue
		}
		slot := s.Clone()
		if slot.Name != "" {
			slot.Durability = domain.ComputeDurability(slot.Metadata, now)
		}
		items[s.Slot-1] = slot
		filled[s.Slot-1] = true
	}
	for i := range items {
		if !filled[i] {
			items[i] = domain.EmptySlot(i + 1)
		}
	}
	out.Items = items
	return out
}

// shopLength stretches a shop to cover its highest stocked slot.
func shopLength(inv domain.Inventory) int {
	n := inv.Slots
	for _, s := range inv.Items {
		if s.Name != "" && s.Slot > n {
			n = s.Slot
		}
	}
	return n
}

func layoutLeft(inv domain.Inventory, now int64) domain.Inventory {
	return layout(inv, inv.Slots+domain.UtilitySlotCount, now)
}

func layoutRight(inv domain.Inventory, now int64) domain.Inventory {
	switch inv.Type {
	case domain.InventoryCrafting:
		out := inv.Clone()
		if out.Items == nil {
			out.Items = domain.SlotList{}
		}
		return out
	case domain.InventoryShop:
		return layout(inv, shopLength(inv), now)
	default:
		return layout(inv, inv.Slots, now)
	}
}

// applySetup is the setupInventory reducer. The caller holds the lock.
func (s *Store) applySetup(p event.SetupInventoryPayload, reset bool, now int64) {
	st := &s.state

	if reset {
		st.Right = domain.EmptyInventory()
		st.Container = nil
		st.Crafting = nil
	}

	if p.LeftInventory != nil {
		st.Left = layoutLeft(*p.LeftInventory, now)
	}

	if p.BackpackInventory.Set {
		if bp := p.BackpackInventory.Value; bp != nil && bp.Slots > 0 {
			st.Backpack = layout(*bp, bp.Slots, now)
		} else {
			st.Backpack = domain.EmptyInventory()
		}
	}

	if p.CraftingInventory.Set {
		if cs := p.CraftingInventory.Value; cs != nil && cs.Slots > 0 {
			inv := layout(*cs, cs.Slots, now)
			st.Crafting = &inv
		} else {
			st.Crafting = nil
		}
	}

	if p.RightInventory != nil {
		inv := layoutRight(*p.RightInventory, now)
		if inv.Type == domain.InventoryContainer {
			st.Container = &inv
		} else {
			st.Right = inv
		}
	}

	st.ShiftPressed = false
	st.IsBusy = false
}

// SetupNames lists every item name a setup payload references, for catalog
// backfill.
func SetupNames(p event.SetupInventoryPayload) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(inv *domain.Inventory) {
		if inv == nil {
			return
		}
		for _, s := range inv.Items {
			if s.Name != "" && !seen[s.Name] {
				seen[s.Name] = true
				names = append(names, s.Name)
			}
		}
	}
	add(p.LeftInventory)
	add(p.RightInventory)
	add(p.CraftingInventory.Value)
	return names
}
