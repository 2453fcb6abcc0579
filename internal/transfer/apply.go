package transfer

import (
	"fmt"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// Apply performs plan on inv in place. nowSeconds feeds durability
// recomputation for every slot that is written.
func Apply(inv *domain.Inventories, plan Plan, nowSeconds int64) error {
	srcInv := inv.At(plan.Source.Position)
	dstInv := inv.At(plan.Target.Position)
	if srcInv == nil || dstInv == nil {
		return domain.ErrInventoryGone
	}

	src := srcInv.SlotAt(plan.Source.Slot)
	dst := dstInv.SlotAt(plan.Target.Slot)
	if src == nil {
		return fmt.Errorf("%w: slot %d", domain.ErrSourceSlotUndefined, plan.Source.Slot)
	}
	if dst == nil {
		return fmt.Errorf("%w: slot %d", domain.ErrTargetSlotUndefined, plan.Target.Slot)
	}

	switch plan.Kind {
	case Move:
		moved := src.WithCount(plan.Count)
		moved.Slot = dst.Slot
		moved.Durability = domain.ComputeDurability(moved.Metadata, nowSeconds)
		*dst = moved
		takeFromSource(src, srcInv.Type, plan.Count)

	case Stack:
		total := dst.CountValue(0) + plan.Count
		piece := src.PieceWeight()
		weight := piece * float64(total)
		dst.Count = &total
		dst.Weight = &weight
		takeFromSource(src, srcInv.Type, plan.Count)

	case Swap:
		a, b := src.Clone(), dst.Clone()
		a.Slot, b.Slot = dst.Slot, src.Slot
		a.Durability = domain.ComputeDurability(a.Metadata, nowSeconds)
		b.Durability = domain.ComputeDurability(b.Metadata, nowSeconds)
		*dst = a
		*src = b

	default:
		return fmt.Errorf("%w: unknown transfer kind %d", domain.ErrInvalidInput, plan.Kind)
	}

	return nil
}

// takeFromSource reduces src by n. Shops and crafting lists are catalogs and
// keep their entries.
func takeFromSource(src *domain.Slot, sourceType domain.InventoryType, n int) {
	if sourceType == domain.InventoryShop || sourceType == domain.InventoryCrafting {
		return
	}
	remaining := src.CountValue(0) - n
	if remaining <= 0 {
		*src = domain.EmptySlot(src.Slot)
		return
	}
	*src = src.WithCount(remaining)
}
