// Package transfer decides what a drag-and-drop does to the inventory mirror
// and applies it. Planning never mutates state.
package transfer

import (
	"context"
	"fmt"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// Kind is the mutation a transfer resolves to.
type Kind int

const (
	Move Kind = iota
	Stack
	Swap
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Stack:
		return "stack"
	case Swap:
		return "swap"
	default:
		return "unknown"
	}
}

// Ref points at one slot of an open inventory.
type Ref struct {
	Inventory domain.InventoryType `json:"inventory"`
	Slot      int                  `json:"slot" validate:"min=1"`
}

// Request is a drop intent plus the modifiers in effect when it was made.
type Request struct {
	Source       Ref
	Target       *Ref
	ShiftPressed bool
	ItemAmount   int
}

// Endpoint is a resolved side of a transfer.
type Endpoint struct {
	Position domain.Position
	Type     domain.InventoryType
	ID       domain.InventoryID
	Slot     int
}

// Plan is a validated transfer ready to apply.
type Plan struct {
	Kind   Kind
	Source Endpoint
	Target Endpoint
	Count  int
	Item   domain.ItemData
}

// MoveRequest is the confirmation the host receives for this plan.
func (p Plan) MoveRequest() domain.MoveRequest {
	return domain.MoveRequest{
		FromSlot: p.Source.Slot,
		ToSlot:   p.Target.Slot,
		FromType: p.Source.Type,
		ToType:   p.Target.Type,
		Count:    p.Count,
	}
}

// ItemResolver supplies item definitions, synthesizing unknown ones.
type ItemResolver interface {
	Resolve(ctx context.Context, s domain.Slot) domain.ItemData
}

// Planner validates drops against the utility slot table and item catalog.
type Planner struct {
	items        ItemResolver
	restrictions *Restrictions
}

// NewPlanner creates a Planner.
func NewPlanner(items ItemResolver, restrictions *Restrictions) *Planner {
	return &Planner{items: items, restrictions: restrictions}
}

// Restrictions returns the utility slot table in use.
func (p *Planner) Restrictions() *Restrictions {
	return p.restrictions
}

func (p *Planner) canPlace(name string, slot int) bool {
	if p.restrictions == nil {
		return true
	}
	return p.restrictions.CanPlace(name, slot)
}

// Plan resolves req against inv. Every rejection is a domain sentinel error
// and leaves inv untouched.
func (p *Planner) Plan(ctx context.Context, inv *domain.Inventories, req Request) (Plan, error) {
	srcPos := inv.PositionOf(req.Source.Inventory)
	srcInv := inv.At(srcPos)
	if srcInv == nil {
		return Plan{}, fmt.Errorf("%w: %s", domain.ErrInventoryGone, req.Source.Inventory)
	}

	dstPos := domain.DefaultTargetPosition(req.Source.Inventory)
	if req.Target != nil {
		dstPos = inv.PositionOf(req.Target.Inventory)
	}
	dstInv := inv.At(dstPos)
	if dstInv == nil {
		return Plan{}, fmt.Errorf("%w: %s", domain.ErrInventoryGone, dstPos)
	}
	if dstInv.Type == domain.InventoryShop || dstInv.Type == domain.InventoryCrafting {
		return Plan{}, fmt.Errorf("%w: %s", domain.ErrDropNotAllowed, dstInv.Type)
	}

	srcSlotPtr := srcInv.SlotAt(req.Source.Slot)
	if srcSlotPtr == nil || !domain.IsItemPresent(*srcSlotPtr, true) {
		return Plan{}, fmt.Errorf("%w: slot %d", domain.ErrSourceSlotUndefined, req.Source.Slot)
	}
	source := *srcSlotPtr
	data := p.items.Resolve(ctx, source)

	if containerID, ok := source.ContainerID(); ok {
		if dstInv.Type == domain.InventoryContainer {
			return Plan{}, fmt.Errorf("%w: %s", domain.ErrContainerInContainer, source.Name)
		}
		if string(inv.Right.ID) == containerID {
			return Plan{}, fmt.Errorf("%w: cannot move %s", domain.ErrContainerOpen, source.Name)
		}
	}

	var target *domain.Slot
	if req.Target != nil {
		target = dstInv.SlotAt(req.Target.Slot)
	} else if i := FindAvailableSlot(source, data, dstInv.Items); i >= 0 {
		target = &dstInv.Items[i]
	}
	if target == nil {
		return Plan{}, domain.ErrTargetSlotUndefined
	}
	if dstPos == srcPos && target.Slot == source.Slot {
		return Plan{}, domain.ErrSameSlot
	}

	if err := p.checkUtilitySlots(req, srcInv, dstInv, source, *target); err != nil {
		return Plan{}, err
	}

	if containerID, ok := target.ContainerID(); ok && string(inv.Right.ID) == containerID {
		return Plan{}, fmt.Errorf("%w: cannot swap %s with %s", domain.ErrContainerOpen, source.Name, target.Name)
	}

	count := ResolveQuantity(req.ShiftPressed, req.ItemAmount, source, srcInv.Type)
	if count < 1 {
		return Plan{}, fmt.Errorf("%w: nothing to move from slot %d", domain.ErrInvalidInput, source.Slot)
	}

	kind := Move
	if domain.IsItemPresent(*target, true) {
		kind = Swap
		if data.Stack && CanStack(source, *target) {
			kind = Stack
		}
	}

	return Plan{
		Kind:   kind,
		Source: Endpoint{Position: srcPos, Type: srcInv.Type, ID: srcInv.ID, Slot: source.Slot},
		Target: Endpoint{Position: dstPos, Type: dstInv.Type, ID: dstInv.ID, Slot: target.Slot},
		Count:  count,
		Item:   data,
	}, nil
}

// checkUtilitySlots applies the placement table to both directions of a
// transfer that touches the player's utility slots.
func (p *Planner) checkUtilitySlots(req Request, srcInv, dstInv *domain.Inventory, source, target domain.Slot) error {
	sourceIsUtility := srcInv.Type == domain.InventoryPlayer && domain.IsUtilitySlot(source.Slot)
	targetIsUtility := req.Target != nil && dstInv.Type == domain.InventoryPlayer && domain.IsUtilitySlot(target.Slot)
	targetOccupied := domain.IsItemPresent(target, true)

	reject := func(name string, slot int) error {
		return fmt.Errorf("%w: %s in slot %d", domain.ErrUtilitySlot, name, slot)
	}

	if targetIsUtility {
		if !p.canPlace(source.Name, target.Slot) {
			return reject(source.Name, target.Slot)
		}
		if targetOccupied && sourceIsUtility && !p.canPlace(target.Name, source.Slot) {
			return reject(target.Name, source.Slot)
		}
	}

	if sourceIsUtility {
		if !p.canPlace(source.Name, source.Slot) {
			return reject(source.Name, source.Slot)
		}
		if req.Target != nil && targetOccupied && !domain.IsUtilitySlot(target.Slot) && !p.canPlace(target.Name, source.Slot) {
			return reject(target.Name, source.Slot)
		}
	}

	if targetIsUtility && targetOccupied && !p.canPlace(target.Name, target.Slot) {
		return reject(target.Name, target.Slot)
	}

	return nil
}
