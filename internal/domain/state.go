package domain

// Inventories is the bundle of every inventory the HUD mirrors. Rollback
// snapshots are taken over the whole bundle.
type Inventories struct {
	Left      Inventory  `json:"leftInventory"`
	Right     Inventory  `json:"rightInventory"`
	Backpack  Inventory  `json:"backpackInventory"`
	Container *Inventory `json:"containerInventory,omitempty"`
	Crafting  *Inventory `json:"craftingInventory,omitempty"`
}

// Clone returns a deep copy of the bundle.
func (b Inventories) Clone() Inventories {
	out := Inventories{
		Left:     b.Left.Clone(),
		Right:    b.Right.Clone(),
		Backpack: b.Backpack.Clone(),
	}
	if b.Container != nil {
		c := b.Container.Clone()
		out.Container = &c
	}
	if b.Crafting != nil {
		c := b.Crafting.Clone()
		out.Crafting = &c
	}
	return out
}

// Position names one of the bundle's fields.
type Position string

const (
	PositionLeft      Position = "left"
	PositionRight     Position = "right"
	PositionBackpack  Position = "backpack"
	PositionContainer Position = "container"
	PositionCrafting  Position = "crafting"
)

// PositionOf routes an inventory type to the position that holds it. Types
// with no dedicated position fall through to the right-hand inventory, as do
// container and crafting storage while they are closed.
func (b *Inventories) PositionOf(t InventoryType) Position {
	switch {
	case t == InventoryPlayer:
		return PositionLeft
	case t == InventoryBackpack:
		return PositionBackpack
	case t == InventoryContainer && b.Container != nil:
		return PositionContainer
	case t == InventoryCraftingStorage && b.Crafting != nil:
		return PositionCrafting
	default:
		return PositionRight
	}
}

// DefaultTargetPosition is where an item dropped without an explicit target
// goes: player items go to the right-hand inventory, everything else to the
// player.
func DefaultTargetPosition(source InventoryType) Position {
	if source == InventoryPlayer {
		return PositionRight
	}
	return PositionLeft
}

// At returns the inventory in position p, or nil when that position is
// closed or unknown.
func (b *Inventories) At(p Position) *Inventory {
	switch p {
	case PositionLeft:
		return &b.Left
	case PositionRight:
		return &b.Right
	case PositionBackpack:
		return &b.Backpack
	case PositionContainer:
		return b.Container
	case PositionCrafting:
		return b.Crafting
	}
	return nil
}

// Resolve returns the inventory a slot reference of type t points at.
func (b *Inventories) Resolve(t InventoryType) *Inventory {
	return b.At(b.PositionOf(t))
}

// ByID finds an open inventory by id. The container is not searched.
func (b *Inventories) ByID(id InventoryID) (*Inventory, Position) {
	switch {
	case id == b.Left.ID:
		return &b.Left, PositionLeft
	case id == b.Right.ID:
		return &b.Right, PositionRight
	case id == b.Backpack.ID:
		return &b.Backpack, PositionBackpack
	case b.Crafting != nil && id == b.Crafting.ID:
		return b.Crafting, PositionCrafting
	}
	return nil, ""
}

// MetadataField is a tooltip field definition pushed by the host.
type MetadataField struct {
	Metadata string `json:"metadata" validate:"required"`
	Value    string `json:"value" validate:"required"`
}

// RootState is the full client-side mirror.
type RootState struct {
	Inventories

	ItemAmount         int             `json:"itemAmount"`
	ShiftPressed       bool            `json:"shiftPressed"`
	IsBusy             bool            `json:"isBusy"`
	AdditionalMetadata []MetadataField `json:"additionalMetadata"`
	History            *Inventories    `json:"history,omitempty"`

	Visible       bool `json:"visible"`
	HotbarVisible bool `json:"hotbarVisible"`
}

// NewRootState returns the initial state before the host sends anything.
func NewRootState() RootState {
	return RootState{
		Inventories: Inventories{
			Left:     EmptyInventory(),
			Right:    EmptyInventory(),
			Backpack: EmptyInventory(),
		},
		AdditionalMetadata: []MetadataField{},
	}
}

// Clone returns a deep copy.
func (s RootState) Clone() RootState {
	out := s
	out.Inventories = s.Inventories.Clone()
	out.AdditionalMetadata = append([]MetadataField{}, s.AdditionalMetadata...)
	if s.History != nil {
		h := s.History.Clone()
		out.History = &h
	}
	return out
}
