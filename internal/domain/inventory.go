package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// InventoryType identifies the kind of inventory. Hosts also send ad-hoc tags
// (trunk, glovebox, drop, ...) which behave like generic right-side inventories.
type InventoryType string

const (
	InventoryPlayer          InventoryType = "player"
	InventoryBackpack        InventoryType = "backpack"
	InventoryShop            InventoryType = "shop"
	InventoryContainer       InventoryType = "container"
	InventoryCrafting        InventoryType = "crafting"
	InventoryCraftingStorage InventoryType = "crafting_storage"
	InventoryDrop            InventoryType = "drop"
	InventoryNewDrop         InventoryType = "newdrop"
)

// UtilitySlotCount is the number of reserved slots at the start of the player
// inventory (weapon holsters, backpack, armor, phone, hotkeys).
const UtilitySlotCount = 9

// IsUtilitySlot reports whether n is one of the player's reserved slots.
func IsUtilitySlot(n int) bool {
	return n >= 1 && n <= UtilitySlotCount
}

// InventoryID is the host's identifier for an inventory. Hosts send either
// numbers (player server ids) or strings.
type InventoryID string

// UnmarshalJSON accepts a string or a number.
func (id *InventoryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = InventoryID(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid inventory id: %w", err)
	}
	*id = InventoryID(formatNumericID(f))
	return nil
}

func formatNumericID(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Inventory is a fixed-capacity ordered array of slots. Items[i] always holds
// slot number i+1 once the inventory has been set up.
type Inventory struct {
	ID        InventoryID   `json:"id"`
	Type      InventoryType `json:"type"`
	Slots     int           `json:"slots"`
	Items     SlotList      `json:"items"`
	MaxWeight float64       `json:"maxWeight"`
	Weight    *float64      `json:"weight,omitempty"` // host-reported current weight (containers)
	Label     string        `json:"label,omitempty"`
	Groups    Groups        `json:"groups,omitempty"`
}

// EmptyInventory is the cleared right-hand inventory.
func EmptyInventory() Inventory {
	return Inventory{Items: SlotList{}}
}

// IsEmpty reports whether nothing is open in this position.
func (inv Inventory) IsEmpty() bool {
	return inv.ID == "" && inv.Type == "" && len(inv.Items) == 0
}

// SlotAt returns a pointer to slot n, or nil when out of range.
func (inv *Inventory) SlotAt(n int) *Slot {
	if n < 1 || n > len(inv.Items) {
		return nil
	}
	return &inv.Items[n-1]
}

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := inv
	if inv.Items != nil {
		out.Items = make(SlotList, len(inv.Items))
		for i := range inv.Items {
			out.Items[i] = inv.Items[i].Clone()
		}
	}
	out.Weight = clonePtr(inv.Weight)
	if inv.Groups != nil {
		out.Groups = make(Groups, len(inv.Groups))
		for k, v := range inv.Groups {
			out.Groups[k] = v
		}
	}
	return out
}

// Groups maps a permission group name to a grade.
type Groups map[string]int

// UnmarshalJSON accepts an object, or an empty array for no groups.
func (g *Groups) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == "[]" {
		*g = nil
		return nil
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid groups: %w", err)
	}
	out := make(Groups, len(raw))
	for k, v := range raw {
		out[k] = int(v)
	}
	*g = out
	return nil
}

// TotalWeight sums weight over present slots.
func TotalWeight(items []Slot) float64 {
	var total float64
	for _, s := range items {
		if IsItemPresent(s, false) {
			total += *s.Weight
		}
	}
	return total
}

// SlotList decodes from either a JSON array or an object keyed by slot number.
// Null entries are dropped.
type SlotList []Slot

// UnmarshalJSON accepts both host encodings.
func (l *SlotList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	var raw []*Slot
	if data[0] == '{' {
		var byKey map[string]*Slot
		if err := json.Unmarshal(data, &byKey); err != nil {
			return err
		}
		for _, s := range byKey {
			if s != nil {
				raw = append(raw, s)
			}
		}
		sort.Slice(raw, func(i, j int) bool { return raw[i].Slot < raw[j].Slot })
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(SlotList, 0, len(raw))
	for _, s := range raw {
		if s != nil {
			out = append(out, *s)
		}
	}
	*l = out
	return nil
}

// BySlot returns the first entry whose slot number is n.
func (l SlotList) BySlot(n int) (Slot, bool) {
	for _, s := range l {
		if s.Slot == n {
			return s, true
		}
	}
	return Slot{}, false
}
