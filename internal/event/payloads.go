package event

import (
	"bytes"
	"encoding/json"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// Optional distinguishes a field the host left out from one it sent as null.
// Set is true whenever the key was present.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null is a present-but-null field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON marks the field as present, including for null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// InitPayload is the first event after the HUD loads.
type InitPayload struct {
	Locale        map[string]string          `json:"locale"`
	Items         map[string]domain.ItemData `json:"items"`
	LeftInventory *domain.Inventory          `json:"leftInventory" validate:"required"`
	ImagePath     string                     `json:"imagepath"`
}

// SetupInventoryPayload opens or replaces inventories. Backpack and crafting
// storage may be sent as null to clear them.
type SetupInventoryPayload struct {
	LeftInventory     *domain.Inventory          `json:"leftInventory,omitempty"`
	RightInventory    *domain.Inventory          `json:"rightInventory,omitempty"`
	BackpackInventory Optional[domain.Inventory] `json:"backpackInventory"`
	CraftingInventory Optional[domain.Inventory] `json:"craftingInventory"`
}

// ShouldReset reports whether opening this setup clears the right-hand side.
// Opening a container keeps whatever is already on the right.
func (p SetupInventoryPayload) ShouldReset() bool {
	return p.LeftInventory != nil &&
		(p.RightInventory == nil || p.RightInventory.Type != domain.InventoryContainer)
}

// RefreshItem is one authoritative slot update.
type RefreshItem struct {
	Item      domain.Slot          `json:"item"`
	Inventory domain.InventoryType `json:"inventory,omitempty"`
}

// RefreshItems decodes from a single object or an array. Null entries are dropped.
type RefreshItems []RefreshItem

// UnmarshalJSON accepts both forms.
func (r *RefreshItems) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = nil
		return nil
	}
	if data[0] == '{' {
		var one RefreshItem
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*r = RefreshItems{one}
		return nil
	}
	var many []*RefreshItem
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	out := make(RefreshItems, 0, len(many))
	for _, it := range many {
		if it != nil {
			out = append(out, *it)
		}
	}
	*r = out
	return nil
}

// WeightData updates an open inventory's weight limit.
type WeightData struct {
	InventoryID domain.InventoryID `json:"inventoryId" validate:"required"`
	MaxWeight   float64            `json:"maxWeight" validate:"gte=0"`
}

// SlotsData resizes an open inventory.
type SlotsData struct {
	InventoryID domain.InventoryID `json:"inventoryId" validate:"required"`
	Slots       int                `json:"slots" validate:"gte=0"`
}

// RefreshSlotsPayload carries authoritative corrections from the host.
type RefreshSlotsPayload struct {
	Items      RefreshItems   `json:"items,omitempty"`
	ItemCount  map[string]int `json:"itemCount,omitempty"`
	WeightData *WeightData    `json:"weightData,omitempty"`
	SlotsData  *SlotsData     `json:"slotsData,omitempty"`
}

// VisibilityPayload is a bare boolean on the wire.
type VisibilityPayload struct {
	Visible bool
}

// UnmarshalJSON reads a bare boolean.
func (v *VisibilityPayload) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &v.Visible)
}

// MarshalJSON writes a bare boolean.
func (v VisibilityPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Visible)
}

// BackpackPayload refreshes only the backpack.
type BackpackPayload struct {
	BackpackInventory Optional[domain.Inventory] `json:"backpackInventory"`
}

// DisplayMetadataPayload is a bare array of tooltip fields on the wire.
type DisplayMetadataPayload struct {
	Fields []domain.MetadataField `validate:"dive"`
}

// UnmarshalJSON reads a bare array.
func (d *DisplayMetadataPayload) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &d.Fields)
}

// MarshalJSON writes a bare array.
func (d DisplayMetadataPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Fields)
}

// StateChangedPayload tells listeners which reducer ran.
type StateChangedPayload struct {
	Reason string `json:"reason"`
}

// CraftCompletedPayload reports a finished crafting job.
type CraftCompletedPayload struct {
	RecipeID int    `json:"recipeId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// CraftProgressPayload samples the running job's progress.
type CraftProgressPayload struct {
	Index    int     `json:"index"`
	Progress float64 `json:"progress"`
}
