package domain

import (
	"encoding/json"
	"fmt"
)

// SlotKind tags what a slot holds.
type SlotKind int

const (
	// SlotEmpty has no item name.
	SlotEmpty SlotKind = iota
	// SlotSoft names an item but carries no count or weight (recipe list entries).
	SlotSoft
	// SlotItem is a full inventory item with name, count and weight.
	SlotItem
)

// String returns the lowercase name of the kind
func (k SlotKind) String() string {
	switch k {
	case SlotEmpty:
		return "empty"
	case SlotSoft:
		return "soft"
	case SlotItem:
		return "item"
	default:
		return "unknown"
	}
}

// Slot is one position in an inventory. Slot numbers are 1-based and never
// change after assignment.
type Slot struct {
	Slot        int                `json:"slot"`
	Name        string             `json:"name,omitempty"`
	Count       *int               `json:"count,omitempty"`
	Weight      *float64           `json:"weight,omitempty"`
	Metadata    Metadata           `json:"metadata,omitempty"`
	Durability  *float64           `json:"durability,omitempty"`
	Price       *float64           `json:"price,omitempty"`
	Currency    string             `json:"currency,omitempty"`
	Label       string             `json:"label,omitempty"`
	Grade       *Grade             `json:"grade,omitempty"`
	Ingredients map[string]float64 `json:"ingredients,omitempty"`
	Duration    *int               `json:"duration,omitempty"`
	Rarity      any                `json:"rarity,omitempty"`
}

// EmptySlot returns the placeholder for position n.
func EmptySlot(n int) Slot {
	return Slot{Slot: n}
}

// NewItemSlot builds a fully present item slot.
func NewItemSlot(n int, name string, count int, weight float64, metadata Metadata) Slot {
	return Slot{
		Slot:     n,
		Name:     name,
		Count:    &count,
		Weight:   &weight,
		Metadata: metadata,
	}
}

// Kind classifies the slot as empty, soft or a full item.
func (s Slot) Kind() SlotKind {
	switch {
	case s.Name == "":
		return SlotEmpty
	case s.Count == nil || s.Weight == nil:
		return SlotSoft
	default:
		return SlotItem
	}
}

// IsItemPresent reports whether the slot holds an item. The non-strict form
// needs a name and a weight; strict additionally needs a count.
func IsItemPresent(s Slot, strict bool) bool {
	switch s.Kind() {
	case SlotItem:
		return true
	case SlotSoft:
		return !strict && s.Weight != nil
	default:
		return false
	}
}

// CountValue returns the count or def when unset.
func (s Slot) CountValue(def int) int {
	if s.Count == nil {
		return def
	}
	return *s.Count
}

// WeightValue returns the weight or zero when unset.
func (s Slot) WeightValue() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// DurabilityValue returns the derived durability, falling back to the raw
// metadata value when the derived field has not been computed.
func (s Slot) DurabilityValue() (float64, bool) {
	if s.Durability != nil {
		return *s.Durability, true
	}
	return s.Metadata.Number(MetaDurability)
}

// ContainerID returns the inventory id linked through metadata.container.
func (s Slot) ContainerID() (string, bool) {
	if !s.Metadata.Has(MetaContainer) {
		return "", false
	}
	switch v := s.Metadata[MetaContainer].(type) {
	case string:
		return v, true
	default:
		if f, ok := toFloat(v); ok {
			return formatNumericID(f), true
		}
		return fmt.Sprint(v), true
	}
}

// Clone returns a deep copy.
func (s Slot) Clone() Slot {
	out := s
	out.Count = clonePtr(s.Count)
	out.Weight = clonePtr(s.Weight)
	out.Durability = clonePtr(s.Durability)
	out.Price = clonePtr(s.Price)
	out.Duration = clonePtr(s.Duration)
	out.Metadata = s.Metadata.Clone()
	out.Rarity = cloneValue(s.Rarity)
	if s.Grade != nil {
		g := Grade{List: s.Grade.List, Levels: append([]int(nil), s.Grade.Levels...)}
		out.Grade = &g
	}
	if s.Ingredients != nil {
		out.Ingredients = make(map[string]float64, len(s.Ingredients))
		for k, v := range s.Ingredients {
			out.Ingredients[k] = v
		}
	}
	return out
}

// WithCount returns a copy whose count is n and whose weight is the per-piece
// weight scaled to n.
func (s Slot) WithCount(n int) Slot {
	out := s.Clone()
	piece := s.PieceWeight()
	w := piece * float64(n)
	out.Count = &n
	out.Weight = &w
	return out
}

// PieceWeight is weight divided by count.
func (s Slot) PieceWeight() float64 {
	c := s.CountValue(0)
	if c == 0 {
		return 0
	}
	return s.WeightValue() / float64(c)
}

// UnmarshalJSON accepts count either as a number or as a [n, m] pair, as the
// host sends for crafting entries.
func (s *Slot) UnmarshalJSON(data []byte) error {
	type rawSlot Slot
	aux := struct {
		*rawSlot
		Count json.RawMessage `json:"count,omitempty"`
	}{rawSlot: (*rawSlot)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Count = nil
	if len(aux.Count) == 0 || string(aux.Count) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(aux.Count, &n); err == nil {
		c := int(n)
		s.Count = &c
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(aux.Count, &pair); err != nil {
		return fmt.Errorf("slot %d: invalid count: %w", s.Slot, err)
	}
	if len(pair) > 0 {
		c := int(pair[0])
		s.Count = &c
	}
	return nil
}

// Grade is a permission grade requirement: a single minimum grade, or a list
// of grades one of which must match exactly.
type Grade struct {
	Levels []int
	List   bool
}

// MarshalJSON writes the scalar or list form back out.
func (g Grade) MarshalJSON() ([]byte, error) {
	if !g.List && len(g.Levels) == 1 {
		return json.Marshal(g.Levels[0])
	}
	return json.Marshal(g.Levels)
}

// UnmarshalJSON accepts a number or an array of numbers.
func (g *Grade) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		g.Levels = []int{int(n)}
		g.List = false
		return nil
	}
	var list []float64
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("invalid grade: %w", err)
	}
	g.Levels = make([]int, len(list))
	for i, v := range list {
		g.Levels[i] = int(v)
	}
	g.List = true
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
