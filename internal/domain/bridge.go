package domain

// Restriction rule types for utility slots
const (
	RestrictionWeaponPrefix = "weapon_prefix"
	RestrictionAllowedItems = "allowed_items"
)

// UtilitySlotRestriction limits what may be placed in one utility slot.
type UtilitySlotRestriction struct {
	Name         string           `json:"name"`
	Restrictions *RestrictionRule `json:"restrictions,omitempty"`
	ExcludeItems []string         `json:"exclude_items,omitempty"`
}

// RestrictionRule is either a name-prefix rule (optionally negated) or an
// explicit allow-list.
type RestrictionRule struct {
	Type    string   `json:"type"`
	Prefix  string   `json:"prefix,omitempty"`
	Items   []string `json:"items,omitempty"`
	Exclude bool     `json:"exclude,omitempty"`
}

// MoveRequest is the confirmation sent to the host after an optimistic move.
type MoveRequest struct {
	FromSlot int           `json:"fromSlot"`
	ToSlot   int           `json:"toSlot"`
	FromType InventoryType `json:"fromType"`
	ToType   InventoryType `json:"toType"`
	Count    int           `json:"count"`
}

// MoveResult is the host's verdict. A rejected move is rolled back; a numeric
// answer also reports the updated container weight.
type MoveResult struct {
	Accepted        bool
	ContainerWeight *float64
}

// Settings is the subset of host settings the HUD reads.
type Settings struct {
	Audio *bool `json:"audio,omitempty"`
}

// AudioEnabled defaults to true when unset.
func (s Settings) AudioEnabled() bool {
	return s.Audio == nil || *s.Audio
}

// PurchaseLine is one shop cart entry as sent to the host.
type PurchaseLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PayMethod is how a purchase is paid.
type PayMethod string

const (
	PayCash PayMethod = "cash"
	PayBank PayMethod = "bank"
)

// Valid reports whether m is a known payment method.
func (m PayMethod) Valid() bool {
	return m == PayCash || m == PayBank
}
