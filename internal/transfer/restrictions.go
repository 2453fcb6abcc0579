package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/validation"
)

// Restrictions is the utility slot placement table, keyed by slot number.
// An empty table allows everything.
type Restrictions struct {
	mu     sync.RWMutex
	table  map[int]domain.UtilitySlotRestriction
	schema validation.SchemaValidator
}

// NewRestrictions creates an empty table. Payloads passed to Load are checked
// against the slot restrictions schema.
func NewRestrictions(schema validation.SchemaValidator) *Restrictions {
	return &Restrictions{
		table:  make(map[int]domain.UtilitySlotRestriction),
		schema: schema,
	}
}

// Load replaces the table with the host's payload. Keys that are not slot
// numbers are dropped. An empty or invalid payload leaves the table empty and
// returns the validation error.
func (r *Restrictions) Load(ctx context.Context, raw []byte) error {
	log := logger.FromContext(ctx)
	r.Reset()

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if r.schema != nil {
		if err := r.schema.ValidateBytes(raw, validation.SchemaSlotRestrictions); err != nil {
			log.Warn(LogMsgRestrictionsInvalid, "error", err)
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	var byKey map[string]domain.UtilitySlotRestriction
	if err := json.Unmarshal(raw, &byKey); err != nil {
		log.Warn(LogMsgRestrictionsInvalid, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	table := make(map[int]domain.UtilitySlotRestriction, len(byKey))
	for key, restriction := range byKey {
		slot, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			log.Debug(LogMsgRestrictionKeyIgnored, "key", key)
			continue
		}
		table[slot] = restriction
	}
	r.Set(table)

	log.Info(LogMsgRestrictionsLoaded, "slots", len(table))
	return nil
}

// Set installs a parsed table.
func (r *Restrictions) Set(table map[int]domain.UtilitySlotRestriction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = make(map[int]domain.UtilitySlotRestriction, len(table))
	for k, v := range table {
		r.table[k] = v
	}
}

// Get returns the restriction for slot, if any.
func (r *Restrictions) Get(slot int) (domain.UtilitySlotRestriction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.table[slot]
	return v, ok
}

// All copies the table.
func (r *Restrictions) All() map[int]domain.UtilitySlotRestriction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]domain.UtilitySlotRestriction, len(r.table))
	for k, v := range r.table {
		out[k] = v
	}
	return out
}

// Reset empties the table.
func (r *Restrictions) Reset() {
	r.mu.Lock()
	r.table = make(map[int]domain.UtilitySlotRestriction)
	r.mu.Unlock()
}

// CanPlace reports whether an item named name may sit in slot.
func (r *Restrictions) CanPlace(name string, slot int) bool {
	cfg, ok := r.Get(slot)
	if !ok || cfg.Restrictions == nil {
		return true
	}

	for _, excluded := range cfg.ExcludeItems {
		if excluded == name {
			return false
		}
	}

	rule := cfg.Restrictions
	switch rule.Type {
	case domain.RestrictionWeaponPrefix:
		hasPrefix := strings.HasPrefix(name, rule.Prefix)
		if rule.Exclude {
			return !hasPrefix
		}
		return hasPrefix
	case domain.RestrictionAllowedItems:
		for _, allowed := range rule.Items {
			if allowed == name {
				return true
			}
		}
		return false
	default:
		return true
	}
}
