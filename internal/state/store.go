// Package state owns the client-side mirror of the host's inventories and
// the optimistic update protocol around it.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

// Listener is told which reducer changed the state. It runs outside the
// store lock.
type Listener func(reason string)

// TxID identifies one optimistic transfer. Settlements carrying any other id
// are ignored.
type TxID uint64

// errStaleTx aborts an update without notifying listeners.
var errStaleTx = errors.New("stale transaction")

// Store serializes every reducer over RootState. Reads hand out deep copies.
type Store struct {
	mu        sync.RWMutex
	state     domain.RootState
	tx        *Tx[domain.Inventories]
	txID      TxID
	txSeq     TxID
	clock     clockwork.Clock
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store in the initial empty state.
func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		state:     domain.NewRootState(),
		clock:     clock,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(reason string) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(reason)
	}
}

// update runs fn under the write lock and notifies on success.
func (s *Store) update(reason string, fn func(st *domain.RootState) error) error {
	s.mu.Lock()
	err := fn(&s.state)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(reason)
	return nil
}

func (s *Store) now() int64 {
	return s.clock.Now().Unix()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() domain.RootState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Inventories returns a deep copy of the inventory bundle.
func (s *Store) Inventories() domain.Inventories {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Inventories.Clone()
}

// IsBusy reports whether a host confirmation is outstanding.
func (s *Store) IsBusy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsBusy
}

// ItemAmount returns the pending split amount.
func (s *Store) ItemAmount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ItemAmount
}

// ShiftPressed reports the shift modifier.
func (s *Store) ShiftPressed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ShiftPressed
}

// Setup applies a setupInventory payload.
func (s *Store) Setup(p event.SetupInventoryPayload) {
	now := s.now()
	_ = s.update(ReasonSetup, func(st *domain.RootState) error {
		s.applySetup(p, p.ShouldReset(), now)
		// an older snapshot must never overwrite a full setup
		s.tx = nil
		st.History = nil
		return nil
	})
}

// SetupLeft lays out the player inventory alone, leaving everything else
// open.
func (s *Store) SetupLeft(inv domain.Inventory) {
	now := s.now()
	_ = s.update(ReasonSetup, func(*domain.RootState) error {
		s.applySetup(event.SetupInventoryPayload{LeftInventory: &inv}, false, now)
		return nil
	})
}

// Refresh applies authoritative slot, weight and size corrections. Item
// counts are catalog data and are handled by the caller.
func (s *Store) Refresh(ctx context.Context, p event.RefreshSlotsPayload) {
	log := logger.FromContext(ctx)
	now := s.now()

	_ = s.update(ReasonRefresh, func(st *domain.RootState) error {
		for _, it := range p.Items {
			target := &st.Left
			if it.Inventory != "" {
				target = st.Resolve(it.Inventory)
			}
			if target == nil {
				log.Debug(LogMsgRefreshUnknownTarget, "inventory", it.Inventory, "slot", it.Item.Slot)
				continue
			}
			slot := it.Item.Clone()
			slot.Durability = domain.ComputeDurability(slot.Metadata, now)
			if ptr := target.SlotAt(slot.Slot); ptr != nil {
				*ptr = slot
			} else if slot.Slot == len(target.Items)+1 {
				target.Items = append(target.Items, slot)
			} else {
				log.Debug(LogMsgRefreshUnknownTarget, "inventory", it.Inventory, "slot", slot.Slot)
			}
		}

		if wd := p.WeightData; wd != nil {
			if inv, _ := st.ByID(wd.InventoryID); inv != nil {
				inv.MaxWeight = wd.MaxWeight
			}
		}

		if sd := p.SlotsData; sd != nil {
			inv, pos := st.ByID(sd.InventoryID)
			if inv != nil {
				inv.Slots = sd.Slots
				resized := inv.Clone()
				var setup event.SetupInventoryPayload
				switch pos {
				case domain.PositionLeft:
					setup.LeftInventory = &resized
				case domain.PositionRight:
					setup.RightInventory = &resized
				case domain.PositionBackpack:
					setup.BackpackInventory = event.Some(resized)
				case domain.PositionCrafting:
					setup.CraftingInventory = event.Some(resized)
				}
				s.applySetup(setup, false, now)
			}
		}
		return nil
	})
}

// pending snapshots every inventory into a new transaction and marks the
// store busy. It fails with domain.ErrBusy when another request is
// outstanding.
func (s *Store) pending(st *domain.RootState) error {
	if st.IsBusy {
		return domain.ErrBusy
	}
	s.txSeq++
	s.txID = s.txSeq
	s.tx = Begin(st.Inventories)
	history := s.tx.Snapshot()
	st.History = &history
	st.IsBusy = true
	return nil
}

// BeginTransfer plans against the live state and, when the plan is valid,
// snapshots, marks the store busy and applies it, all under one lock.
// Nothing changes when planning fails. The returned id settles the transfer.
func (s *Store) BeginTransfer(plan func(inv *domain.Inventories) (transfer.Plan, error)) (transfer.Plan, TxID, error) {
	now := s.now()
	var (
		out transfer.Plan
		id  TxID
	)
	err := s.update(ReasonTransfer, func(st *domain.RootState) error {
		if st.IsBusy {
			return domain.ErrBusy
		}
		p, err := plan(&st.Inventories)
		if err != nil {
			return err
		}
		scratch := st.Inventories.Clone()
		if err := transfer.Apply(&scratch, p, now); err != nil {
			return err
		}
		if err := s.pending(st); err != nil {
			return err
		}
		st.Inventories = scratch
		out, id = p, s.txID
		return nil
	})
	return out, id, err
}

// current reports whether id is the outstanding transaction.
func (s *Store) current(id TxID) bool {
	return s.tx != nil && s.txID == id
}

// Fulfilled commits transaction id and clears the busy flag. History is kept
// but never applied. It reports false when id is no longer outstanding.
func (s *Store) Fulfilled(ctx context.Context, id TxID) bool {
	err := s.update(ReasonFulfilled, func(st *domain.RootState) error {
		if !s.current(id) {
			return errStaleTx
		}
		_ = s.tx.Commit()
		s.tx = nil
		st.IsBusy = false
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgStaleSettlement, "tx", id, "result", ReasonFulfilled)
		return false
	}
	return true
}

// Rejected restores every inventory from the snapshot of transaction id and
// clears the busy flag. It reports false when id is no longer outstanding.
func (s *Store) Rejected(ctx context.Context, id TxID) bool {
	log := logger.FromContext(ctx)
	err := s.update(ReasonRejected, func(st *domain.RootState) error {
		if !s.current(id) {
			return errStaleTx
		}
		if snap, err := s.tx.Abort(); err == nil {
			st.Inventories = snap
			log.Info(LogMsgRolledBack, "tx", id)
		}
		s.tx = nil
		st.History = nil
		st.IsBusy = false
		return nil
	})
	if err != nil {
		log.Debug(LogMsgStaleSettlement, "tx", id, "result", ReasonRejected)
		return false
	}
	return true
}

// SetAdditionalMetadata appends tooltip fields whose value is not already
// shown.
func (s *Store) SetAdditionalMetadata(fields []domain.MetadataField) {
	_ = s.update(ReasonAdditionalMetadata, func(st *domain.RootState) error {
		var added []domain.MetadataField
		for _, f := range fields {
			exists := false
			for _, cur := range st.AdditionalMetadata {
				if cur.Value == f.Value {
					exists = true
					break
				}
			}
			if !exists {
				added = append(added, f)
			}
		}
		st.AdditionalMetadata = append(st.AdditionalMetadata, added...)
		return nil
	})
}

// SetItemAmount sets the pending split amount.
func (s *Store) SetItemAmount(n int) {
	_ = s.update(ReasonItemAmount, func(st *domain.RootState) error {
		st.ItemAmount = n
		return nil
	})
}

// SetShiftPressed records the shift modifier.
func (s *Store) SetShiftPressed(pressed bool) {
	_ = s.update(ReasonShiftPressed, func(st *domain.RootState) error {
		st.ShiftPressed = pressed
		return nil
	})
}

// SetContainerWeight sets the weight of the player item whose
// metadata.container is the open right-hand inventory.
func (s *Store) SetContainerWeight(ctx context.Context, weight float64) {
	_ = s.update(ReasonContainerWeight, func(st *domain.RootState) error {
		for i := range st.Left.Items {
			item := &st.Left.Items[i]
			if id, ok := item.ContainerID(); ok && id == string(st.Right.ID) {
				w := weight
				item.Weight = &w
				return nil
			}
		}
		logger.FromContext(ctx).Debug(LogMsgContainerNotFound, "container", st.Right.ID)
		return nil
	})
}

// SetVisible shows or hides the inventory.
func (s *Store) SetVisible(visible bool) {
	_ = s.update(ReasonVisibility, func(st *domain.RootState) error {
		st.Visible = visible
		return nil
	})
}

// ToggleHotbar flips the hotbar and returns the new visibility.
func (s *Store) ToggleHotbar() bool {
	var visible bool
	_ = s.update(ReasonHotbar, func(st *domain.RootState) error {
		st.HotbarVisible = !st.HotbarVisible
		visible = st.HotbarVisible
		return nil
	})
	return visible
}

// SetHotbarVisible sets the hotbar visibility.
func (s *Store) SetHotbarVisible(visible bool) {
	_ = s.update(ReasonHotbar, func(st *domain.RootState) error {
		st.HotbarVisible = visible
		return nil
	})
}

// CloseRight clears the right-hand, container and crafting storage
// inventories.
func (s *Store) CloseRight() {
	_ = s.update(ReasonClose, func(st *domain.RootState) error {
		st.Right = domain.EmptyInventory()
		st.Container = nil
		st.Crafting = nil
		return nil
	})
}

// Reset returns the store to its initial state. Listeners are kept.
func (s *Store) Reset() {
	_ = s.update(ReasonReset, func(st *domain.RootState) error {
		*st = domain.NewRootState()
		s.tx = nil
		return nil
	})
}
