// Package dispatch turns renderer drop intents into optimistic transfers and
// settles them against the host.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/osse101/InventoryHUD_Go/internal/crafting"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
	"github.com/osse101/InventoryHUD_Go/internal/state"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

// Confirmer is the part of the host a transfer needs.
type Confirmer interface {
	ValidateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResult, error)
	GetSettings(ctx context.Context) (domain.Settings, error)
}

// Buyer receives items dragged out of a shop.
type Buyer interface {
	AddToCart(ctx context.Context, item domain.Slot) error
}

// Crafter receives recipes dragged off a crafting bench.
type Crafter interface {
	QueueRecipe(ctx context.Context, item domain.Slot, quantity int) error
}

// Pending tracks one drop until the host has answered.
type Pending struct {
	Route transfer.Route
	Plan  transfer.Plan

	tx    state.TxID
	done  chan struct{}
	err   error
	audio bool
}

func newPending(route transfer.Route) *Pending {
	return &Pending{Route: route, done: make(chan struct{})}
}

// Settled returns a Pending that is already done with err. Routes that never
// reach the host settle this way.
func Settled(route transfer.Route, err error) *Pending {
	p := newPending(route)
	p.finish(err, false)
	return p
}

func (p *Pending) finish(err error, audio bool) {
	p.err = err
	p.audio = audio
	close(p.done)
}

// Done is closed once the drop is settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err is the settlement error. It is only meaningful after Done.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Audio reports whether the drag sound should play. It is only meaningful
// after Done.
func (p *Pending) Audio() bool {
	select {
	case <-p.done:
		return p.audio
	default:
		return false
	}
}

// Wait blocks until the drop settles or ctx ends.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatcher owns the drop and split flows.
type Dispatcher struct {
	store   *state.Store
	planner *transfer.Planner
	host    Confirmer
	buyer   Buyer
	crafter Crafter

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. buyer and crafter may be nil, in which
// case shop and bench drops are refused.
func NewDispatcher(store *state.Store, planner *transfer.Planner, host Confirmer, buyer Buyer, crafter Crafter) *Dispatcher {
	return &Dispatcher{
		store:   store,
		planner: planner,
		host:    host,
		buyer:   buyer,
		crafter: crafter,
	}
}

// Wait blocks until every in-flight confirmation has settled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Drop handles a drag from source onto target. A nil target asks for the
// default destination. Local rejections return an error and change nothing;
// host rejections surface through the returned Pending after rollback.
func (d *Dispatcher) Drop(ctx context.Context, source transfer.Ref, target *transfer.Ref) (*Pending, error) {
	log := logger.FromContext(ctx)

	if d.store.IsBusy() {
		return nil, d.reject(ctx, domain.ErrBusy)
	}

	var targetType domain.InventoryType
	if target != nil {
		targetType = target.Inventory
	}
	route, err := transfer.RouteFor(source.Inventory, targetType)
	if err != nil {
		return nil, d.reject(ctx, err)
	}

	switch route {
	case transfer.RouteBuy:
		item, err := d.sourceSlot(source)
		if err != nil {
			return nil, d.reject(ctx, err)
		}
		if d.buyer == nil {
			return nil, d.reject(ctx, fmt.Errorf("%w: no cart", domain.ErrDropNotAllowed))
		}
		log.Debug(LogMsgRoutedToCart, "item", item.Name, "slot", item.Slot)
		return Settled(route, d.buyer.AddToCart(ctx, item)), nil

	case transfer.RouteCraft:
		item, err := d.sourceSlot(source)
		if err != nil {
			return nil, d.reject(ctx, err)
		}
		if d.crafter == nil {
			return nil, d.reject(ctx, fmt.Errorf("%w: no crafting queue", domain.ErrDropNotAllowed))
		}
		if !crafting.CanCraftItem(d.store.Inventories(), item, source.Inventory) {
			return nil, d.reject(ctx, fmt.Errorf("%w: %s", domain.ErrInsufficientMaterials, item.Name))
		}
		quantity := d.store.ItemAmount()
		if quantity < 1 {
			quantity = 1
		}
		log.Debug(LogMsgRoutedToCraft, "recipe", item.Name, "quantity", quantity)
		return Settled(route, d.crafter.QueueRecipe(ctx, item, quantity)), nil
	}

	return d.transfer(ctx, source, target)
}

func (d *Dispatcher) transfer(ctx context.Context, source transfer.Ref, target *transfer.Ref) (*Pending, error) {
	req := transfer.Request{
		Source:       source,
		Target:       target,
		ShiftPressed: d.store.ShiftPressed(),
		ItemAmount:   d.store.ItemAmount(),
	}

	plan, id, err := d.store.BeginTransfer(func(inv *domain.Inventories) (transfer.Plan, error) {
		return d.planner.Plan(ctx, inv, req)
	})
	if err != nil {
		return nil, d.reject(ctx, err)
	}

	metrics.TransfersTotal.WithLabelValues(plan.Kind.String()).Inc()
	logger.FromContext(ctx).Debug(LogMsgTransferApplied,
		"kind", plan.Kind.String(),
		"from", plan.Source.Slot,
		"to", plan.Target.Slot,
		"count", plan.Count)

	p := newPending(transfer.RouteTransfer)
	p.Plan = plan
	p.tx = id

	d.wg.Add(1)
	go d.confirm(context.WithoutCancel(ctx), p)
	return p, nil
}

// confirm settles p against the host. The store lock is never held here.
func (d *Dispatcher) confirm(ctx context.Context, p *Pending) {
	defer d.wg.Done()
	log := logger.FromContext(ctx)

	var settleErr error
	res, err := d.host.ValidateMove(ctx, p.Plan.MoveRequest())
	switch {
	case err != nil:
		settleErr = fmt.Errorf("%w: %w", domain.ErrMoveRejected, err)
	case !res.Accepted:
		settleErr = domain.ErrMoveRejected
	}

	if settleErr != nil {
		log.Info(LogMsgMoveRejected, "error", settleErr)
		if d.store.Rejected(ctx, p.tx) {
			metrics.RollbacksTotal.Inc()
		}
	} else {
		log.Debug(LogMsgMoveConfirmed)
		if d.store.Fulfilled(ctx, p.tx) && res.ContainerWeight != nil {
			d.store.SetContainerWeight(ctx, *res.ContainerWeight)
		}
	}

	audio := true
	if settings, err := d.host.GetSettings(ctx); err != nil {
		log.Debug(LogMsgSettingsFailed, "error", err)
	} else {
		audio = settings.AudioEnabled()
	}

	p.finish(settleErr, audio)
}

// Split moves amount items out of the stack at source into a free slot of the
// same inventory, or onto a matching stack when none is free. With neither it
// does nothing and returns domain.ErrTargetSlotUndefined.
func (d *Dispatcher) Split(ctx context.Context, source transfer.Ref, amount int) (*Pending, error) {
	item, err := d.sourceSlot(source)
	if err != nil {
		return nil, d.reject(ctx, err)
	}
	if amount <= 0 || amount >= item.CountValue(0) {
		return nil, d.reject(ctx, fmt.Errorf("%w: split %d of %d", domain.ErrInvalidInput, amount, item.CountValue(0)))
	}

	d.store.SetItemAmount(amount)
	defer d.store.SetItemAmount(0)

	inv := d.store.Inventories()
	if src := inv.Resolve(source.Inventory); src != nil {
		if target, ok := splitTarget(item, source.Inventory, src.Items); ok {
			return d.Drop(ctx, source, &transfer.Ref{Inventory: source.Inventory, Slot: target})
		}
	}

	logger.FromContext(ctx).Debug(LogMsgSplitNoTarget, "slot", source.Slot)
	return nil, d.reject(ctx, fmt.Errorf("%w: no room to split slot %d", domain.ErrTargetSlotUndefined, source.Slot))
}

// splitTarget prefers the first free slot, then a stack of the same item. Only
// the player inventory has utility slots to skip.
func splitTarget(item domain.Slot, invType domain.InventoryType, candidates []domain.Slot) (int, bool) {
	usable := func(c domain.Slot) bool {
		if c.Slot == item.Slot {
			return false
		}
		return invType != domain.InventoryPlayer || !domain.IsUtilitySlot(c.Slot)
	}

	for _, c := range candidates {
		if usable(c) && c.Name == "" {
			return c.Slot, true
		}
	}

	if !stackable(item) {
		return 0, false
	}
	for _, c := range candidates {
		if usable(c) && c.Name == item.Name && domain.MetadataEqual(c.Metadata, item.Metadata) {
			return c.Slot, true
		}
	}
	return 0, false
}

// stackable follows the slot's own stack flag, falling back to its count.
func stackable(item domain.Slot) bool {
	if v, ok := item.Metadata.Bool(domain.MetaStack); ok {
		return v
	}
	return item.CountValue(1) > 1
}

func (d *Dispatcher) sourceSlot(source transfer.Ref) (domain.Slot, error) {
	inv := d.store.Inventories()
	src := inv.Resolve(source.Inventory)
	if src == nil {
		return domain.Slot{}, fmt.Errorf("%w: %s", domain.ErrInventoryGone, source.Inventory)
	}
	slot := src.SlotAt(source.Slot)
	if slot == nil || slot.Name == "" {
		return domain.Slot{}, fmt.Errorf("%w: slot %d", domain.ErrSourceSlotUndefined, source.Slot)
	}
	return *slot, nil
}

func (d *Dispatcher) reject(ctx context.Context, err error) error {
	metrics.TransferRejections.WithLabelValues(rejectionReason(err)).Inc()
	logger.FromContext(ctx).Debug(LogMsgDropRejected, "error", err)
	return err
}

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrBusy, ReasonBusy},
	{domain.ErrDropNotAllowed, ReasonDropNotAllowed},
	{domain.ErrSourceSlotUndefined, ReasonSourceUndefined},
	{domain.ErrTargetSlotUndefined, ReasonTargetUndefined},
	{domain.ErrSameSlot, ReasonSameSlot},
	{domain.ErrUtilitySlot, ReasonUtilitySlot},
	{domain.ErrContainerInContainer, ReasonContainer},
	{domain.ErrContainerOpen, ReasonContainer},
	{domain.ErrInventoryGone, ReasonInventoryGone},
	{domain.ErrInsufficientMaterials, ReasonInsufficientMaterials},
}

func rejectionReason(err error) string {
	for _, r := range rejectionReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonOther
}
