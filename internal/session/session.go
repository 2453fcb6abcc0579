// Package session applies host push events to the HUD's state and owns the
// per-session data that is not part of the inventory mirror: locale, image
// path, hotbar timer and the context-menu actions.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/InventoryHUD_Go/internal/bridge"
	"github.com/osse101/InventoryHUD_Go/internal/catalog"
	"github.com/osse101/InventoryHUD_Go/internal/crafting"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
	"github.com/osse101/InventoryHUD_Go/internal/state"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
	"github.com/osse101/InventoryHUD_Go/internal/validation"
	"github.com/osse101/InventoryHUD_Go/internal/worker"
)

// Deps holds everything a session drives.
type Deps struct {
	Store        *state.Store
	Catalog      *catalog.Cache
	Restrictions *transfer.Restrictions
	Queue        *crafting.Queue
	Shop         economy.Service
	Host         bridge.Host
	Async        *bridge.Async
	Scheduler    *worker.Scheduler
	Bus          event.Bus
	Schema       validation.SchemaValidator

	ImagePath      string
	HotbarAutoHide time.Duration
}

// Session is the HUD's lifetime between init and teardown.
type Session struct {
	deps Deps

	mu        sync.RWMutex
	locale    map[string]string
	imagePath string

	unsubscribe func()
}

// New creates a session. Call Register before pushing events.
func New(deps Deps) *Session {
	if deps.HotbarAutoHide <= 0 {
		deps.HotbarAutoHide = DefaultHotbarAutoHide
	}
	return &Session{
		deps:      deps,
		locale:    map[string]string{},
		imagePath: deps.ImagePath,
	}
}

// Register subscribes the push handlers and forwards store changes to the bus
// as StateChanged events.
func (s *Session) Register(ctx context.Context) {
	bus := s.deps.Bus
	bus.Subscribe(event.Init, s.onInit)
	bus.Subscribe(event.SetupInventory, s.onSetupInventory)
	bus.Subscribe(event.RefreshSlots, s.onRefreshSlots)
	bus.Subscribe(event.CloseInventory, s.onCloseInventory)
	bus.Subscribe(event.SetInventoryVisible, s.onSetInventoryVisible)
	bus.Subscribe(event.RefreshBackpackInventory, s.onRefreshBackpack)
	bus.Subscribe(event.DisplayMetadata, s.onDisplayMetadata)
	bus.Subscribe(event.ToggleHotbar, s.onToggleHotbar)

	notifyCtx := context.WithoutCancel(ctx)
	log := logger.FromContext(ctx)
	s.unsubscribe = s.deps.Store.Subscribe(func(reason string) {
		evt := event.New(event.StateChanged, event.StateChangedPayload{Reason: reason}, event.SourceLocal)
		if err := bus.Publish(notifyCtx, evt); err != nil {
			log.Warn(LogMsgPublishFailed, "type", event.StateChanged, "error", err)
		}
	})
}

// HandlePush is the bridge's push handler.
func (s *Session) HandlePush(ctx context.Context, action string, data json.RawMessage) {
	if err := s.Inject(ctx, action, data, event.SourceBridge); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPushRejected, "action", action, "error", err)
	}
}

// Inject decodes a push event and publishes it. Decoding failures change
// nothing.
func (s *Session) Inject(ctx context.Context, action string, data json.RawMessage, source string) error {
	t := event.Type(action)
	if !event.IsHostEvent(t) {
		return fmt.Errorf(ErrMsgUnknownEventFmt, action, domain.ErrUnknownEvent)
	}

	payload, err := s.decode(t, data)
	if err != nil {
		metrics.EventHandlerErrors.WithLabelValues(action).Inc()
		return err
	}

	logger.FromContext(ctx).Debug(LogMsgPushReceived, "type", action, "source", source)
	return s.deps.Bus.Publish(ctx, event.New(t, payload, source))
}

func (s *Session) decode(t event.Type, data json.RawMessage) (interface{}, error) {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	var (
		payload interface{}
		err     error
	)
	switch t {
	case event.Init:
		payload, err = event.DecodeAndValidate[event.InitPayload](data)
	case event.SetupInventory:
		if s.deps.Schema != nil {
			if verr := s.deps.Schema.ValidateBytes(data, validation.SchemaSetupInventory); verr != nil {
				return nil, fmt.Errorf(ErrMsgSchemaFmt, t, domain.ErrInvalidInput, verr)
			}
		}
		payload, err = event.DecodeAndValidate[event.SetupInventoryPayload](data)
	case event.RefreshSlots:
		payload, err = event.DecodeAndValidate[event.RefreshSlotsPayload](data)
	case event.SetInventoryVisible:
		payload, err = event.DecodeAndValidate[event.VisibilityPayload](data)
	case event.RefreshBackpackInventory:
		payload, err = event.DecodeAndValidate[event.BackpackPayload](data)
	case event.DisplayMetadata:
		payload, err = event.DecodeAndValidate[event.DisplayMetadataPayload](data)
	case event.CloseInventory, event.ToggleHotbar:
		return struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeEventFmt, t, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	return payload, nil
}

func (s *Session) onInit(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.InitPayload](evt.Payload)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	s.mu.Lock()
	for k, v := range p.Locale {
		s.locale[k] = v
	}
	s.imagePath = p.ImagePath
	s.mu.Unlock()

	if s.deps.Shop != nil {
		s.deps.Shop.SetImagePath(p.ImagePath)
	}
	s.deps.Catalog.Load(ctx, p.Items)
	if p.LeftInventory != nil {
		s.deps.Store.SetupLeft(*p.LeftInventory)
	}

	s.deps.Async.UILoaded(ctx)
	s.deps.Async.Go(ctx, bridge.CallFetchSlotRestrictions, func(ctx context.Context, h bridge.Host) error {
		raw, err := h.FetchSlotRestrictions(ctx)
		if err != nil {
			return err
		}
		if err := s.deps.Restrictions.Load(ctx, raw); err != nil {
			logger.FromContext(ctx).Warn(LogMsgRestrictionsFailed, "error", err)
			return err
		}
		return nil
	})

	log.Info(LogMsgInitialized, "items", len(p.Items), "locale", len(p.Locale))
	return nil
}

func (s *Session) onSetupInventory(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.SetupInventoryPayload](evt.Payload)
	if err != nil {
		return err
	}

	s.deps.Store.Setup(p)
	s.deps.Store.SetVisible(true)

	if names := state.SetupNames(p); len(names) > 0 {
		s.deps.Async.Go(ctx, callPrefetch, func(ctx context.Context, _ bridge.Host) error {
			return s.deps.Catalog.Prefetch(ctx, names)
		})
	}

	right := s.deps.Store.Inventories().Right
	switch {
	case p.RightInventory != nil && right.Type == domain.InventoryCrafting:
		s.openBench(ctx, right)
	case p.ShouldReset():
		s.handOff(ctx)
	}
	if right.Type != domain.InventoryShop && s.deps.Shop != nil {
		s.deps.Shop.ClearCart()
	}

	logger.FromContext(ctx).Debug(LogMsgInventorySetup,
		"left", p.LeftInventory != nil,
		"right", right.Type,
		"reset", p.ShouldReset())
	return nil
}

func (s *Session) onRefreshSlots(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.RefreshSlotsPayload](evt.Payload)
	if err != nil {
		return err
	}
	s.deps.Store.Refresh(ctx, p)
	for name, delta := range p.ItemCount {
		s.deps.Catalog.AddCount(ctx, name, delta)
	}
	return nil
}

func (s *Session) onCloseInventory(ctx context.Context, _ event.Event) error {
	s.handOff(ctx)
	s.deps.Store.CloseRight()
	s.deps.Store.SetVisible(false)
	if s.deps.Shop != nil {
		s.deps.Shop.ClearCart()
	}
	logger.FromContext(ctx).Debug(LogMsgInventoryClosed)
	return nil
}

// openBench binds the queue to bench. A queue still running for another bench
// is handed to the host first. Unknown recipe items are fetched in the
// background and the labels refreshed once they arrive.
func (s *Session) openBench(ctx context.Context, bench domain.Inventory) {
	queue := s.deps.Queue
	if current := queue.BenchID(); current != "" && current != bench.ID {
		s.handOff(ctx)
	}
	queue.SetBench(bench.ID, crafting.RecipesFromSlots(bench.Items, s.deps.Catalog))

	missing := crafting.MissingNames(bench.Items, s.deps.Catalog)
	if len(missing) == 0 {
		return
	}
	cat := s.deps.Catalog
	s.deps.Async.Go(ctx, callPrefetch, func(ctx context.Context, _ bridge.Host) error {
		if err := cat.Prefetch(ctx, missing); err != nil {
			return err
		}
		queue.UpdateRecipes(bench.ID, crafting.RecipesFromSlots(bench.Items, cat))
		return nil
	})
}

func (s *Session) handOff(ctx context.Context) {
	if err := s.deps.Queue.Close(ctx); err != nil {
		logger.FromContext(ctx).Warn(LogMsgHandoffFailed, "error", err)
	}
}

func (s *Session) onSetInventoryVisible(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.VisibilityPayload](evt.Payload)
	if err != nil {
		return err
	}
	s.deps.Store.SetVisible(p.Visible)
	return nil
}

func (s *Session) onRefreshBackpack(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.BackpackPayload](evt.Payload)
	if err != nil {
		return err
	}
	s.deps.Store.Setup(event.SetupInventoryPayload{BackpackInventory: p.BackpackInventory})
	return nil
}

func (s *Session) onDisplayMetadata(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.DisplayMetadataPayload](evt.Payload)
	if err != nil {
		return err
	}
	s.deps.Store.SetAdditionalMetadata(p.Fields)
	return nil
}

// onToggleHotbar hides a visible hotbar at once; showing it arms the
// auto-hide timer again.
func (s *Session) onToggleHotbar(ctx context.Context, _ event.Event) error {
	if !s.deps.Store.ToggleHotbar() {
		s.deps.Scheduler.Cancel(hotbarTaskKey)
		return nil
	}

	store := s.deps.Store
	s.deps.Scheduler.Schedule(hotbarTaskKey, s.deps.HotbarAutoHide, func(context.Context) {
		store.SetHotbarVisible(false)
	})
	logger.FromContext(ctx).Debug(LogMsgHotbarShown, "hide_after", s.deps.HotbarAutoHide)
	return nil
}

// Locale returns a copy of the strings received at init.
func (s *Session) Locale() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.locale))
	for k, v := range s.locale {
		out[k] = v
	}
	return out
}

// ImagePath is the prefix item images are resolved against.
func (s *Session) ImagePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imagePath
}

// RemoveComponent asks the host to detach component from the weapon in slot.
func (s *Session) RemoveComponent(ctx context.Context, component string, slot int) error {
	return s.queued(ctx, bridge.CallRemoveComponent, s.deps.Async.RemoveComponent(ctx, component, slot))
}

// RemoveAmmo asks the host to unload the weapon in slot.
func (s *Session) RemoveAmmo(ctx context.Context, slot int) error {
	return s.queued(ctx, bridge.CallRemoveAmmo, s.deps.Async.RemoveAmmo(ctx, slot))
}

// UseButton triggers the item's custom button. index is zero based; the host
// numbers buttons from one.
func (s *Session) UseButton(ctx context.Context, index, slot int) error {
	return s.queued(ctx, bridge.CallUseButton, s.deps.Async.UseButton(ctx, index+1, slot))
}

func (s *Session) queued(ctx context.Context, name string, ok bool) error {
	if ok {
		return nil
	}
	logger.FromContext(ctx).Debug(LogMsgContextActionDenied, "request", name)
	return fmt.Errorf("%w: %s not queued", domain.ErrBusy, name)
}

// PhoneKey returns the key bound to the phone, defaulting to M.
func (s *Session) PhoneKey(ctx context.Context) string {
	key, err := s.deps.Host.GetPhoneKey(ctx)
	if err != nil || key == "" {
		logger.FromContext(ctx).Debug(LogMsgPhoneKeyFallback, "error", err)
		return bridge.DefaultPhoneKey
	}
	return key
}

// Teardown hands off any crafting and forgets everything the host sent.
func (s *Session) Teardown(ctx context.Context) {
	s.handOff(ctx)
	s.deps.Scheduler.Cancel(hotbarTaskKey)
	if s.deps.Shop != nil {
		s.deps.Shop.ClearCart()
	}
	s.deps.Store.Reset()
	s.deps.Catalog.Reset(ctx)
	s.deps.Restrictions.Reset()

	s.mu.Lock()
	s.locale = map[string]string{}
	s.imagePath = s.deps.ImagePath
	s.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgTeardown)
}

// Close stops forwarding store changes.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
