package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// Stub stands in for the host when the HUD runs without one. It accepts
// everything and remembers the calls it saw.
type Stub struct {
	mu    sync.Mutex
	calls []string
}

// NewStub creates a stub host
func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) record(ctx context.Context, name string, args ...any) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
	logger.FromContext(ctx).Debug(LogMsgStubCall, append([]any{"request", name}, args...)...)
}

// Calls returns the request names seen so far, oldest first.
func (s *Stub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Stub) UILoaded(ctx context.Context) error {
	s.record(ctx, CallUILoaded)
	return nil
}

// FetchSlotRestrictions returns no table, which leaves every slot open.
func (s *Stub) FetchSlotRestrictions(ctx context.Context) (json.RawMessage, error) {
	s.record(ctx, CallFetchSlotRestrictions)
	return nil, nil
}

func (s *Stub) GetItemData(ctx context.Context, name string) (*domain.ItemData, error) {
	s.record(ctx, CallGetItemData, "name", name)
	return nil, nil
}

func (s *Stub) GetSettings(ctx context.Context) (domain.Settings, error) {
	s.record(ctx, CallGetSettings)
	audio := true
	return domain.Settings{Audio: &audio}, nil
}

func (s *Stub) RemoveComponent(ctx context.Context, component string, slot int) error {
	s.record(ctx, CallRemoveComponent, "component", component, "slot", slot)
	return nil
}

func (s *Stub) RemoveAmmo(ctx context.Context, slot int) error {
	s.record(ctx, CallRemoveAmmo, "slot", slot)
	return nil
}

func (s *Stub) UseButton(ctx context.Context, id, slot int) error {
	s.record(ctx, CallUseButton, "id", id, "slot", slot)
	return nil
}

func (s *Stub) BuyItems(ctx context.Context, items []domain.PurchaseLine, method domain.PayMethod) error {
	s.record(ctx, CallBuyItems, "lines", len(items), "method", method)
	return nil
}

func (s *Stub) CraftFromCraftingInventory(ctx context.Context, benchID domain.InventoryID, recipeID, quantity int) (domain.CraftResult, error) {
	s.record(ctx, CallCraftFromCraftingInventory, "bench", benchID, "recipe", recipeID, "quantity", quantity)
	return domain.CraftResult{Success: true}, nil
}

func (s *Stub) StartCraftQueue(ctx context.Context, benchID domain.InventoryID, queue []domain.CraftHandoffEntry) error {
	s.record(ctx, CallStartCraftQueue, "bench", benchID, "entries", len(queue))
	return nil
}

func (s *Stub) ValidateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResult, error) {
	s.record(ctx, CallSwapItems, "from", req.FromSlot, "to", req.ToSlot)
	return domain.MoveResult{Accepted: true}, nil
}

func (s *Stub) GetPhoneKey(ctx context.Context) (string, error) {
	s.record(ctx, CallGetPhoneKey)
	return DefaultPhoneKey, nil
}

// CheckHealth always succeeds.
func (s *Stub) CheckHealth(ctx context.Context) error {
	return nil
}

var _ Host = (*Stub)(nil)
