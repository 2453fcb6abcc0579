package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/InventoryHUD_Go/internal/crafting"
	"github.com/osse101/InventoryHUD_Go/internal/dispatch"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

type MockDropper struct {
	mock.Mock
}

func (m *MockDropper) Drop(ctx context.Context, source transfer.Ref, target *transfer.Ref) (*dispatch.Pending, error) {
	args := m.Called(ctx, source, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Pending), args.Error(1)
}

func (m *MockDropper) Split(ctx context.Context, source transfer.Ref, amount int) (*dispatch.Pending, error) {
	args := m.Called(ctx, source, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Pending), args.Error(1)
}

type MockModifiers struct {
	mock.Mock
}

func (m *MockModifiers) SetShiftPressed(pressed bool) {
	m.Called(pressed)
}

func (m *MockModifiers) SetItemAmount(n int) {
	m.Called(n)
}

type MockCraftQueue struct {
	mock.Mock
}

func (m *MockCraftQueue) QueueRecipe(ctx context.Context, item domain.Slot, quantity int) error {
	args := m.Called(ctx, item, quantity)
	return args.Error(0)
}

func (m *MockCraftQueue) Cancel(ctx context.Context, index int) error {
	args := m.Called(ctx, index)
	return args.Error(0)
}

func (m *MockCraftQueue) Status() crafting.Status {
	args := m.Called()
	return args.Get(0).(crafting.Status)
}

type MockShop struct {
	mock.Mock
}

func (m *MockShop) AddToCart(ctx context.Context, item domain.Slot) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShop) ChangeQuantity(ctx context.Context, key string, delta int) error {
	args := m.Called(ctx, key, delta)
	return args.Error(0)
}

func (m *MockShop) RemoveFromCart(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockShop) Cart() economy.CartView {
	args := m.Called()
	return args.Get(0).(economy.CartView)
}

func (m *MockShop) Checkout(ctx context.Context, method domain.PayMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

type MockContextActions struct {
	mock.Mock
}

func (m *MockContextActions) RemoveComponent(ctx context.Context, component string, slot int) error {
	args := m.Called(ctx, component, slot)
	return args.Error(0)
}

func (m *MockContextActions) RemoveAmmo(ctx context.Context, slot int) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockContextActions) UseButton(ctx context.Context, index, slot int) error {
	args := m.Called(ctx, index, slot)
	return args.Error(0)
}

type MockInjector struct {
	mock.Mock
}

func (m *MockInjector) Inject(ctx context.Context, action string, data json.RawMessage, source string) error {
	args := m.Called(ctx, action, data, source)
	return args.Error(0)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fixedInventories serves a canned bundle
type fixedInventories domain.Inventories

func (f fixedInventories) Inventories() domain.Inventories {
	return domain.Inventories(f)
}

type fixedState domain.RootState

func (f fixedState) Snapshot() domain.RootState {
	return domain.RootState(f)
}

type fixedSession struct {
	locale    map[string]string
	imagePath string
	phoneKey  string
}

func (s fixedSession) Locale() map[string]string       { return s.locale }
func (s fixedSession) ImagePath() string               { return s.imagePath }
func (s fixedSession) PhoneKey(context.Context) string { return s.phoneKey }
