package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/InventoryHUD_Go/internal/dispatch"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestHandleDrop(t *testing.T) {
	player := transfer.Ref{Inventory: domain.InventoryPlayer, Slot: 10}
	shop := transfer.Ref{Inventory: domain.InventoryShop, Slot: 1}

	tests := []struct {
		name       string
		body       interface{}
		setup      func(d *MockDropper, mods *MockModifiers)
		wantStatus int
		check      func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name: "Settled transfer",
			body: DropRequest{Source: SlotRef{Inventory: "player", Slot: 10}},
			setup: func(d *MockDropper, _ *MockModifiers) {
				d.On("Drop", mock.Anything, player, (*transfer.Ref)(nil)).
					Return(dispatch.Settled(transfer.RouteTransfer, nil), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[DropResponse](t, w)
				assert.Equal(t, "transfer", resp.Route)
				assert.Equal(t, "move", resp.Kind)
				assert.True(t, resp.Settled)
				assert.Empty(t, resp.Error)
			},
		},
		{
			name: "Buy route with modifiers",
			body: map[string]interface{}{
				"source": map[string]interface{}{"inventory": "shop", "slot": 1},
				"target": map[string]interface{}{"inventory": "player", "slot": 3},
				"shift":  true,
				"amount": 5,
			},
			setup: func(d *MockDropper, mods *MockModifiers) {
				mods.On("SetShiftPressed", true).Once()
				mods.On("SetItemAmount", 5).Once()
				target := &transfer.Ref{Inventory: domain.InventoryPlayer, Slot: 3}
				d.On("Drop", mock.Anything, shop, target).
					Return(dispatch.Settled(transfer.RouteBuy, nil), nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[DropResponse](t, w)
				assert.Equal(t, "buy", resp.Route)
				assert.Empty(t, resp.Kind, "only transfers carry a kind")
			},
		},
		{
			name: "Settled with rejection",
			body: DropRequest{Source: SlotRef{Inventory: "player", Slot: 10}},
			setup: func(d *MockDropper, _ *MockModifiers) {
				d.On("Drop", mock.Anything, player, (*transfer.Ref)(nil)).
					Return(dispatch.Settled(transfer.RouteTransfer, domain.ErrMoveRejected), nil)
			},
			wantStatus: http.StatusConflict,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[DropResponse](t, w)
				assert.True(t, resp.Settled)
				assert.Equal(t, ErrMsgMoveRejectedError, resp.Error)
			},
		},
		{
			name: "Busy",
			body: DropRequest{Source: SlotRef{Inventory: "player", Slot: 10}},
			setup: func(d *MockDropper, _ *MockModifiers) {
				d.On("Drop", mock.Anything, player, (*transfer.Ref)(nil)).Return(nil, domain.ErrBusy)
			},
			wantStatus: http.StatusConflict,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), ErrMsgBusyError)
			},
		},
		{
			name:       "Missing inventory",
			body:       DropRequest{Source: SlotRef{Slot: 10}},
			setup:      func(*MockDropper, *MockModifiers) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeBody[ValidationErrorResponse](t, w)
				assert.Equal(t, "This field is required", resp.Fields["inventory"])
			},
		},
		{
			name:       "Malformed body",
			body:       "{not json",
			setup:      func(*MockDropper, *MockModifiers) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &MockDropper{}
			mods := &MockModifiers{}
			tt.setup(d, mods)

			w := httptest.NewRecorder()
			HandleDrop(d, mods).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/drop", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				tt.check(t, w)
			}
			d.AssertExpectations(t)
			mods.AssertExpectations(t)
		})
	}
}

func TestHandleDrop_UnsettledIsAccepted(t *testing.T) {
	// never settles
	d := &MockDropper{}
	pending := &dispatch.Pending{Route: transfer.RouteTransfer}
	d.On("Drop", mock.Anything, mock.Anything, mock.Anything).Return(pending, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := newJSONRequest(t, "POST", "/actions/drop?wait=true", DropRequest{Source: SlotRef{Inventory: "player", Slot: 1}}).WithContext(ctx)
	w := httptest.NewRecorder()

	HandleDrop(d, &MockModifiers{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.False(t, decodeBody[DropResponse](t, w).Settled)
}

func TestHandleSplit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		d := &MockDropper{}
		source := transfer.Ref{Inventory: domain.InventoryPlayer, Slot: 4}
		d.On("Split", mock.Anything, source, 3).Return(dispatch.Settled(transfer.RouteTransfer, nil), nil)

		w := httptest.NewRecorder()
		HandleSplit(d).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/split", SplitRequest{
			Source: SlotRef{Inventory: "player", Slot: 4},
			Amount: 3,
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		d.AssertExpectations(t)
	})

	t.Run("Zero amount", func(t *testing.T) {
		d := &MockDropper{}
		w := httptest.NewRecorder()
		HandleSplit(d).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/split", SplitRequest{
			Source: SlotRef{Inventory: "player", Slot: 4},
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody[ValidationErrorResponse](t, w).Fields, "amount")
		d.AssertNotCalled(t, "Split", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleCraft(t *testing.T) {
	tests := []struct {
		name       string
		body       CraftRequest
		wantQty    int
		err        error
		wantStatus int
	}{
		{"Quantity defaults to one", CraftRequest{Recipe: "lockpick"}, 1, nil, http.StatusAccepted},
		{"Explicit quantity", CraftRequest{Recipe: "lockpick", Quantity: 4}, 4, nil, http.StatusAccepted},
		{"Not enough materials", CraftRequest{Recipe: "lockpick", Quantity: 2}, 2, domain.ErrInsufficientMaterials, http.StatusUnprocessableEntity},
		{"Unknown recipe", CraftRequest{Recipe: "rocket"}, 1, domain.ErrRecipeNotFound, http.StatusNotFound},
		{"No bench", CraftRequest{Recipe: "lockpick"}, 1, domain.ErrNotCraftingBench, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &MockCraftQueue{}
			q.On("QueueRecipe", mock.Anything, domain.Slot{Name: tt.body.Recipe}, tt.wantQty).Return(tt.err)

			w := httptest.NewRecorder()
			HandleCraft(q).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/craft", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			q.AssertExpectations(t)
		})
	}
}

func TestHandleCraft_QuantityOutOfRange(t *testing.T) {
	q := &MockCraftQueue{}
	w := httptest.NewRecorder()
	HandleCraft(q).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/craft", CraftRequest{Recipe: "lockpick", Quantity: 5000}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Must be at most 1000", decodeBody[ValidationErrorResponse](t, w).Fields["quantity"])
}

func TestHandleCancelCraft(t *testing.T) {
	tests := []struct {
		name       string
		index      string
		setup      func(q *MockCraftQueue)
		wantStatus int
	}{
		{"Cancels entry", "1", func(q *MockCraftQueue) { q.On("Cancel", mock.Anything, 1).Return(nil) }, http.StatusOK},
		{"Missing entry", "7", func(q *MockCraftQueue) { q.On("Cancel", mock.Anything, 7).Return(domain.ErrQueueIndex) }, http.StatusNotFound},
		{"Not a number", "first", func(*MockCraftQueue) {}, http.StatusBadRequest},
		{"Negative", "-1", func(*MockCraftQueue) {}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &MockCraftQueue{}
			tt.setup(q)

			req := withURLParam(httptest.NewRequest("POST", "/actions/craft/"+tt.index+"/cancel", nil), URLParamIndex, tt.index)
			w := httptest.NewRecorder()
			HandleCancelCraft(q).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			q.AssertExpectations(t)
		})
	}
}

func shopInventories() fixedInventories {
	price := 25.0
	return fixedInventories{
		Right: domain.Inventory{
			ID:    "shop-1",
			Type:  domain.InventoryShop,
			Slots: 2,
			Items: domain.SlotList{{Slot: 1, Name: "water", Price: &price}, {Slot: 2}},
		},
	}
}

func TestHandleCart(t *testing.T) {
	cart := economy.CartView{Items: []economy.CartItem{{Key: "water1", Name: "Water", Price: 25, Quantity: 1}}, Total: 25}

	tests := []struct {
		name       string
		inv        fixedInventories
		body       CartRequest
		setup      func(s *MockShop)
		wantStatus int
	}{
		{
			name: "Add shop slot",
			inv:  shopInventories(),
			body: CartRequest{Action: CartActionAdd, Slot: 1},
			setup: func(s *MockShop) {
				s.On("AddToCart", mock.Anything, mock.MatchedBy(func(item domain.Slot) bool {
					return item.Name == "water" && item.Slot == 1
				})).Return(nil)
				s.On("Cart").Return(cart)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Add empty slot",
			inv:        shopInventories(),
			body:       CartRequest{Action: CartActionAdd, Slot: 2},
			setup:      func(*MockShop) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Add without a shop open",
			inv:        fixedInventories{Right: domain.EmptyInventory()},
			body:       CartRequest{Action: CartActionAdd, Slot: 1},
			setup:      func(*MockShop) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "Not purchasable",
			inv:  shopInventories(),
			body: CartRequest{Action: CartActionAdd, Slot: 1},
			setup: func(s *MockShop) {
				s.On("AddToCart", mock.Anything, mock.Anything).Return(domain.ErrNotPurchasable)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "Change quantity",
			body: CartRequest{Action: CartActionChange, Key: "water1", Delta: -1},
			setup: func(s *MockShop) {
				s.On("ChangeQuantity", mock.Anything, "water1", -1).Return(nil)
				s.On("Cart").Return(economy.CartView{Items: []economy.CartItem{}})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Remove unknown key",
			body: CartRequest{Action: CartActionRemove, Key: "bread4"},
			setup: func(s *MockShop) {
				s.On("RemoveFromCart", mock.Anything, "bread4").Return(domain.ErrCartItemNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Remove without key",
			body:       CartRequest{Action: CartActionRemove},
			setup:      func(*MockShop) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Change without delta",
			body:       CartRequest{Action: CartActionChange, Key: "water1"},
			setup:      func(*MockShop) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Unknown action",
			body:       CartRequest{Action: "empty"},
			setup:      func(*MockShop) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MockShop{}
			tt.setup(s)

			w := httptest.NewRecorder()
			HandleCart(s, tt.inv).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/cart", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			s.AssertExpectations(t)
		})
	}
}

func TestHandleCart_ReturnsCart(t *testing.T) {
	s := &MockShop{}
	s.On("AddToCart", mock.Anything, mock.Anything).Return(nil)
	s.On("Cart").Return(economy.CartView{Items: []economy.CartItem{{Key: "water1", Quantity: 2, Price: 25}}, Total: 50})

	w := httptest.NewRecorder()
	HandleCart(s, shopInventories()).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/cart", CartRequest{Action: CartActionAdd, Slot: 1}))

	require.Equal(t, http.StatusOK, w.Code)
	view := decodeBody[economy.CartView](t, w)
	assert.InDelta(t, 50.0, view.Total, 0.001)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "water1", view.Items[0].Key)
}

func TestHandleCheckout(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		setup      func(s *MockShop)
		wantStatus int
	}{
		{"Cash", "cash", func(s *MockShop) { s.On("Checkout", mock.Anything, domain.PayCash).Return(nil) }, http.StatusOK},
		{"Bank upper case", "BANK", func(s *MockShop) { s.On("Checkout", mock.Anything, domain.PayBank).Return(nil) }, http.StatusOK},
		{"Empty cart", "cash", func(s *MockShop) { s.On("Checkout", mock.Anything, domain.PayCash).Return(domain.ErrCartEmpty) }, http.StatusUnprocessableEntity},
		{"Host down", "cash", func(s *MockShop) { s.On("Checkout", mock.Anything, domain.PayCash).Return(domain.ErrBridgeNotConnected) }, http.StatusServiceUnavailable},
		{"Crypto", "crypto", func(*MockShop) {}, http.StatusBadRequest},
		{"Missing", "", func(*MockShop) {}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MockShop{}
			tt.setup(s)

			w := httptest.NewRecorder()
			HandleCheckout(s).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/checkout", CheckoutRequest{Method: tt.method}))

			assert.Equal(t, tt.wantStatus, w.Code)
			s.AssertExpectations(t)
		})
	}
}

func TestHandleContextAction(t *testing.T) {
	tests := []struct {
		name       string
		body       ContextRequest
		setup      func(a *MockContextActions)
		wantStatus int
	}{
		{
			name:       "Remove component",
			body:       ContextRequest{Action: ContextRemoveComponent, Slot: 2, Component: "at_suppressor"},
			setup:      func(a *MockContextActions) { a.On("RemoveComponent", mock.Anything, "at_suppressor", 2).Return(nil) },
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "Remove component without name",
			body:       ContextRequest{Action: ContextRemoveComponent, Slot: 2},
			setup:      func(*MockContextActions) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Remove ammo",
			body:       ContextRequest{Action: ContextRemoveAmmo, Slot: 5},
			setup:      func(a *MockContextActions) { a.On("RemoveAmmo", mock.Anything, 5).Return(nil) },
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "Use button",
			body:       ContextRequest{Action: ContextUseButton, Slot: 1, Button: 0},
			setup:      func(a *MockContextActions) { a.On("UseButton", mock.Anything, 0, 1).Return(nil) },
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "Pool full",
			body:       ContextRequest{Action: ContextRemoveAmmo, Slot: 5},
			setup:      func(a *MockContextActions) { a.On("RemoveAmmo", mock.Anything, 5).Return(domain.ErrBusy) },
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Unknown action",
			body:       ContextRequest{Action: "eat", Slot: 1},
			setup:      func(*MockContextActions) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Component with control characters",
			body:       ContextRequest{Action: ContextRemoveComponent, Slot: 1, Component: "scope\n"},
			setup:      func(*MockContextActions) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &MockContextActions{}
			tt.setup(a)

			w := httptest.NewRecorder()
			HandleContextAction(a).ServeHTTP(w, newJSONRequest(t, "POST", "/actions/context", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			a.AssertExpectations(t)
		})
	}
}
