package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/InventoryHUD_Go/internal/crafting"
	"github.com/osse101/InventoryHUD_Go/internal/dispatch"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

type fakeStore struct {
	shift  bool
	amount int
}

func (f *fakeStore) Snapshot() domain.RootState {
	return domain.RootState{Inventories: f.Inventories(), ItemAmount: f.amount}
}
func (f *fakeStore) Inventories() domain.Inventories {
	return domain.Inventories{Left: domain.Inventory{ID: "player", Type: domain.InventoryPlayer}, Right: domain.EmptyInventory()}
}
func (f *fakeStore) SetShiftPressed(pressed bool) { f.shift = pressed }
func (f *fakeStore) SetItemAmount(n int)          { f.amount = n }

type fakeDropper struct {
	sources []transfer.Ref
}

func (f *fakeDropper) Drop(_ context.Context, source transfer.Ref, _ *transfer.Ref) (*dispatch.Pending, error) {
	f.sources = append(f.sources, source)
	return dispatch.Settled(transfer.RouteTransfer, nil), nil
}

func (f *fakeDropper) Split(_ context.Context, source transfer.Ref, _ int) (*dispatch.Pending, error) {
	f.sources = append(f.sources, source)
	return dispatch.Settled(transfer.RouteTransfer, nil), nil
}

type fakeCrafting struct {
	cancelled []int
}

func (f *fakeCrafting) QueueRecipe(context.Context, domain.Slot, int) error { return nil }
func (f *fakeCrafting) Cancel(_ context.Context, index int) error {
	f.cancelled = append(f.cancelled, index)
	return nil
}
func (f *fakeCrafting) Status() crafting.Status { return crafting.Status{} }

type fakeShop struct{}

func (fakeShop) AddToCart(context.Context, domain.Slot) error      { return nil }
func (fakeShop) ChangeQuantity(context.Context, string, int) error { return nil }
func (fakeShop) RemoveFromCart(context.Context, string) error      { return nil }
func (fakeShop) Cart() economy.CartView                            { return economy.CartView{Items: []economy.CartItem{}} }
func (fakeShop) Checkout(context.Context, domain.PayMethod) error  { return nil }

type fakeSession struct {
	injected []string
}

func (f *fakeSession) Inject(_ context.Context, action string, _ json.RawMessage, _ string) error {
	f.injected = append(f.injected, action)
	return nil
}
func (f *fakeSession) Locale() map[string]string                          { return nil }
func (f *fakeSession) ImagePath() string                                  { return "nui://hud/images" }
func (f *fakeSession) PhoneKey(context.Context) string                    { return "M" }
func (f *fakeSession) RemoveComponent(context.Context, string, int) error { return nil }
func (f *fakeSession) RemoveAmmo(context.Context, int) error              { return nil }
func (f *fakeSession) UseButton(context.Context, int, int) error          { return nil }

type fakeHealth struct{ err error }

func (f fakeHealth) CheckHealth(context.Context) error { return f.err }

type routerFixture struct {
	router   http.Handler
	store    *fakeStore
	dropper  *fakeDropper
	crafting *fakeCrafting
	session  *fakeSession
}

func newRouterFixture(t *testing.T, apiKey string) *routerFixture {
	t.Helper()
	f := &routerFixture{
		store:    &fakeStore{},
		dropper:  &fakeDropper{},
		crafting: &fakeCrafting{},
		session:  &fakeSession{},
	}
	f.router = newRouter(Options{
		APIKey:     apiKey,
		RateLimit:  1000,
		RateWindow: time.Minute,
		BridgeMode: "stub",
		Clock:      clockwork.NewFakeClock(),
	}, Deps{
		Store:    f.store,
		Dropper:  f.dropper,
		Crafting: f.crafting,
		Shop:     fakeShop{},
		Session:  f.session,
		Health:   fakeHealth{},
		Events: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	})
	return f
}

func (f *routerFixture) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	f := newRouterFixture(t, "")

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{"GET", "/healthz", "", http.StatusOK},
		{"GET", "/readyz", "", http.StatusOK},
		{"GET", "/version", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/state", "", http.StatusOK},
		{"GET", "/events", "", http.StatusNoContent},
		{"POST", "/nui/closeInventory", "{}", http.StatusAccepted},
		{"POST", "/actions/drop", `{"source":{"inventory":"player","slot":1},"shift":true,"amount":3}`, http.StatusOK},
		{"POST", "/actions/split", `{"source":{"inventory":"player","slot":2},"amount":1}`, http.StatusOK},
		{"POST", "/actions/craft", `{"recipe":"lockpick"}`, http.StatusAccepted},
		{"POST", "/actions/craft/2/cancel", "", http.StatusOK},
		{"POST", "/actions/cart", `{"action":"remove","key":"water1"}`, http.StatusOK},
		{"POST", "/actions/checkout", `{"method":"cash"}`, http.StatusOK},
		{"POST", "/actions/context", `{"action":"removeAmmo","slot":1}`, http.StatusAccepted},
		{"GET", "/actions/drop", "", http.StatusMethodNotAllowed},
		{"GET", "/nowhere", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, []string{"closeInventory"}, f.session.injected)
	assert.Equal(t, []int{2}, f.crafting.cancelled)
	assert.True(t, f.store.shift, "drop records the shift modifier")
	assert.Equal(t, 3, f.store.amount)
	require.Len(t, f.dropper.sources, 2)
	assert.Equal(t, transfer.Ref{Inventory: domain.InventoryPlayer, Slot: 2}, f.dropper.sources[1])
}

func TestRouter_RequiresKey(t *testing.T) {
	f := newRouterFixture(t, "hud-secret")

	assert.Equal(t, http.StatusUnauthorized, f.do("GET", "/state", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do("GET", "/state", "", map[string]string{HeaderAPIKey: "hud-secret"}).Code)
	assert.Equal(t, http.StatusNoContent, f.do("GET", "/events?key=hud-secret", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do("GET", "/healthz", "", nil).Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	f := newRouterFixture(t, "")
	rec := f.do("GET", "/healthz", "", nil)

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, expected := range expectedHeaders {
		assert.Equal(t, expected, rec.Header().Get(header), header)
	}
}

func TestRouter_RejectsOversizedBody(t *testing.T) {
	f := newRouterFixture(t, "")
	body := `{"recipe":"` + string(bytes.Repeat([]byte("a"), maxRequestBytes)) + `"}`

	rec := f.do("POST", "/actions/craft", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	var w http.ResponseWriter = rw
	flusher, ok := w.(http.Flusher)
	require.True(t, ok)
	flusher.Flush()
	assert.True(t, rec.Flushed)
}
