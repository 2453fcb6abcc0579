package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/InventoryHUD_Go/internal/dispatch"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/transfer"
)

// Dropper runs drag and split intents
type Dropper interface {
	Drop(ctx context.Context, source transfer.Ref, target *transfer.Ref) (*dispatch.Pending, error)
	Split(ctx context.Context, source transfer.Ref, amount int) (*dispatch.Pending, error)
}

// Modifiers records the keyboard state a drop was made under
type Modifiers interface {
	SetShiftPressed(pressed bool)
	SetItemAmount(n int)
}

// CraftQueue accepts crafting requests
type CraftQueue interface {
	QueueRecipe(ctx context.Context, item domain.Slot, quantity int) error
	Cancel(ctx context.Context, index int) error
}

// Shop is the cart and checkout
type Shop interface {
	AddToCart(ctx context.Context, item domain.Slot) error
	ChangeQuantity(ctx context.Context, key string, delta int) error
	RemoveFromCart(ctx context.Context, key string) error
	Cart() economy.CartView
	Checkout(ctx context.Context, method domain.PayMethod) error
}

// InventoryReader looks up open inventories
type InventoryReader interface {
	Inventories() domain.Inventories
}

// ContextActions are the item context-menu entries that reach the host
type ContextActions interface {
	RemoveComponent(ctx context.Context, component string, slot int) error
	RemoveAmmo(ctx context.Context, slot int) error
	UseButton(ctx context.Context, index, slot int) error
}

// SlotRef names one slot of an open inventory
type SlotRef struct {
	Inventory string `json:"inventory" validate:"required,max=64"`
	Slot      int    `json:"slot" validate:"min=1"`
}

func (s SlotRef) ref() transfer.Ref {
	return transfer.Ref{Inventory: domain.InventoryType(s.Inventory), Slot: s.Slot}
}

type DropRequest struct {
	Source SlotRef  `json:"source" validate:"required"`
	Target *SlotRef `json:"target,omitempty" validate:"omitempty"`
	Shift  *bool    `json:"shift,omitempty"`
	Amount *int     `json:"amount,omitempty" validate:"omitempty,min=0,max=1000000"`
}

type SplitRequest struct {
	Source SlotRef `json:"source" validate:"required"`
	Amount int     `json:"amount" validate:"min=1,max=1000000"`
}

// DropResponse describes how a drop was handled. Settled is false when the
// host had not answered yet.
type DropResponse struct {
	Route   string `json:"route"`
	Kind    string `json:"kind,omitempty"`
	Settled bool   `json:"settled"`
	Audio   bool   `json:"audio,omitempty"`
	Error   string `json:"error,omitempty"`
}

// settleTimeout bounds ?wait=true
const settleTimeout = 10 * time.Second

// HandleDrop runs a drag from source onto target, or onto the default
// destination when target is omitted. With ?wait=true the response waits for
// the host's confirmation.
func HandleDrop(d Dropper, mods Modifiers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DropRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Drop"); err != nil {
			return
		}

		if req.Shift != nil {
			mods.SetShiftPressed(*req.Shift)
		}
		if req.Amount != nil {
			mods.SetItemAmount(*req.Amount)
		}

		var target *transfer.Ref
		if req.Target != nil {
			t := req.Target.ref()
			target = &t
		}

		pending, err := d.Drop(r.Context(), req.Source.ref(), target)
		if err != nil {
			respondServiceError(w, r, "Drop", err)
			return
		}
		respondPending(w, r, pending)
	}
}

// HandleSplit moves amount items of a stack into a free slot
func HandleSplit(d Dropper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SplitRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Split"); err != nil {
			return
		}

		pending, err := d.Split(r.Context(), req.Source.ref(), req.Amount)
		if err != nil {
			respondServiceError(w, r, "Split", err)
			return
		}
		respondPending(w, r, pending)
	}
}

func respondPending(w http.ResponseWriter, r *http.Request, p *dispatch.Pending) {
	resp := DropResponse{Route: p.Route.String()}
	if p.Route == transfer.RouteTransfer {
		resp.Kind = p.Plan.Kind.String()
	}

	if GetBoolQueryParam(r, "wait") {
		ctx, cancel := context.WithTimeout(r.Context(), settleTimeout)
		defer cancel()
		if err := p.Wait(ctx); errors.Is(err, context.DeadlineExceeded) {
			respondJSON(w, http.StatusAccepted, resp)
			return
		}
	}

	select {
	case <-p.Done():
		resp.Settled = true
		resp.Audio = p.Audio()
		if err := p.Err(); err != nil {
			status, msg := mapServiceErrorToUserMessage(err)
			resp.Error = msg
			logger.FromContext(r.Context()).Debug(LogMsgDropSettled, "route", resp.Route, "error", err)
			respondJSON(w, status, resp)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	default:
		respondJSON(w, http.StatusAccepted, resp)
	}
}

type CraftRequest struct {
	Recipe   string `json:"recipe" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

// HandleCraft queues quantity crafts of a recipe on the open bench
func HandleCraft(queue CraftQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CraftRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Craft"); err != nil {
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		if err := queue.QueueRecipe(r.Context(), domain.Slot{Name: req.Recipe}, req.Quantity); err != nil {
			respondServiceError(w, r, "Craft", err)
			return
		}
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgCraftQueued})
	}
}

// URLParamIndex is the route parameter holding a queue position
const URLParamIndex = "index"

// HandleCancelCraft removes the queue entry at {index}
func HandleCancelCraft(queue CraftQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, URLParamIndex))
		if err != nil || index < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidQueueIndex)
			return
		}

		if err := queue.Cancel(r.Context(), index); err != nil {
			respondServiceError(w, r, "Cancel craft", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCraftCancelled})
	}
}

// Cart actions
const (
	CartActionAdd    = "add"
	CartActionChange = "change"
	CartActionRemove = "remove"
)

// CartRequest edits the cart. add takes the shop slot; change and remove take
// the cart key.
type CartRequest struct {
	Action string `json:"action" validate:"required,oneof=add change remove"`
	Slot   int    `json:"slot" validate:"required_if=Action add,omitempty,min=1"`
	Key    string `json:"key" validate:"max=200"`
	Delta  int    `json:"delta" validate:"required_if=Action change"`
}

// HandleCart applies a cart edit and returns the cart
func HandleCart(shop Shop, inv InventoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CartRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Cart"); err != nil {
			return
		}
		ctx := r.Context()

		var err error
		switch req.Action {
		case CartActionAdd:
			bundle := inv.Inventories()
			slot := bundle.Right.SlotAt(req.Slot)
			if bundle.Right.Type != domain.InventoryShop || slot == nil || slot.Name == "" {
				respondError(w, http.StatusNotFound, ErrMsgSlotNotFoundError)
				return
			}
			err = shop.AddToCart(ctx, *slot)
		case CartActionChange, CartActionRemove:
			if req.Key == "" {
				respondError(w, http.StatusBadRequest, ErrMsgMissingCartKey)
				return
			}
			if req.Action == CartActionChange {
				err = shop.ChangeQuantity(ctx, req.Key, req.Delta)
			} else {
				err = shop.RemoveFromCart(ctx, req.Key)
			}
		}
		if err != nil {
			respondServiceError(w, r, "Cart "+req.Action, err)
			return
		}

		respondJSON(w, http.StatusOK, shop.Cart())
	}
}

type CheckoutRequest struct {
	Method string `json:"method" validate:"required,paymethod"`
}

// HandleCheckout buys everything in the cart
func HandleCheckout(shop Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckoutRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Checkout"); err != nil {
			return
		}

		method := domain.PayMethod(strings.ToLower(req.Method))
		if err := shop.Checkout(r.Context(), method); err != nil {
			respondServiceError(w, r, "Checkout", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCheckoutSuccess})
	}
}

// Context-menu actions
const (
	ContextRemoveComponent = "removeComponent"
	ContextRemoveAmmo      = "removeAmmo"
	ContextUseButton       = "useButton"
)

type ContextRequest struct {
	Action    string `json:"action" validate:"required,oneof=removeComponent removeAmmo useButton"`
	Slot      int    `json:"slot" validate:"min=1"`
	Component string `json:"component" validate:"max=100,excludesall=\x00\n\r\t"`
	Button    int    `json:"button" validate:"min=0,max=64"`
}

// HandleContextAction forwards a context-menu action to the host
func HandleContextAction(actions ContextActions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContextRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Context action"); err != nil {
			return
		}
		ctx := r.Context()
		LogRequestFields(logger.FromContext(ctx), "action", req.Action, "slot", req.Slot)

		var err error
		switch req.Action {
		case ContextRemoveComponent:
			if req.Component == "" {
				respondError(w, http.StatusBadRequest, ErrMsgMissingComponent)
				return
			}
			err = actions.RemoveComponent(ctx, req.Component, req.Slot)
		case ContextRemoveAmmo:
			err = actions.RemoveAmmo(ctx, req.Slot)
		case ContextUseButton:
			err = actions.UseButton(ctx, req.Button, req.Slot)
		}
		if err != nil {
			respondServiceError(w, r, "Context action", err)
			return
		}
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgActionQueued})
	}
}
