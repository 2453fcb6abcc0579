package handler

import (
	"context"
	"net/http"

	"github.com/osse101/InventoryHUD_Go/internal/crafting"
	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/economy"
)

// StateReader exposes the inventory mirror
type StateReader interface {
	Snapshot() domain.RootState
}

// CraftingStatus exposes the crafting queue
type CraftingStatus interface {
	Status() crafting.Status
}

// CartReader exposes the shop cart
type CartReader interface {
	Cart() economy.CartView
}

// SessionInfo exposes the strings and image path received at init
type SessionInfo interface {
	Locale() map[string]string
	ImagePath() string
	PhoneKey(ctx context.Context) string
}

// StateResponse is everything the renderer draws from.
type StateResponse struct {
	domain.RootState
	Crafting  crafting.Status   `json:"crafting"`
	Cart      economy.CartView  `json:"cart"`
	Locale    map[string]string `json:"locale,omitempty"`
	ImagePath string            `json:"imagePath"`
	PhoneKey  string            `json:"phoneKey"`
	Craftable map[string]bool   `json:"craftable,omitempty"`
}

// HandleGetState returns the current state. ?locale=false leaves out the
// locale strings.
func HandleGetState(store StateReader, queue CraftingStatus, cart CartReader, sess SessionInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StateResponse{
			RootState: store.Snapshot(),
			Crafting:  queue.Status(),
			Cart:      cart.Cart(),
			ImagePath: sess.ImagePath(),
			PhoneKey:  sess.PhoneKey(r.Context()),
		}
		resp.Craftable = craftableRecipes(resp.Inventories)
		if GetOptionalQueryParam(r, "locale", "true") != "false" {
			resp.Locale = sess.Locale()
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// craftableRecipes flags each recipe on an open bench by whether one craft
// of it is affordable right now.
func craftableRecipes(inv domain.Inventories) map[string]bool {
	if inv.Right.Type != domain.InventoryCrafting {
		return nil
	}
	out := make(map[string]bool)
	for _, item := range inv.Right.Items {
		if !domain.IsItemPresent(item, false) {
			continue
		}
		out[item.Name] = crafting.CanCraftItem(inv, item, domain.InventoryCrafting)
	}
	return out
}
