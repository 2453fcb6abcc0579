package transfer

import (
	"fmt"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// Route is the flow a drop is handed to.
type Route int

const (
	// RouteTransfer is a move, stack or swap between open inventories.
	RouteTransfer Route = iota
	// RouteBuy adds a shop item to the cart.
	RouteBuy
	// RouteCraft queues a recipe from the crafting bench.
	RouteCraft
)

// String returns the lowercase name of the route
func (r Route) String() string {
	switch r {
	case RouteTransfer:
		return "transfer"
	case RouteBuy:
		return "buy"
	case RouteCraft:
		return "craft"
	default:
		return "unknown"
	}
}

// RouteFor picks the flow for a drop from sourceType onto targetType. An
// empty targetType means no explicit target. Shops and crafting benches never
// accept drops.
func RouteFor(sourceType, targetType domain.InventoryType) (Route, error) {
	if targetType == domain.InventoryShop || targetType == domain.InventoryCrafting {
		return 0, fmt.Errorf("%w: %s", domain.ErrDropNotAllowed, targetType)
	}
	switch sourceType {
	case domain.InventoryShop:
		return RouteBuy, nil
	case domain.InventoryCrafting:
		return RouteCraft, nil
	default:
		return RouteTransfer, nil
	}
}
