// Package economy holds shop purchase rules and the shopping cart.
package economy

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
)

// Purchaser is the part of the host that settles a checkout.
type Purchaser interface {
	BuyItems(ctx context.Context, items []domain.PurchaseLine, method domain.PayMethod) error
}

// InventorySource supplies the open shop and the player's groups.
type InventorySource interface {
	Inventories() domain.Inventories
}

// ItemLookup resolves catalog images for cart lines.
type ItemLookup interface {
	Get(name string) (domain.ItemData, bool)
}

// CartView is the cart as shown to the renderer.
type CartView struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// Service defines the shop operations
type Service interface {
	AddToCart(ctx context.Context, item domain.Slot) error
	ChangeQuantity(ctx context.Context, key string, delta int) error
	RemoveFromCart(ctx context.Context, key string) error
	Cart() CartView
	ClearCart()
	Checkout(ctx context.Context, method domain.PayMethod) error
	SetImagePath(path string)
}

type service struct {
	host      Purchaser
	inv       InventorySource
	items     ItemLookup
	cart      Cart

	mu        sync.RWMutex
	imagePath string
}

// NewService creates a shop service. items may be nil.
func NewService(host Purchaser, inv InventorySource, items ItemLookup, imagePath string) Service {
	return &service{
		host:      host,
		inv:       inv,
		items:     items,
		imagePath: imagePath,
	}
}

// AddToCart adds one of item when the open shop lets the player buy it.
func (s *service) AddToCart(ctx context.Context, item domain.Slot) error {
	log := logger.FromContext(ctx)

	bundle := s.inv.Inventories()
	if !CanPurchaseItem(item, bundle.Right, bundle.Left.Groups) {
		log.Info(LogMsgNotPurchasable, "item", item.Name, "slot", item.Slot)
		return fmt.Errorf(ErrMsgNotPurchasableFmt, item.Name, item.Slot, domain.ErrNotPurchasable)
	}

	var data *domain.ItemData
	if s.items != nil {
		if d, ok := s.items.Get(item.Name); ok {
			data = &d
		}
	}

	s.mu.RLock()
	imagePath := s.imagePath
	s.mu.RUnlock()

	line := s.cart.Add(item, domain.ItemImageURL(item, data, imagePath))
	log.Debug(LogMsgCartItemAdded, "key", line.Key, "quantity", line.Quantity)
	return nil
}

func (s *service) ChangeQuantity(ctx context.Context, key string, delta int) error {
	if _, ok := s.cart.ChangeQuantity(key, delta); !ok {
		return fmt.Errorf(ErrMsgCartItemNotFoundFmt, key, domain.ErrCartItemNotFound)
	}
	return nil
}

func (s *service) RemoveFromCart(ctx context.Context, key string) error {
	if !s.cart.Remove(key) {
		return fmt.Errorf(ErrMsgCartItemNotFoundFmt, key, domain.ErrCartItemNotFound)
	}
	logger.FromContext(ctx).Debug(LogMsgCartItemRemoved, "key", key)
	return nil
}

func (s *service) Cart() CartView {
	return CartView{Items: s.cart.Items(), Total: s.cart.Total()}
}

func (s *service) ClearCart() {
	s.cart.Clear()
}

// SetImagePath changes the prefix used for cart line images added from now on.
func (s *service) SetImagePath(path string) {
	s.mu.Lock()
	s.imagePath = path
	s.mu.Unlock()
}

// Checkout sends the cart to the host and empties it once the host accepts.
func (s *service) Checkout(ctx context.Context, method domain.PayMethod) error {
	log := logger.FromContext(ctx)

	if !method.Valid() {
		return fmt.Errorf(ErrMsgInvalidPayMethodFmt, method, domain.ErrInvalidPayMethod)
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		log.Debug(LogMsgCheckoutEmpty)
		return domain.ErrCartEmpty
	}

	if err := s.host.BuyItems(ctx, lines, method); err != nil {
		log.Warn(LogMsgCheckoutFailed, "method", method, "error", err)
		return fmt.Errorf(ErrMsgBuyItemsFailed, err)
	}

	s.cart.Clear()
	metrics.PurchasesTotal.WithLabelValues(string(method)).Inc()
	log.Info(LogMsgCheckoutCompleted, "method", method, "lines", len(lines))
	return nil
}
