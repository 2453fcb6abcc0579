package economy

import (
	"strconv"
	"sync"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// CartItem is one line of the shopping cart.
type CartItem struct {
	Key      string  `json:"itemKey"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// CartKey identifies a shop slot in the cart.
func CartKey(item domain.Slot) string {
	return item.Name + strconv.Itoa(item.Slot)
}

// Cart is the shopping cart of the open shop. Lines keep insertion order.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// Add puts one more of item in the cart. The line is named after the item's
// metadata label when it has one.
func (c *Cart) Add(item domain.Slot, image string) CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := CartKey(item)
	for i := range c.items {
		if c.items[i].Key == key {
			c.items[i].Quantity++
			return c.items[i]
		}
	}

	name := item.Name
	if label, ok := item.Metadata.String(domain.MetaLabel); ok && label != "" {
		name = label
	}
	var price float64
	if item.Price != nil {
		price = *item.Price
	}
	line := CartItem{Key: key, Name: name, Price: price, Quantity: 1, Image: image}
	c.items = append(c.items, line)
	return line
}

// ChangeQuantity adds delta to a line, never going below one.
func (c *Cart) ChangeQuantity(key string, delta int) (CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Key == key {
			c.items[i].Quantity = max(1, c.items[i].Quantity+delta)
			return c.items[i], true
		}
	}
	return CartItem{}, false
}

// Remove drops a line.
func (c *Cart) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartItem(nil), c.items...)
}

// Total is the sum of price times quantity.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Lines converts the cart to the host's purchase format.
func (c *Cart) Lines() []domain.PurchaseLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.PurchaseLine, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, domain.PurchaseLine{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return out
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
