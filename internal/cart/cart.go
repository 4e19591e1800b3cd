// Package cart keeps the persisted cart blob as the single source of truth.
// Every mutation is a full read-modify-write followed by a CartChanged
// notification; nothing is cached between calls.
package cart

import (
	"errors"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/events"
	applog "storefront/internal/log"
	"storefront/internal/storage"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Cart struct {
	Store storage.Store
	Bus   *events.Bus

	// Lock serializes read-modify-write cycles on Store. Carts over the
	// same store must share it; nil means a lock private to this Cart.
	Lock sync.Locker

	mu sync.Mutex
}

func New(store storage.Store, bus *events.Bus) *Cart {
	return &Cart{Store: store, Bus: bus}
}

func (c *Cart) locker() sync.Locker {
	if c.Lock != nil {
		return c.Lock
	}
	return &c.mu
}

// Load reads the persisted cart. A missing or corrupt blob reads as empty;
// corruption is logged, never returned.
func (c *Cart) Load() domain.Cart {
	var out domain.Cart
	ok, err := storage.GetJSON(c.Store, storage.KeyCart, &out)
	if err != nil {
		applog.Error(nil, "cart.load", err, nil)
		return domain.Cart{Items: []domain.CartItem{}}
	}
	if !ok || out.Items == nil {
		out.Items = []domain.CartItem{}
	}
	out.Total = Total(out.Items)
	return out
}

// Add merges quantity into the line for product, or appends a new line.
// An existing line keeps the size and color it was first added with.
func (c *Cart) Add(product domain.Product, quantity int, size, color string) error {
	if quantity < 1 {
		quantity = 1
	}
	return c.update(func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID == product.ID {
				items[i].Quantity += quantity
				return items
			}
		}
		return append(items, domain.CartItem{Product: product, Quantity: quantity, Size: size, Color: color})
	})
}

// UpdateQuantity sets the quantity of the line for productID. Non-positive
// quantities are rejected without touching the store.
func (c *Cart) UpdateQuantity(productID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return c.update(func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID == productID {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

func (c *Cart) Remove(productID int) error {
	return c.update(func(items []domain.CartItem) []domain.CartItem {
		kept := items[:0]
		for _, it := range items {
			if it.Product.ID != productID {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

// Clear empties the cart, e.g. after an order was placed.
func (c *Cart) Clear() error {
	return c.update(func([]domain.CartItem) []domain.CartItem { return nil })
}

// update runs one read-modify-write cycle and notifies subscribers once the
// write is done. Subscribers are called without the lock held.
func (c *Cart) update(fn func([]domain.CartItem) []domain.CartItem) error {
	l := c.locker()
	l.Lock()
	items := fn(c.Load().Items)
	if items == nil {
		items = []domain.CartItem{}
	}
	err := storage.SetJSON(c.Store, storage.KeyCart, domain.Cart{Items: items, Total: Total(items)})
	l.Unlock()
	if err != nil {
		return err
	}
	if c.Bus != nil {
		c.Bus.Publish(events.CartChanged)
	}
	return nil
}

func Subtotal(items []domain.CartItem) float64 {
	sum := 0.0
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}

// Total equals Subtotal; there is no tax or shipping.
func Total(items []domain.CartItem) float64 { return Subtotal(items) }

// Count is the number of units across all lines.
func Count(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
