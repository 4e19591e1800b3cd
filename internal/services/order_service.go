package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

var ErrEmptyCart = errors.New("cart empty")

type Contact struct {
	Name    string
	Email   string
	Address string
}

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Place records the current cart of origin as an order and empties the cart.
// The total is recomputed from the lines, never taken from the stored blob.
func (s *OrderService) Place(origin, username string, c *cart.Cart, contact Contact) (domain.Order, error) {
	current := c.Load()
	if len(current.Items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	items, err := json.Marshal(current.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("encode items: %w", err)
	}
	o := domain.Order{
		ID:        uuid.NewString(),
		Origin:    origin,
		Username:  username,
		Name:      contact.Name,
		Email:     contact.Email,
		Address:   contact.Address,
		ItemsJSON: string(items),
		Total:     cart.Total(current.Items),
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	if err := c.Clear(); err != nil {
		return o, fmt.Errorf("clear cart after order %s: %w", o.ID, err)
	}
	return o, nil
}

// Items decodes the lines stored with an order.
func Items(o domain.Order) ([]domain.CartItem, error) {
	var out []domain.CartItem
	if err := json.Unmarshal([]byte(o.ItemsJSON), &out); err != nil {
		return nil, fmt.Errorf("decode order %s items: %w", o.ID, err)
	}
	return out, nil
}
