package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	applog "storefront/internal/log"
	"storefront/internal/validate"
)

type CartHandler struct {
	Catalog Catalog
}

// Add puts a product in the cart. Products already on the visitor's listing
// are copied from there; others are fetched.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	s := current(c)
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty, ok := validate.Qty(c.FormValue("qty"))
	if !ok {
		qty = 1
	}

	p, found := s.Browser.Product(id)
	if !found {
		var err error
		p, err = h.Catalog.Product(remoteCtx(c, s), id)
		if errors.Is(err, catalog.ErrNotFound) {
			return notFound(c, fiber.StatusNotFound, "This item is no longer available")
		}
		if err != nil {
			applog.Error(c, "cart.add.lookup", err, map[string]any{"id": id})
			return notFound(c, fiber.StatusBadGateway, catalog.Message(err, "Failed to add product. Please try again."))
		}
	}

	size := validate.Size(c.FormValue("size"))
	if size == "" {
		size = defaultSize
	}
	color := validate.Color(c.FormValue("color"))
	if color == "" {
		color = defaultColor
	}
	if err := s.Cart.Add(p, qty, size, color); err != nil {
		applog.Error(c, "cart.add", err, nil)
		return err
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": id, "qty": qty})
	return c.Redirect(safeNext(c.FormValue("next"), "/cart"))
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	items := current(c).Cart.Load().Items
	return render(c, "cart", fiber.Map{
		"Items":    items,
		"Subtotal": cart.Subtotal(items),
		"Total":    cart.Total(items),
		"Count":    cart.Count(items),
	})
}

// UpdateQuantity ignores non-positive or malformed quantities; the page
// simply shows the stored value again.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/cart")
	}
	qty, ok := validate.Qty(c.FormValue("qty"))
	if !ok {
		return c.Redirect("/cart")
	}
	if err := current(c).Cart.UpdateQuantity(id, qty); err != nil && !errors.Is(err, cart.ErrInvalidQuantity) {
		applog.Error(c, "cart.update", err, nil)
		return err
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/cart")
	}
	if err := current(c).Cart.Remove(id); err != nil {
		applog.Error(c, "cart.remove", err, nil)
		return err
	}
	return c.Redirect("/cart")
}

// Checkout sends guests to login, remembering checkout as the destination.
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	s := current(c)
	if !s.Gate.Authenticated() {
		next, err := s.Gate.RequireLogin("/checkout")
		if err != nil {
			applog.Error(c, "checkout.gate", err, nil)
			return err
		}
		applog.Info(c, "checkout.login_required", nil)
		return c.Redirect(next)
	}
	return c.Redirect("/checkout")
}
