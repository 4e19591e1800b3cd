package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/cart"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	items := current(c).Cart.Load().Items
	if len(items) == 0 {
		return c.Redirect("/cart")
	}
	return render(c, "checkout", fiber.Map{
		"Items": items,
		"Total": cart.Total(items),
	})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	s := current(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("name must be 1-40 characters")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid email")
	}
	address, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("address must be 5-200 characters")
	}

	o, err := h.Order.Place(s.Origin, s.Gate.Username(), s.Cart, services.Contact{Name: name, Email: email, Address: address})
	if errors.Is(err, services.ErrEmptyCart) {
		return c.Redirect("/cart")
	}
	if err != nil && o.ID == "" {
		applog.Error(c, "order.place.fail", err, nil)
		return notFound(c, fiber.StatusInternalServerError, "Could not place order. Please try again.")
	}
	if err != nil {
		// The order exists; only clearing the cart failed.
		applog.Error(c, "order.cart.clear", err, map[string]any{"order_id": o.ID})
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": o.Total})
	return c.Redirect("/order/" + o.ID)
}

// View shows an order only to the origin that placed it.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	o, err := h.Repo.Get(oid)
	if err != nil {
		return notFound(c, fiber.StatusNotFound, "Order not found")
	}
	if o.Origin != current(c).Origin {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return notFound(c, fiber.StatusNotFound, "Order not found")
	}
	items, err := services.Items(o)
	if err != nil {
		applog.Error(c, "order.items.decode", err, map[string]any{"order_id": oid})
	}
	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}
