package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	"storefront/internal/listing"
	applog "storefront/internal/log"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog Catalog
}

type colorOption struct {
	Name  string
	Value string
}

// The catalog has no variants; the detail page offers a fixed set.
var (
	sizes  = []string{"L", "XL", "XS"}
	colors = []colorOption{
		{Name: "purple", Value: "#9B59B6"},
		{Name: "black", Value: "#000000"},
		{Name: "gold", Value: "#B88E2F"},
	}
)

const (
	defaultSize  = "L"
	defaultColor = "gold"
)

// List renders the listing for ?category, ?q and ?page.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	s := current(c)

	category := listing.AllCategories
	if raw := c.Query("category"); raw != "" {
		cat, ok := validate.Category(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category", "value": raw})
		} else {
			category = cat
		}
	}

	if err := s.Browser.Open(remoteCtx(c, s), category); err != nil {
		// A newer request from the same visitor owns the state now.
		if !errors.Is(err, listing.ErrSuperseded) {
			applog.Error(c, "products.load", err, map[string]any{"category": category})
		}
	}

	if q := validate.Q(c.Query("q")); q != s.Browser.Query() {
		s.Browser.SetQuery(q)
	}
	if !s.Browser.GoToPage(validate.Page(c.Query("page"))) {
		s.Browser.GoToPage(1)
	}

	return render(c, "products", fiber.Map{"View": s.Browser.View()})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, fiber.StatusNotFound, "This item is no longer available")
	}
	s := current(c)
	p, err := h.Catalog.Product(remoteCtx(c, s), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return notFound(c, fiber.StatusNotFound, "This item is no longer available")
	}
	if err != nil {
		applog.Error(c, "product.load", err, map[string]any{"id": id})
		return notFound(c, fiber.StatusBadGateway, "Failed to load product. Please try again.")
	}
	return render(c, "product", fiber.Map{
		"P":             p,
		"Sizes":         sizes,
		"Colors":        colors,
		"SelectedSize":  defaultSize,
		"SelectedColor": defaultColor,
		"Thumbnails":    []string{p.Image, p.Image, p.Image, p.Image},
	})
}
